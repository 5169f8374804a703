package services

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Balance is what a courier and the operator owe each other.
type Balance struct {
	CourierID kernel.UUID
	// CODOutstanding is cash the courier collected and still has to hand over.
	CODOutstanding int64
	// AdvanceOwed is cash the courier fronted and the operator still has to repay.
	AdvanceOwed int64
	// OpenOrders counts orders with anything outstanding.
	OpenOrders int
}

// FinancialLedger computes courier balances from order state. Balances are
// never stored; they are recomputed from the orders every time.
type FinancialLedger struct{}

func NewFinancialLedger() FinancialLedger {
	return FinancialLedger{}
}

// OutstandingBalance sums what is open on the orders held by courierID. Orders
// assigned to other couriers are ignored.
func (FinancialLedger) OutstandingBalance(courierID kernel.UUID, orders []*order.Order) Balance {
	balance := Balance{CourierID: courierID}
	for _, o := range orders {
		if o == nil || !o.IsAssignedTo(courierID) {
			continue
		}
		open := false
		if o.COD().IsOutstanding() {
			balance.CODOutstanding += o.COD().Amount()
			open = true
		}
		if o.CashAdvance().IsOutstanding() {
			balance.AdvanceOwed += o.CashAdvance().Amount()
			open = true
		}
		if open {
			balance.OpenOrders++
		}
	}
	return balance
}

// CollectAll marks the COD of every given order collected, as happens when a
// courier hands over the day's cash. Orders already collected or without COD
// are skipped. It returns the orders that changed and the amount collected.
func (FinancialLedger) CollectAll(
	actor kernel.Actor,
	orders []*order.Order,
	at time.Time,
) ([]*order.Order, int64, error) {
	var (
		changed []*order.Order
		total   int64
	)
	for _, o := range orders {
		if !o.COD().IsOutstanding() {
			continue
		}
		if err := o.MarkCODCollected(actor, at); err != nil {
			return nil, 0, err
		}
		changed = append(changed, o)
		total += o.COD().Amount()
	}
	return changed, total, nil
}
