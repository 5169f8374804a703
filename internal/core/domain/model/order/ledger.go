package order

import (
	"fmt"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// CashAdvance is money the courier fronted on the sender's behalf ("dana
// talangan"). The operator owes it back to the courier.
type CashAdvance struct {
	amount     int64
	reimbursed bool
}

// NewCashAdvance returns an unreimbursed advance. Zero means no advance.
func NewCashAdvance(amount int64) (CashAdvance, error) {
	advance := CashAdvance{amount: amount}
	if err := advance.validate(); err != nil {
		return CashAdvance{}, err
	}
	return advance, nil
}

// RestoreCashAdvance rebuilds an advance read from storage.
func RestoreCashAdvance(amount int64, reimbursed bool) (CashAdvance, error) {
	advance := CashAdvance{amount: amount, reimbursed: reimbursed}
	if err := advance.validate(); err != nil {
		return CashAdvance{}, err
	}
	return advance, nil
}

func (c CashAdvance) Amount() int64      { return c.amount }
func (c CashAdvance) IsReimbursed() bool { return c.reimbursed }

// IsOutstanding reports whether the operator still owes the advance.
func (c CashAdvance) IsOutstanding() bool {
	return c.amount > 0 && !c.reimbursed
}

func (c CashAdvance) validate() error {
	if c.amount < 0 {
		return errs.NewValueIsOutOfRangeError("cashAdvance.amount", c.amount, 0, "max int64")
	}
	if c.amount == 0 && c.reimbursed {
		return errs.NewValueIsInvalidErrorWithCause("cashAdvance", fmt.Errorf("zero advance cannot be reimbursed"))
	}
	return nil
}

// COD is cash the courier collects from the recipient and remits to the
// operator. An order is COD exactly when the amount is positive.
type COD struct {
	isCOD     bool
	amount    int64
	collected bool
}

// NewCOD returns an uncollected COD for a positive amount and a non-COD value for zero.
func NewCOD(amount int64) (COD, error) {
	cod := COD{isCOD: amount > 0, amount: amount}
	if err := cod.validate(); err != nil {
		return COD{}, err
	}
	return cod, nil
}

// RestoreCOD rebuilds a COD read from storage, rejecting rows that break the
// amount/flag pairing.
func RestoreCOD(isCOD bool, amount int64, collected bool) (COD, error) {
	cod := COD{isCOD: isCOD, amount: amount, collected: collected}
	if err := cod.validate(); err != nil {
		return COD{}, err
	}
	return cod, nil
}

func (c COD) IsCOD() bool       { return c.isCOD }
func (c COD) Amount() int64     { return c.amount }
func (c COD) IsCollected() bool { return c.collected }

// IsOutstanding reports whether the courier still owes the collected cash.
func (c COD) IsOutstanding() bool {
	return c.isCOD && !c.collected
}

func (c COD) validate() error {
	if c.amount < 0 {
		return errs.NewValueIsOutOfRangeError("cod.amount", c.amount, 0, "max int64")
	}
	if (c.amount > 0) != c.isCOD {
		return errs.NewValueIsInvalidErrorWithCause("cod",
			fmt.Errorf("isCOD=%t does not match amount %d", c.isCOD, c.amount))
	}
	if c.collected && !c.isCOD {
		return errs.NewValueIsInvalidErrorWithCause("cod", fmt.Errorf("non-COD order cannot be collected"))
	}
	return nil
}

// MarkCODCollected records that the courier handed the COD cash to the
// operator. It is not gated by delivery status.
func (o *Order) MarkCODCollected(actor kernel.Actor, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !o.cod.isCOD {
		return errs.NewPreconditionFailedError("order has no cash-on-delivery amount")
	}
	if o.cod.collected {
		return errs.NewAlreadySettledError("cod")
	}

	o.cod.collected = true
	o.appendAudit(EventCODCollected, actor, at, map[string]string{
		MetaAmount: strconv.FormatInt(o.cod.amount, 10),
	})
	o.evaluateSettlement()
	return nil
}

// MarkCashAdvanceReimbursed records that the operator paid the courier back.
func (o *Order) MarkCashAdvanceReimbursed(actor kernel.Actor, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if o.cashAdvance.amount == 0 {
		return errs.NewPreconditionFailedError("order has no cash advance")
	}
	if o.cashAdvance.reimbursed {
		return errs.NewAlreadySettledError("cash advance")
	}

	o.cashAdvance.reimbursed = true
	o.appendAudit(EventCashAdvanceReimbursed, actor, at, map[string]string{
		MetaAmount: strconv.FormatInt(o.cashAdvance.amount, 10),
	})
	o.evaluateSettlement()
	return nil
}

// MoneyResolved reports whether nothing is owed in either direction.
func (o *Order) MoneyResolved() bool {
	return !o.cod.IsOutstanding() && !o.cashAdvance.IsOutstanding()
}

// evaluateSettlement refreshes the payout flag. Only delivered orders can be
// settled; cancelled and rejected orders keep their ledger fields untouched.
func (o *Order) evaluateSettlement() {
	if o.status != Delivered {
		return
	}
	o.settled = o.MoneyResolved()
}
