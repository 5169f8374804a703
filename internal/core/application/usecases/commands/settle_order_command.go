package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrSettleOrderCommandIsNotConstructed = errors.New(
		"SettleOrderCommand must be created via NewSettleOrderCommand constructor",
	)
	ErrSettlementEntryIsInvalid = errors.New("settlement entry must be COD or CASH_ADVANCE")
)

// SettlementEntry names which of an order's two money flows is being closed.
type SettlementEntry string

const (
	// SettleCOD records that the courier handed the COD cash to the operator.
	SettleCOD SettlementEntry = "COD"
	// SettleCashAdvance records that the operator repaid the courier's advance.
	SettleCashAdvance SettlementEntry = "CASH_ADVANCE"
)

// SettleOrderCommand closes one money flow of one order.
type SettleOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor
	entry   SettlementEntry

	guard guard.ConstructorGuard
}

func NewSettleOrderCommand(orderID kernel.UUID, actor kernel.Actor, entry SettlementEntry) (SettleOrderCommand, error) {
	var entryErr error
	if entry != SettleCOD && entry != SettleCashAdvance {
		entryErr = ErrSettlementEntryIsInvalid
	}
	if err := errors.Join(orderID.Validate(), actor.Validate(), entryErr); err != nil {
		return SettleOrderCommand{}, err
	}

	return SettleOrderCommand{
		orderID: orderID,
		actor:   actor,
		entry:   entry,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SettleOrderCommand) Validate() error {
	return c.guard.Validate(ErrSettleOrderCommandIsNotConstructed)
}

func (c SettleOrderCommand) OrderID() kernel.UUID   { return c.orderID }
func (c SettleOrderCommand) Actor() kernel.Actor    { return c.actor }
func (c SettleOrderCommand) Entry() SettlementEntry { return c.entry }
