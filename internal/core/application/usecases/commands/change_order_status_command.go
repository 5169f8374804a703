package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand asks to move an order to a target status on behalf
// of an actor. Whether the move is allowed is decided by the order itself.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor
	target  order.Status

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	target order.Status,
) (ChangeOrderStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate(), target.Validate()); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{
		orderID: orderID,
		actor:   actor,
		target:  target,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c ChangeOrderStatusCommand) Actor() kernel.Actor  { return c.actor }
func (c ChangeOrderStatusCommand) Target() order.Status { return c.target }
