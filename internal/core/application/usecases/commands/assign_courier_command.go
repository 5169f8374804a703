package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand is a manual assignment or reassignment by an operator.
type AssignCourierCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

func NewAssignCourierCommand(orderID, courierID kernel.UUID, actor kernel.Actor) (AssignCourierCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate(), actor.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		orderID:   orderID,
		courierID: courierID,
		actor:     actor,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(
		ErrAssignCourierCommandIsNotConstructed,
	)
}

func (c AssignCourierCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AssignCourierCommand) CourierID() kernel.UUID { return c.courierID }
func (c AssignCourierCommand) Actor() kernel.Actor    { return c.actor }
