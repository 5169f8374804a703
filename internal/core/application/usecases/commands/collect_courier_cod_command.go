package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCollectCourierCODCommandIsNotConstructed = errors.New(
	"CollectCourierCODCommand must be created via NewCollectCourierCODCommand constructor",
)

// CollectCourierCODCommand records an end-of-shift cash hand-over: every COD
// the courier still holds is marked collected.
type CollectCourierCODCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

func NewCollectCourierCODCommand(courierID kernel.UUID, actor kernel.Actor) (CollectCourierCODCommand, error) {
	if err := errors.Join(courierID.Validate(), actor.Validate()); err != nil {
		return CollectCourierCODCommand{}, err
	}

	return CollectCourierCODCommand{
		courierID: courierID,
		actor:     actor,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CollectCourierCODCommand) Validate() error {
	return c.guard.Validate(ErrCollectCourierCODCommandIsNotConstructed)
}

func (c CollectCourierCODCommand) CourierID() kernel.UUID { return c.courierID }
func (c CollectCourierCODCommand) Actor() kernel.Actor    { return c.actor }
