package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDispatchOrderCommandIsNotConstructed = errors.New(
	"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
)

// DispatchOrderCommand asks to offer the next waiting order to the nearest
// free courier. It is issued by the dispatch job as the system actor.
type DispatchOrderCommand struct {
	actor kernel.Actor
	guard guard.ConstructorGuard
}

func NewDispatchOrderCommand() DispatchOrderCommand {
	return DispatchOrderCommand{
		actor: kernel.SystemActor("order-dispatcher"),
		guard: guard.NewConstructorGuard(),
	}
}

func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(
		ErrDispatchOrderCommandIsNotConstructed,
	)
}

func (c DispatchOrderCommand) Actor() kernel.Actor {
	return c.actor
}
