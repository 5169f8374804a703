package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// AssignCourierCommandHandler points an order at a chosen courier. The order
// keeps its status; offering it is a separate transition.
//
// Example:
//
//	handler := NewAssignCourierCommandHandler(uowFactory, publisher, logger)
//	cmd, _ := NewAssignCourierCommand(orderID, courierID, admin)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // order or courier does not exist
//	case errors.Is(err, errs.ErrPreconditionFailed):
//	    // courier is deactivated
//	}
type AssignCourierCommandHandler struct {
	mutator orderMutator
}

func NewAssignCourierCommandHandler(
	uowFactory UoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		mutator: newOrderMutator(uowFactory, publisher, logger),
	}
}

func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutator.apply(ctx, cmd.OrderID(), func(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
		c, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
		if err != nil {
			return err
		}
		return o.AssignCourier(cmd.Actor(), c, now)
	})
}
