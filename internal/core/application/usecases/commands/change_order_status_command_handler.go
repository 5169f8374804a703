package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// ChangeOrderStatusCommandHandler applies a status transition. The status and
// its STATUS_CHANGED audit entry are written in one transaction; a lost
// compare-and-swap is retried against the fresh order.
//
// Example:
//
//	handler := NewChangeOrderStatusCommandHandler(uowFactory, publisher, logger)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // wrong role or wrong step
//	case errors.Is(err, errs.ErrPreconditionFailed):
//	    // assign a courier or attach a proof photo first
//	}
type ChangeOrderStatusCommandHandler struct {
	mutator orderMutator
}

func NewChangeOrderStatusCommandHandler(
	uowFactory UoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		mutator: newOrderMutator(uowFactory, publisher, logger),
	}
}

func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutator.apply(ctx, cmd.OrderID(), func(_ context.Context, _ UoW, o *order.Order, now time.Time) error {
		return o.ChangeStatus(cmd.Actor(), cmd.Target(), now)
	})
}
