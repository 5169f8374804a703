package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// AttachProofCommandHandler records a proof photo on an order.
type AttachProofCommandHandler struct {
	mutator orderMutator
}

func NewAttachProofCommandHandler(
	uowFactory UoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) AttachProofCommandHandler {
	return AttachProofCommandHandler{
		mutator: newOrderMutator(uowFactory, publisher, logger),
	}
}

func (h AttachProofCommandHandler) Handle(ctx context.Context, cmd AttachProofCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutator.apply(ctx, cmd.OrderID(), func(_ context.Context, _ UoW, o *order.Order, now time.Time) error {
		return o.AttachProof(cmd.Actor(), cmd.PhotoURL(), now)
	})
}
