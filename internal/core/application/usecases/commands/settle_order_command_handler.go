package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// SettleOrderCommandHandler marks COD collected or a cash advance reimbursed.
// A repeated request fails with errs.ErrAlreadySettled and writes nothing.
type SettleOrderCommandHandler struct {
	mutator orderMutator
}

func NewSettleOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) SettleOrderCommandHandler {
	return SettleOrderCommandHandler{
		mutator: newOrderMutator(uowFactory, publisher, logger),
	}
}

func (h SettleOrderCommandHandler) Handle(ctx context.Context, cmd SettleOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutator.apply(ctx, cmd.OrderID(), func(_ context.Context, _ UoW, o *order.Order, now time.Time) error {
		if cmd.Entry() == SettleCashAdvance {
			return o.MarkCashAdvanceReimbursed(cmd.Actor(), now)
		}
		return o.MarkCODCollected(cmd.Actor(), now)
	})
}
