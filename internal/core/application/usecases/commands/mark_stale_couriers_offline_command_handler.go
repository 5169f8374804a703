package commands

import (
	"context"
	"log/slog"
	"time"
)

// MarkStaleCouriersOfflineCommandHandler sweeps online couriers and flips the
// silent ones offline in a single transaction. Orders they hold are untouched;
// only future dispatch skips them.
type MarkStaleCouriersOfflineCommandHandler struct {
	uowFactory CourierUoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

func NewMarkStaleCouriersOfflineCommandHandler(
	uowFactory CourierUoWFactory,
	logger *slog.Logger,
) MarkStaleCouriersOfflineCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return MarkStaleCouriersOfflineCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes the sweep. Returns how many couriers went offline.
func (h *MarkStaleCouriersOfflineCommandHandler) Handle(
	ctx context.Context,
	cmd MarkStaleCouriersOfflineCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	couriers, err := courierRepo.GetAllOnline(ctx)
	if err != nil {
		return 0, err
	}

	now := h.now()
	marked := 0
	for _, c := range couriers {
		if !c.IsStale(now, cmd.TTL()) {
			continue
		}

		c.GoOffline()
		if err = courierRepo.Update(ctx, c); err != nil {
			return 0, err
		}
		marked++

		h.logger.InfoContext(ctx, "courier marked offline",
			"courierId", c.ID().String(),
			"lastSeenAt", c.LastSeenAt(),
		)
	}

	if marked == 0 {
		return 0, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return marked, nil
}
