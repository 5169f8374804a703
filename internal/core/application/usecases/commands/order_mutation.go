package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"
)

// maxConflictAttempts bounds how often a command reloads an order after losing
// a compare-and-swap before giving the conflict back to the caller.
const maxConflictAttempts = 3

// orderMutation changes one loaded order. It runs inside the transaction and
// may use uow to read couriers.
type orderMutation func(ctx context.Context, uow UoW, o *order.Order, now time.Time) error

// orderMutator runs load, mutate, save, commit and publish for a single order.
type orderMutator struct {
	uowFactory UoWFactory
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func newOrderMutator(uowFactory UoWFactory, publisher ports.OrderEventPublisher, logger *slog.Logger) orderMutator {
	if logger == nil {
		logger = slog.Default()
	}
	return orderMutator{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// apply retries the whole cycle when the save hits a concurrent modification,
// so the mutation is re-validated against the fresh state each time.
func (m orderMutator) apply(ctx context.Context, orderID kernel.UUID, mutate orderMutation) error {
	return retryOnConflict(ctx, m.logger, func() error {
		return m.applyOnce(ctx, orderID, mutate)
	})
}

func (m orderMutator) applyOnce(ctx context.Context, orderID kernel.UUID, mutate orderMutation) error {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if err = mutate(ctx, uow, o, m.now()); err != nil {
		return err
	}

	entries := o.UnpersistedAuditEntries()
	if len(entries) == 0 {
		return nil
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishCommitted(ctx, m.publisher, m.logger, o, entries)
	return nil
}

func retryOnConflict(ctx context.Context, logger *slog.Logger, attempt func() error) error {
	var err error
	for i := 1; i <= maxConflictAttempts; i++ {
		err = attempt()
		if !errors.Is(err, errs.ErrConcurrentModification) {
			return err
		}
		metrics.OrderConflictsTotal.Inc()
		if i < maxConflictAttempts {
			logger.InfoContext(ctx, "order changed concurrently, retrying", "attempt", i, "error", err)
		}
	}
	return err
}

// publishCommitted reports committed entries. It never fails the command: the
// change is already durable, so a broker outage is only logged.
func publishCommitted(
	ctx context.Context,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
	o *order.Order,
	entries []order.AuditEntry,
) {
	for _, e := range entries {
		if e.Kind() == order.EventStatusChanged {
			metrics.OrderTransitionsTotal.
				WithLabelValues(e.Meta(order.MetaFrom), e.Meta(order.MetaTo), e.ActorRole().String()).
				Inc()
		}
	}

	if publisher == nil || len(entries) == 0 {
		return
	}
	if err := publisher.PublishAuditEntries(ctx, o.ID(), o.Status(), entries); err != nil {
		metrics.AuditPublishFailuresTotal.Inc()
		logger.WarnContext(ctx, "failed to publish order audit entries",
			"orderId", o.ID().String(),
			"entries", len(entries),
			"error", err,
		)
	}
}
