package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// CollectedCOD summarizes a hand-over.
type CollectedCOD struct {
	Orders int
	Total  int64
}

// CollectCourierCODCommandHandler settles all outstanding COD of one courier in
// a single transaction. Either every order is marked or none is.
type CollectCourierCODCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
	ledger     services.FinancialLedger
}

func NewCollectCourierCODCommandHandler(
	uowFactory UoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CollectCourierCODCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CollectCourierCODCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
		ledger:     services.NewFinancialLedger(),
	}
}

func (h CollectCourierCODCommandHandler) Handle(ctx context.Context, cmd CollectCourierCODCommand) (CollectedCOD, error) {
	if err := cmd.Validate(); err != nil {
		return CollectedCOD{}, err
	}

	var result CollectedCOD
	err := retryOnConflict(ctx, h.logger, func() error {
		var err error
		result, err = h.collectOnce(ctx, cmd)
		return err
	})
	return result, err
}

func (h CollectCourierCODCommandHandler) collectOnce(ctx context.Context, cmd CollectCourierCODCommand) (CollectedCOD, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CollectedCOD{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.CourierRepository().Get(ctx, cmd.CourierID()); err != nil {
		return CollectedCOD{}, err
	}

	ordersRepo := uow.OrderRepository()
	orders, err := ordersRepo.GetAllWithOutstandingCOD(ctx, cmd.CourierID())
	if err != nil {
		return CollectedCOD{}, err
	}

	changed, total, err := h.ledger.CollectAll(cmd.Actor(), orders, time.Now().UTC())
	if err != nil {
		return CollectedCOD{}, err
	}
	if len(changed) == 0 {
		return CollectedCOD{}, nil
	}

	pending := make(map[*order.Order][]order.AuditEntry, len(changed))
	for _, o := range changed {
		pending[o] = o.UnpersistedAuditEntries()
		if err = ordersRepo.Update(ctx, o); err != nil {
			return CollectedCOD{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return CollectedCOD{}, err
	}

	for _, o := range changed {
		publishCommitted(ctx, h.publisher, h.logger, o, pending[o])
	}

	return CollectedCOD{Orders: len(changed), Total: total}, nil
}
