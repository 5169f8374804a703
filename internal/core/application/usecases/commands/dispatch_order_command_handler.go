package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"
)

var (
	ErrNoFreeCouriersFound = errors.New("no free couriers found")
	ErrNoOrderFound        = errors.New("no order found")
)

// DispatchOrderCommandHandler orchestrates automatic dispatch.
// It takes the next waiting order, picks the nearest free courier with
// OrderDispatcher and stores the assignment and the OFFERED status together.
//
// Example:
//
//	handler := NewDispatchOrderCommandHandler(uowFactory, publisher, logger)
//	err := handler.Handle(ctx, NewDispatchOrderCommand())
//	switch {
//	case errors.Is(err, ErrNoOrderFound):
//	    log.Println("No pending orders")
//	case errors.Is(err, ErrNoFreeCouriersFound):
//	    log.Println("All couriers are busy")
//	case err != nil:
//	    log.Printf("Dispatch failed: %v", err)
//	default:
//	    log.Println("Order offered")
//	}
type DispatchOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
}

func NewDispatchOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) DispatchOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle dispatches at most one order. Returns ErrNoOrderFound when nothing is
// waiting and ErrNoFreeCouriersFound when nobody can take it.
func (h DispatchOrderCommandHandler) Handle(ctx context.Context, command DispatchOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return retryOnConflict(ctx, h.logger, func() error {
		return h.dispatchOnce(ctx, command)
	})
}

func (h DispatchOrderCommandHandler) dispatchOnce(ctx context.Context, command DispatchOrderCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	ordersRepo := uow.OrderRepository()

	order, err := ordersRepo.GetFirstInCreatedStatus(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoOrderFound
	}
	if err != nil {
		return err
	}

	couriers, err := courierRepo.GetAllFree(ctx)
	if err != nil {
		return err
	}
	if len(couriers) == 0 {
		return ErrNoFreeCouriersFound
	}

	_, err = services.NewOrderDispatcher().Dispatch(command.Actor(), order, couriers, time.Now().UTC())
	if errors.Is(err, services.ErrCourierNotFound) {
		return ErrNoFreeCouriersFound
	}
	if err != nil {
		return err
	}

	entries := order.UnpersistedAuditEntries()
	if err = ordersRepo.Update(ctx, order); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.OrdersDispatchedTotal.Inc()
	publishCommitted(ctx, h.publisher, h.logger, order, entries)
	return nil
}
