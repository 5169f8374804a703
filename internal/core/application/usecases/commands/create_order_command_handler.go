package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
)

// CreateOrderCommandHandler books a new order. It prices the route first, then
// stores the order in CREATED with an empty audit log.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, pricingEngine)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now waiting for dispatch
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	quoter     Quoter
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, quoter Quoter) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		quoter:     quoter,
	}
}

// Handle prices and persists the order. Distance lookups happen before the
// transaction is opened so a slow routing service never holds a connection.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	fee, err := h.quoter.Quote(ctx, cmd.Pickup().Location(), cmd.Dropoff().Location(), cmd.Tier())
	if err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), time.Now().UTC(), order.Draft{
		Sender:      cmd.Sender(),
		Pickup:      cmd.Pickup(),
		Dropoff:     cmd.Dropoff(),
		Tier:        cmd.Tier(),
		Fee:         fee,
		CashAdvance: cmd.CashAdvance(),
		COD:         cmd.COD(),
		Notes:       cmd.Notes(),
	})
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
