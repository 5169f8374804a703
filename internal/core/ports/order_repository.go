package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates. Audit
// entries are stored together with the order in the same transaction.
type OrderRepository interface {
	// Add persists a new order aggregate and any audit entries it carries.
	// Returns errs.ErrAlreadyExists when an order with the same id is stored.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes with a compare-and-swap on the version the
	// aggregate was read at, then appends its unpersisted audit entries.
	// Returns errs.ErrConcurrentModification when another writer got there first
	// and errs.ErrObjectNotFound when the order does not exist.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate, including its full audit log.
	// Returns errs.ErrObjectNotFound when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetFirstInCreatedStatus retrieves the next order waiting for dispatch:
	// express first, then same-day, then regular, oldest first within a tier.
	// Returns errs.ErrObjectNotFound when nothing is waiting.
	GetFirstInCreatedStatus(ctx context.Context) (*order.Order, error)

	// GetAllWithOutstandingCOD retrieves the courier's orders whose COD cash has
	// not been handed over yet.
	GetAllWithOutstandingCOD(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error)
}
