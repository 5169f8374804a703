// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories, the unit of work, the road-distance source and
// the event publisher.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	// Returns errs.ErrAlreadyExists when a courier with the same id is stored.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	// Returns errs.ErrObjectNotFound when the courier does not exist.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	// Returns errs.ErrObjectNotFound when the courier does not exist.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllFree retrieves couriers automatic dispatch may pick: active, online,
	// with a known position and not holding any order in an active status
	// (OFFERED through AWAITING_PROOF).
	//
	// Example:
	//   free, err := repo.GetAllFree(ctx)
	//   if err != nil {
	//       return fmt.Errorf("failed to get available couriers: %w", err)
	//   }
	GetAllFree(ctx context.Context) ([]*courier.Courier, error)

	// GetAllOnline retrieves every courier currently flagged online. The presence
	// job uses it to find couriers that stopped reporting.
	GetAllOnline(ctx context.Context) ([]*courier.Courier, error)
}
