// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases and run
// outside of any unit of work.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetAllCouriersQueryIsNotConstructed = errors.New(
		"GetAllCouriersQuery must be created via NewGetAllCouriersQuery constructor",
	)
)

// GetAllCouriersQuery retrieves every courier with its presence state.
//
// Example:
//
//	query := NewGetAllCouriersQuery()
//	handler := NewGetAllCouriersQueryHandler(db)
//
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve couriers: %w", err)
//	}
//
//	for _, c := range couriers {
//	    fmt.Printf("%s online=%t\n", c.Name, c.Online)
//	}
type GetAllCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllCouriersQuery creates a query to retrieve all couriers.
func NewGetAllCouriersQuery() GetAllCouriersQuery {
	return GetAllCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAllCouriersQueryIsNotConstructed if validation fails.
func (q GetAllCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllCouriersQueryIsNotConstructed)
}

// GetAllCouriersQueryResponse is the courier read model. Location and
// LastSeenAt are nil until the courier reports a position.
type GetAllCouriersQueryResponse struct {
	ID         kernel.UUID
	Name       string
	Contact    string
	Active     bool
	Online     bool
	Location   *kernel.Location
	LastSeenAt *time.Time
}
