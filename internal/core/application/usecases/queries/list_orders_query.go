package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersQuery retrieves the order board: every order, or only those in
// one status. The board is sorted by tier priority, then oldest first.
//
// Example:
//
//	query, err := NewListOrdersQuery("awaiting_proof")
//	if err != nil {
//	    return err
//	}
//	orders, err := NewListOrdersQueryHandler(db).Handle(ctx, query)
type ListOrdersQuery struct {
	status *order.Status

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a board query. An empty status lists every
// order; anything else must parse as a status, legacy spellings included.
func NewListOrdersQuery(status string) (ListOrdersQuery, error) {
	query := ListOrdersQuery{guard: guard.NewConstructorGuard()}
	if status == "" {
		return query, nil
	}

	parsed, err := order.ParseStatus(status)
	if err != nil {
		return ListOrdersQuery{}, err
	}
	query.status = &parsed

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Status returns the filter and whether one is set.
func (q ListOrdersQuery) Status() (order.Status, bool) {
	if q.status == nil {
		return order.Unknown, false
	}
	return *q.status, true
}

// ListOrdersQueryResponse is one row of the order board.
type ListOrdersQueryResponse struct {
	ID             kernel.UUID
	CreatedAt      time.Time
	Status         order.Status
	Tier           order.ServiceTier
	SenderName     string
	PickupAddress  string
	DropoffAddress string
	CourierID      *kernel.UUID
	Total          int64
	IsCOD          bool
	CODAmount      int64
	CODCollected   bool
	CashAdvance    int64
	Reimbursed     bool
	Settled        bool
}
