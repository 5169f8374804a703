package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetCourierBalanceQueryIsNotConstructed = errors.New(
		"GetCourierBalanceQuery must be created via NewGetCourierBalanceQuery constructor",
	)
)

// GetCourierBalanceQuery asks what a courier and the operator owe each other:
// COD cash not yet handed over and cash advances not yet repaid.
type GetCourierBalanceQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCourierBalanceQuery(courierID kernel.UUID) (GetCourierBalanceQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierBalanceQuery{}, err
	}
	return GetCourierBalanceQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierBalanceQueryIsNotConstructed)
}

func (q GetCourierBalanceQuery) CourierID() kernel.UUID {
	return q.courierID
}

// GetCourierBalanceQueryResponse mirrors services.Balance.
type GetCourierBalanceQueryResponse struct {
	CourierID      kernel.UUID
	CODOutstanding int64
	AdvanceOwed    int64
	OpenOrders     int
}
