package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order with its full audit log.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// StopView is a pickup or dropoff in the order detail.
type StopView struct {
	Address  string
	MapLink  string
	Location kernel.Location
}

// FeeView is the priced breakdown stored with the order.
type FeeView struct {
	D1Fee            int64
	D2Fee            int64
	ExpressFee       int64
	Total            int64
	D1Km             float64
	D2Km             float64
	EstimatedMinutes int
	Estimated        bool
}

// AuditEntryView is one entry of the order history, oldest first.
type AuditEntryView struct {
	Seq       int
	Kind      order.EventKind
	At        time.Time
	ActorRole kernel.Role
	ActorID   string
	Metadata  map[string]string
}

// GetOrderQueryResponse is the order detail read model.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	CreatedAt     time.Time
	Status        order.Status
	Tier          order.ServiceTier
	SenderName    string
	SenderContact string
	Pickup        StopView
	Dropoff       StopView
	CourierID     *kernel.UUID
	Fee           FeeView
	IsCOD         bool
	CODAmount     int64
	CODCollected  bool
	CashAdvance   int64
	Reimbursed    bool
	Notes         string
	ProofPhotos   []string
	Settled       bool
	Version       int
	AuditLog      []AuditEntryView
}
