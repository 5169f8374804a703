package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetDeliveryQuoteQueryIsNotConstructed = errors.New(
		"GetDeliveryQuoteQuery must be created via NewGetDeliveryQuoteQuery constructor",
	)
)

// GetDeliveryQuoteQuery prices a prospective delivery without booking it.
//
// Example:
//
//	pickup, _ := kernel.NewLocation(-6.1754, 106.8272)
//	dropoff, _ := kernel.NewLocation(-6.2607, 106.8137)
//	query, err := NewGetDeliveryQuoteQuery(pickup, dropoff, "EXPRESS")
//	if err != nil {
//	    return err
//	}
//	fee, err := NewGetDeliveryQuoteQueryHandler(pricing).Handle(ctx, query)
type GetDeliveryQuoteQuery struct {
	pickup  kernel.Location
	dropoff kernel.Location
	tier    order.ServiceTier

	guard guard.ConstructorGuard
}

// NewGetDeliveryQuoteQuery validates both points; an empty tier means REGULAR.
func NewGetDeliveryQuoteQuery(pickup, dropoff kernel.Location, tier string) (GetDeliveryQuoteQuery, error) {
	parsed, tierErr := order.ParseServiceTier(tier)
	if err := errors.Join(pickup.Validate(), dropoff.Validate(), tierErr); err != nil {
		return GetDeliveryQuoteQuery{}, err
	}

	return GetDeliveryQuoteQuery{
		pickup:  pickup,
		dropoff: dropoff,
		tier:    parsed,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryQuoteQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQuoteQueryIsNotConstructed)
}

func (q GetDeliveryQuoteQuery) Pickup() kernel.Location  { return q.pickup }
func (q GetDeliveryQuoteQuery) Dropoff() kernel.Location { return q.dropoff }
func (q GetDeliveryQuoteQuery) Tier() order.ServiceTier  { return q.tier }
