package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Quoter prices a delivery between two points for a service tier.
type Quoter interface {
	Quote(ctx context.Context, pickup, dropoff kernel.Location, tier order.ServiceTier) (order.Fee, error)
}

// GetDeliveryQuoteQueryHandler runs the pricing engine for a quote. Distances
// come from the routing provider, or its great-circle fallback when the
// provider is down, in which case the fee is flagged as an estimate.
type GetDeliveryQuoteQueryHandler struct {
	quoter Quoter
}

func NewGetDeliveryQuoteQueryHandler(quoter Quoter) GetDeliveryQuoteQueryHandler {
	return GetDeliveryQuoteQueryHandler{quoter: quoter}
}

func (h GetDeliveryQuoteQueryHandler) Handle(ctx context.Context, query GetDeliveryQuoteQuery) (order.Fee, error) {
	if err := query.Validate(); err != nil {
		return order.Fee{}, err
	}

	return h.quoter.Quote(ctx, query.Pickup(), query.Dropoff(), query.Tier())
}
