package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// GetQuote handles POST /api/v1/quotes. An explicit tier wins over isExpress.
func (s *Server) GetQuote(ctx echo.Context) error {
	var req QuoteRequest
	if err := bindBody(ctx, &req); err != nil {
		return s.writeError(ctx, err)
	}

	pickup, err := kernel.NewLocation(req.Pickup.Lat, req.Pickup.Lng)
	if err != nil {
		return s.writeError(ctx, err)
	}
	dropoff, err := kernel.NewLocation(req.Dropoff.Lat, req.Dropoff.Lng)
	if err != nil {
		return s.writeError(ctx, err)
	}

	tier := req.Tier
	if tier == "" && req.IsExpress {
		tier = order.TierExpress.String()
	}

	query, err := queries.NewGetDeliveryQuoteQuery(pickup, dropoff, tier)
	if err != nil {
		return s.writeError(ctx, err)
	}

	fee, err := s.handlers.GetDeliveryQuote.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, quoteFromFee(fee))
}
