// Package http exposes the dispatch use cases over a JSON API served by echo.
// Every /api/v1 request carries a bearer token naming the acting role and id;
// requests are checked against the embedded OpenAPI document before they
// reach a handler.
package http

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/order"
)

// Use case ports, satisfied by the command and query handlers.
type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	ChangeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) error
	}
	AssignCourierHandler interface {
		Handle(ctx context.Context, cmd commands.AssignCourierCommand) error
	}
	AttachProofHandler interface {
		Handle(ctx context.Context, cmd commands.AttachProofCommand) error
	}
	SettleOrderHandler interface {
		Handle(ctx context.Context, cmd commands.SettleOrderCommand) error
	}
	CreateCourierHandler interface {
		Handle(ctx context.Context, cmd commands.CreateCourierCommand) error
	}
	UpdateCourierAvailabilityHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCourierAvailabilityCommand) error
	}
	UpdateCourierLocationHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCourierLocationCommand) error
	}
	CollectCourierCODHandler interface {
		Handle(ctx context.Context, cmd commands.CollectCourierCODCommand) (commands.CollectedCOD, error)
	}
	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.ListOrdersQueryResponse, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	GetAllCouriersHandler interface {
		Handle(ctx context.Context, query queries.GetAllCouriersQuery) ([]queries.GetAllCouriersQueryResponse, error)
	}
	GetCourierBalanceHandler interface {
		Handle(ctx context.Context, query queries.GetCourierBalanceQuery) (queries.GetCourierBalanceQueryResponse, error)
	}
	GetDeliveryQuoteHandler interface {
		Handle(ctx context.Context, query queries.GetDeliveryQuoteQuery) (order.Fee, error)
	}
)

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	// Command handlers
	CreateOrder               CreateOrderHandler
	ChangeOrderStatus         ChangeOrderStatusHandler
	AssignCourier             AssignCourierHandler
	AttachProof               AttachProofHandler
	SettleOrder               SettleOrderHandler
	CreateCourier             CreateCourierHandler
	UpdateCourierAvailability UpdateCourierAvailabilityHandler
	UpdateCourierLocation     UpdateCourierLocationHandler
	CollectCourierCOD         CollectCourierCODHandler

	// Query handlers
	ListOrders        ListOrdersHandler
	GetOrder          GetOrderHandler
	GetAllCouriers    GetAllCouriersHandler
	GetCourierBalance GetCourierBalanceHandler
	GetDeliveryQuote  GetDeliveryQuoteHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	now      func() time.Time
	logger   *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.With("component", "http"),
	}
}
