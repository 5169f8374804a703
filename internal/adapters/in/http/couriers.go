package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// GetCouriers handles GET /api/v1/couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.handlers.GetAllCouriers.Handle(ctx.Request().Context(), queries.NewGetAllCouriersQuery())
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]Courier, len(couriers))
	for i, c := range couriers {
		response[i] = courierFromQuery(c)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateCourier handles POST /api/v1/couriers.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var req NewCourier
	if err := bindBody(ctx, &req); err != nil {
		return s.writeError(ctx, err)
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewCreateCourierCommand(courierID, req.Name, req.Contact)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.handlers.CreateCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: courierID.Bytes()})
}

// UpdateCourierAvailability handles PUT /api/v1/couriers/{courierId}/availability.
// A courier may go online or offline; only an admin may change active.
func (s *Server) UpdateCourierAvailability(ctx echo.Context) error {
	courierID, err := s.courierFromPath(ctx, kernel.RoleAdmin)
	if err != nil {
		return s.writeError(ctx, err)
	}
	actor, err := mustActor(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	var req AvailabilityRequest
	if err = bindBody(ctx, &req); err != nil {
		return s.writeError(ctx, err)
	}
	if actor.IsCourier() && req.Active != nil {
		return s.writeError(ctx, errForbidden)
	}

	cmd, err := commands.NewUpdateCourierAvailabilityCommand(courierID, actor, req.Active, req.Online)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.handlers.UpdateCourierAvailability.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateCourierLocation handles PUT /api/v1/couriers/{courierId}/location.
func (s *Server) UpdateCourierLocation(ctx echo.Context) error {
	courierID, err := s.courierFromPath(ctx, kernel.RoleAdmin, kernel.RoleSystem)
	if err != nil {
		return s.writeError(ctx, err)
	}

	var req Point
	if err = bindBody(ctx, &req); err != nil {
		return s.writeError(ctx, err)
	}
	location, err := kernel.NewLocation(req.Lat, req.Lng)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(courierID, location, s.now())
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.handlers.UpdateCourierLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetCourierBalance handles GET /api/v1/couriers/{courierId}/balance.
func (s *Server) GetCourierBalance(ctx echo.Context) error {
	courierID, err := s.courierFromPath(ctx, kernel.RoleAdmin)
	if err != nil {
		return s.writeError(ctx, err)
	}

	query, err := queries.NewGetCourierBalanceQuery(courierID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	balance, err := s.handlers.GetCourierBalance.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Balance{
		CourierID:      balance.CourierID.Bytes(),
		CODOutstanding: balance.CODOutstanding,
		AdvanceOwed:    balance.AdvanceOwed,
		OpenOrders:     balance.OpenOrders,
	})
}

// CollectCourierCOD handles POST /api/v1/couriers/{courierId}/cod/collect.
func (s *Server) CollectCourierCOD(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewCollectCourierCODCommand(courierID, actor)
	if err != nil {
		return s.writeError(ctx, err)
	}

	collected, err := s.handlers.CollectCourierCOD.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Collected{Orders: collected.Orders, Total: collected.Total})
}

// courierFromPath reads {courierId} and admits the courier itself or any of roles.
func (s *Server) courierFromPath(ctx echo.Context, roles ...kernel.Role) (kernel.UUID, error) {
	actor, err := mustActor(ctx)
	if err != nil {
		return kernel.UUID{}, err
	}
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = allowSelfOrRoles(actor, courierID, roles...); err != nil {
		return kernel.UUID{}, err
	}
	return courierID, nil
}
