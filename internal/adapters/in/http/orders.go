package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ListOrders handles GET /api/v1/orders, optionally filtered by ?status=.
func (s *Server) ListOrders(ctx echo.Context) error {
	var status string
	if err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &status); err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewListOrdersQuery(status)
	if err != nil {
		return s.writeError(ctx, err)
	}

	orders, err := s.handlers.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]OrderSummary, len(orders))
	for i, o := range orders {
		response[i] = orderSummaryFromQuery(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	var req NewOrder
	if err = bindBody(ctx, &req); err != nil {
		return s.writeError(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, actor, commands.OrderRequest{
		SenderName:    req.SenderName,
		SenderContact: req.SenderContact,
		Pickup:        commands.StopInput(req.Pickup),
		Dropoff:       commands.StopInput(req.Dropoff),
		Tier:          req.Tier,
		CashAdvance:   req.CashAdvance,
		COD:           req.COD,
		Notes:         req.Notes,
	})
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: orderID.Bytes()})
}

// GetOrder handles GET /api/v1/orders/{orderId}. Couriers only see orders
// assigned to them.
func (s *Server) GetOrder(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return s.writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	detail, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if actor.IsCourier() && (detail.CourierID == nil || !actor.IsCourierWithID(*detail.CourierID)) {
		return s.writeError(ctx, errForbidden)
	}

	return ctx.JSON(http.StatusOK, orderDetailFromQuery(detail))
}

// ChangeOrderStatus handles POST /api/v1/orders/{orderId}/transitions.
// Which roles may request which move is decided by the state machine.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return s.writeError(ctx, err)
	}

	var req TransitionRequest
	if err = bindBody(ctx, &req); err != nil {
		return s.writeError(ctx, err)
	}
	target, err := order.ParseStatus(req.TargetStatus)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actor, target)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.handlers.ChangeOrderStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignCourier handles POST /api/v1/orders/{orderId}/assignment.
func (s *Server) AssignCourier(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return s.writeError(ctx, err)
	}

	var req AssignmentRequest
	if err = bindBody(ctx, &req); err != nil {
		return s.writeError(ctx, err)
	}
	courierID, err := kernel.UUIDFromBytes(req.CourierID[:])
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, courierID, actor)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.handlers.AssignCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AttachProof handles POST /api/v1/orders/{orderId}/proofs.
func (s *Server) AttachProof(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return s.writeError(ctx, err)
	}

	var req ProofRequest
	if err = bindBody(ctx, &req); err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewAttachProofCommand(orderID, actor, req.PhotoURL)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.handlers.AttachProof.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CollectOrderCOD handles POST /api/v1/orders/{orderId}/cod/collect.
func (s *Server) CollectOrderCOD(ctx echo.Context) error {
	return s.settle(ctx, commands.SettleCOD)
}

// ReimburseCashAdvance handles POST /api/v1/orders/{orderId}/cash-advance/reimburse.
func (s *Server) ReimburseCashAdvance(ctx echo.Context) error {
	return s.settle(ctx, commands.SettleCashAdvance)
}

func (s *Server) settle(ctx echo.Context, entry commands.SettlementEntry) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewSettleOrderCommand(orderID, actor, entry)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.handlers.SettleOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
