package queries

import (
	"context"

	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetCourierBalanceQueryHandler sums the courier's open money in SQL. The
// result matches services.FinancialLedger.OutstandingBalance over the same
// orders; nothing is stored.
type GetCourierBalanceQueryHandler struct {
	db *gorm.DB
}

func NewGetCourierBalanceQueryHandler(db *gorm.DB) GetCourierBalanceQueryHandler {
	return GetCourierBalanceQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an unknown courier.
func (h GetCourierBalanceQueryHandler) Handle(
	ctx context.Context,
	query GetCourierBalanceQuery,
) (GetCourierBalanceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierBalanceQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	courierID := query.CourierID()

	var exists bool
	if err := db.Raw(
		`SELECT EXISTS (SELECT 1 FROM couriers WHERE id = ?)`, courierID.Bytes(),
	).Row().Scan(&exists); err != nil {
		return GetCourierBalanceQueryResponse{}, err
	}
	if !exists {
		return GetCourierBalanceQueryResponse{}, errs.NewObjectNotFoundError("courier", courierID)
	}

	resp := GetCourierBalanceQueryResponse{CourierID: courierID}
	err := db.Raw(`
		SELECT
			COALESCE(SUM(cod_amount) FILTER (WHERE cod_is_cod AND NOT cod_collected), 0),
			COALESCE(SUM(cash_advance_amount) FILTER (WHERE cash_advance_amount > 0 AND NOT cash_advance_reimbursed), 0),
			COUNT(*) FILTER (
				WHERE (cod_is_cod AND NOT cod_collected)
				   OR (cash_advance_amount > 0 AND NOT cash_advance_reimbursed)
			)
		FROM orders
		WHERE courier_id = ?
	`, courierID.Bytes()).Row().Scan(&resp.CODOutstanding, &resp.AdvanceOwed, &resp.OpenOrders)
	if err != nil {
		return GetCourierBalanceQueryResponse{}, err
	}

	return resp, nil
}
