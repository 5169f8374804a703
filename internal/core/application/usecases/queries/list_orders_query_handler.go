package queries

import (
	"context"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads the order board straight from the orders table.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns the board rows. Legacy status spellings are folded into the
// canonical set; a row with an unknown status fails the whole query.
func (h ListOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListOrdersQuery,
) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT
			id,
			created_at,
			status,
			tier,
			sender_name,
			pickup_address,
			dropoff_address,
			courier_id,
			fee_total,
			cod_is_cod,
			cod_amount,
			cod_collected,
			cash_advance_amount,
			cash_advance_reimbursed,
			settled
		FROM orders`)

	args := make([]any, 0, 1)
	if status, ok := query.Status(); ok {
		sb.WriteString(`
		WHERE status IN ?`)
		args = append(args, status.Spellings())
	}
	sb.WriteString(`
		ORDER BY CASE tier WHEN 'EXPRESS' THEN 0 WHEN 'SAME_DAY' THEN 1 ELSE 2 END,
			created_at,
			id
	`)

	rows, err := h.db.WithContext(ctx).Raw(sb.String(), args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]ListOrdersQueryResponse, 0)
	for rows.Next() {
		var resp ListOrdersQueryResponse
		var id uuid.UUID
		var courierID *uuid.UUID
		var status, tier string

		err = rows.Scan(
			&id,
			&resp.CreatedAt,
			&status,
			&tier,
			&resp.SenderName,
			&resp.PickupAddress,
			&resp.DropoffAddress,
			&courierID,
			&resp.Total,
			&resp.IsCOD,
			&resp.CODAmount,
			&resp.CODCollected,
			&resp.CashAdvance,
			&resp.Reimbursed,
			&resp.Settled,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.CourierID, err = optionalUUID(courierID); err != nil {
			return nil, err
		}
		if resp.Status, err = order.ParseStatus(status); err != nil {
			return nil, errs.NewCorruptDataError("order", resp.ID, err)
		}
		if resp.Tier, err = order.ParseServiceTier(tier); err != nil {
			return nil, errs.NewCorruptDataError("order", resp.ID, err)
		}
		resp.CreatedAt = resp.CreatedAt.In(time.UTC)

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
