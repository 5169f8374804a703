package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order row and its audit entries.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	resp, err := h.readOrder(db, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if resp.AuditLog, err = h.readAuditLog(db, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) readOrder(db *gorm.DB, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	row := db.Raw(`
		SELECT
			created_at,
			status,
			tier,
			sender_name,
			sender_contact,
			pickup_address, pickup_map_link, pickup_lat, pickup_lng,
			dropoff_address, dropoff_map_link, dropoff_lat, dropoff_lng,
			courier_id,
			fee_d1, fee_d2, fee_express, fee_total,
			fee_d1_km, fee_d2_km, fee_estimated_minutes, fee_estimated,
			cod_is_cod, cod_amount, cod_collected,
			cash_advance_amount, cash_advance_reimbursed,
			notes,
			proof_photos,
			settled,
			version
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	var (
		resp GetOrderQueryResponse
		raw  orderColumns
	)
	err := row.Scan(
		&resp.CreatedAt,
		&raw.status,
		&raw.tier,
		&resp.SenderName,
		&resp.SenderContact,
		&resp.Pickup.Address, &resp.Pickup.MapLink, &raw.pickupLat, &raw.pickupLng,
		&resp.Dropoff.Address, &resp.Dropoff.MapLink, &raw.dropoffLat, &raw.dropoffLng,
		&raw.courierID,
		&resp.Fee.D1Fee, &resp.Fee.D2Fee, &resp.Fee.ExpressFee, &resp.Fee.Total,
		&resp.Fee.D1Km, &resp.Fee.D2Km, &resp.Fee.EstimatedMinutes, &resp.Fee.Estimated,
		&resp.IsCOD, &resp.CODAmount, &resp.CODCollected,
		&resp.CashAdvance, &resp.Reimbursed,
		&resp.Notes,
		&raw.photos,
		&resp.Settled,
		&resp.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID)
		}
		return GetOrderQueryResponse{}, err
	}

	resp.ID = orderID
	resp.CreatedAt = resp.CreatedAt.In(time.UTC)
	if err = raw.decodeInto(&resp); err != nil {
		return GetOrderQueryResponse{}, errs.NewCorruptDataError("order", orderID, err)
	}

	return resp, nil
}

// orderColumns holds the stored values that need decoding into domain types.
type orderColumns struct {
	status, tier           string
	courierID              *uuid.UUID
	pickupLat, pickupLng   float64
	dropoffLat, dropoffLng float64
	photos                 []byte
}

func (c orderColumns) decodeInto(resp *GetOrderQueryResponse) error {
	var err error
	if resp.Status, err = order.ParseStatus(c.status); err != nil {
		return err
	}
	if resp.Tier, err = order.ParseServiceTier(c.tier); err != nil {
		return err
	}
	if resp.CourierID, err = optionalUUID(c.courierID); err != nil {
		return err
	}
	if resp.Pickup.Location, err = kernel.NewLocation(c.pickupLat, c.pickupLng); err != nil {
		return err
	}
	if resp.Dropoff.Location, err = kernel.NewLocation(c.dropoffLat, c.dropoffLng); err != nil {
		return err
	}

	resp.ProofPhotos = []string{}
	if len(c.photos) > 0 {
		return json.Unmarshal(c.photos, &resp.ProofPhotos)
	}
	return nil
}

func (h GetOrderQueryHandler) readAuditLog(db *gorm.DB, orderID kernel.UUID) ([]AuditEntryView, error) {
	rows, err := db.Raw(`
		SELECT seq, kind, at, actor_role, actor_id, metadata
		FROM order_audit_entries
		WHERE order_id = ?
		ORDER BY seq
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]AuditEntryView, 0)
	for rows.Next() {
		var entry AuditEntryView
		var kind, role string
		var metadata []byte

		if err = rows.Scan(&entry.Seq, &kind, &entry.At, &role, &entry.ActorID, &metadata); err != nil {
			return nil, err
		}

		entry.Kind = order.EventKind(kind)
		entry.At = entry.At.In(time.UTC)
		if entry.ActorRole, err = kernel.ParseRole(role); err != nil {
			return nil, errs.NewCorruptDataError("audit entry", entry.Seq, err)
		}
		entry.Metadata = map[string]string{}
		if len(metadata) > 0 {
			if err = json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, err
			}
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
