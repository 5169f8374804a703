// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Orders live in the orders table; their audit trail lives in order_audit_entries,
// keyed by order and position so entries are only ever appended.
package orderrepo

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored as its canonical name; rows written by older releases may
// still carry a legacy alias, which toDomain folds into the canonical set.
type OrderDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time      `gorm:"not null;index"`
	Sender      SenderDTO      `gorm:"embedded;embeddedPrefix:sender_"`
	Pickup      StopDTO        `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff     StopDTO        `gorm:"embedded;embeddedPrefix:dropoff_"`
	CourierID   *uuid.UUID     `gorm:"type:uuid;index"`
	Status      string         `gorm:"type:varchar(32);not null;index"`
	Tier        string         `gorm:"type:varchar(16);not null"`
	Fee         FeeDTO         `gorm:"embedded;embeddedPrefix:fee_"`
	CashAdvance CashAdvanceDTO `gorm:"embedded;embeddedPrefix:cash_advance_"`
	COD         CODDTO         `gorm:"embedded;embeddedPrefix:cod_"`
	Notes       string         `gorm:"type:text"`
	ProofPhotos []string       `gorm:"serializer:json;type:jsonb"`
	Settled     bool           `gorm:"not null;default:false"`
	Version     int            `gorm:"not null"`

	AuditEntries []AuditEntryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

type SenderDTO struct {
	Name    string `gorm:"type:varchar(255);not null"`
	Contact string `gorm:"type:varchar(64);not null"`
}

type StopDTO struct {
	Address string  `gorm:"type:text;not null"`
	MapLink string  `gorm:"type:text"`
	Lat     float64 `gorm:"type:double precision"`
	Lng     float64 `gorm:"type:double precision"`
}

type FeeDTO struct {
	D1               int64   `gorm:"type:bigint"`
	D2               int64   `gorm:"type:bigint"`
	Express          int64   `gorm:"type:bigint"`
	Total            int64   `gorm:"type:bigint"`
	D1Km             float64 `gorm:"type:double precision"`
	D2Km             float64 `gorm:"type:double precision"`
	EstimatedMinutes int
	Estimated        bool
}

type CashAdvanceDTO struct {
	Amount     int64 `gorm:"type:bigint"`
	Reimbursed bool
}

type CODDTO struct {
	IsCOD     bool
	Amount    int64 `gorm:"type:bigint"`
	Collected bool
}

// AuditEntryDTO is one row of an order's audit trail. Seq is the entry's
// position in the log, so (order_id, seq) doubles as an append-only guard.
type AuditEntryDTO struct {
	OrderID   uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Seq       int               `gorm:"primaryKey;autoIncrement:false"`
	Kind      string            `gorm:"type:varchar(40);not null"`
	At        time.Time         `gorm:"not null"`
	ActorRole string            `gorm:"type:varchar(16);not null"`
	ActorID   string            `gorm:"type:varchar(64);not null"`
	Metadata  map[string]string `gorm:"serializer:json;type:jsonb"`
}

// TableName specifies the database table name for audit entries.
func (AuditEntryDTO) TableName() string {
	return "order_audit_entries"
}

// fromDomain converts an order aggregate to its row. Audit entries are not
// included; the repository writes only the unpersisted ones.
func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	var courierID *uuid.UUID
	if s.CourierID != nil {
		raw := s.CourierID.Bytes()
		courierID = &raw
	}

	photos := s.ProofPhotos
	if photos == nil {
		photos = []string{}
	}

	return OrderDTO{
		ID:        s.ID.Bytes(),
		CreatedAt: s.CreatedAt,
		Sender:    SenderDTO{Name: s.Sender.Name(), Contact: s.Sender.Contact()},
		Pickup:    stopFromDomain(s.Pickup),
		Dropoff:   stopFromDomain(s.Dropoff),
		CourierID: courierID,
		Status:    s.Status.String(),
		Tier:      s.Tier.String(),
		Fee: FeeDTO{
			D1:               s.Fee.D1Fee(),
			D2:               s.Fee.D2Fee(),
			Express:          s.Fee.ExpressFee(),
			Total:            s.Fee.Total(),
			D1Km:             s.Fee.D1Km(),
			D2Km:             s.Fee.D2Km(),
			EstimatedMinutes: s.Fee.EstimatedMinutes(),
			Estimated:        s.Fee.IsEstimate(),
		},
		CashAdvance: CashAdvanceDTO{Amount: s.CashAdvance.Amount(), Reimbursed: s.CashAdvance.IsReimbursed()},
		COD:         CODDTO{IsCOD: s.COD.IsCOD(), Amount: s.COD.Amount(), Collected: s.COD.IsCollected()},
		Notes:       s.Notes,
		ProofPhotos: photos,
		Settled:     s.Settled,
		Version:     s.Version,
	}
}

func stopFromDomain(s order.Stop) StopDTO {
	return StopDTO{
		Address: s.Address(),
		MapLink: s.MapLink(),
		Lat:     s.Location().Lat(),
		Lng:     s.Location().Lng(),
	}
}

func auditFromDomain(orderID uuid.UUID, start int, entries []order.AuditEntry) []AuditEntryDTO {
	dtos := make([]AuditEntryDTO, 0, len(entries))
	for i, e := range entries {
		dtos = append(dtos, AuditEntryDTO{
			OrderID:   orderID,
			Seq:       start + i,
			Kind:      string(e.Kind()),
			At:        e.Timestamp(),
			ActorRole: e.ActorRole().String(),
			ActorID:   e.ActorID(),
			Metadata:  e.Metadata(),
		})
	}
	return dtos
}

// toDomain restores the aggregate from its row. A row that fails to decode is
// reported as corrupt data.
func toDomain(dto OrderDTO) (*order.Order, error) {
	restored, err := decode(dto)
	if err != nil {
		return nil, errs.NewCorruptDataError("order", dto.ID, err)
	}
	return restored, nil
}

func decode(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	sender, senderErr := order.NewSender(dto.Sender.Name, dto.Sender.Contact)
	pickup, pickupErr := stopToDomain(dto.Pickup)
	dropoff, dropoffErr := stopToDomain(dto.Dropoff)
	fee, feeErr := order.NewFee(
		dto.Fee.D1, dto.Fee.D2, dto.Fee.Express,
		dto.Fee.D1Km, dto.Fee.D2Km,
		dto.Fee.EstimatedMinutes, dto.Fee.Estimated,
	)
	advance, advanceErr := order.RestoreCashAdvance(dto.CashAdvance.Amount, dto.CashAdvance.Reimbursed)
	cod, codErr := order.RestoreCOD(dto.COD.IsCOD, dto.COD.Amount, dto.COD.Collected)
	if err = errors.Join(senderErr, pickupErr, dropoffErr, feeErr, advanceErr, codErr); err != nil {
		return nil, err
	}

	audit := make([]order.AuditEntry, 0, len(dto.AuditEntries))
	for _, e := range dto.AuditEntries {
		role, roleErr := kernel.ParseRole(e.ActorRole)
		if roleErr != nil {
			return nil, roleErr
		}
		audit = append(audit, order.RestoreAuditEntry(order.EventKind(e.Kind), e.At, role, e.ActorID, e.Metadata))
	}

	return order.RestoreOrder(order.Snapshot{
		ID:          id,
		CreatedAt:   dto.CreatedAt,
		Sender:      sender,
		Pickup:      pickup,
		Dropoff:     dropoff,
		CourierID:   courierID,
		Status:      status,
		Tier:        order.ServiceTier(dto.Tier),
		Fee:         fee,
		CashAdvance: advance,
		COD:         cod,
		Notes:       dto.Notes,
		ProofPhotos: dto.ProofPhotos,
		Settled:     dto.Settled,
		AuditLog:    audit,
		Version:     dto.Version,
	})
}

func stopToDomain(dto StopDTO) (order.Stop, error) {
	location, err := kernel.NewLocation(dto.Lat, dto.Lng)
	if err != nil {
		return order.Stop{}, err
	}
	return order.NewStop(dto.Address, dto.MapLink, location)
}
