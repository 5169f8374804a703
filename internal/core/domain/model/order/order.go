package order

import (
	"errors"
	"slices"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root tracking one delivery: where it goes, who carries
// it, which status it is in and what money is still owed on it.
//
// Order follows these invariants:
//   - id, createdAt, sender, stops, tier and fee never change after creation
//   - status is always a member of the canonical Status set
//   - every status change appends exactly one STATUS_CHANGED audit entry
//   - cod.collected and cashAdvance.reimbursed only move from false to true
//   - the audit log is append-only
//
// Mutations happen only through methods; the repository persists them with a
// compare-and-swap on version.
type Order struct {
	id          kernel.UUID
	createdAt   time.Time
	sender      Sender
	pickup      Stop
	dropoff     Stop
	courierID   *kernel.UUID
	status      Status
	tier        ServiceTier
	fee         Fee
	cashAdvance CashAdvance
	cod         COD
	notes       string
	proofPhotos []string
	settled     bool
	auditLog    []AuditEntry

	// version is the stored revision this aggregate was read at.
	version int
	// persistedAudit is how many audit entries the store already holds.
	persistedAudit int

	isConstructed bool
}

// Draft carries everything needed to open a new order.
type Draft struct {
	Sender      Sender
	Pickup      Stop
	Dropoff     Stop
	Tier        ServiceTier
	Fee         Fee
	CashAdvance CashAdvance
	COD         COD
	Notes       string
}

// NewOrder creates an order in CREATED status with no courier and an empty
// audit log.
//
// Example:
//
//	fee, _ := pricing.Price(2.0, 3.0, false)
//	o, err := order.NewOrder(kernel.NewUUID(), time.Now(), order.Draft{
//	    Sender: sender, Pickup: pickup, Dropoff: dropoff,
//	    Tier: order.TierRegular, Fee: fee, COD: order.NewCOD(150000),
//	})
func NewOrder(id kernel.UUID, createdAt time.Time, draft Draft) (*Order, error) {
	o := &Order{
		status:        Created,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCreatedAt(createdAt),
		o.setParties(draft.Sender, draft.Pickup, draft.Dropoff),
		o.setTier(draft.Tier),
		o.setFee(draft.Fee),
		o.setMoney(draft.CashAdvance, draft.COD),
	); err != nil {
		return nil, err
	}

	o.notes = strings.TrimSpace(draft.Notes)
	return o, nil
}

// Snapshot is the flat, persisted shape of an order.
type Snapshot struct {
	ID          kernel.UUID
	CreatedAt   time.Time
	Sender      Sender
	Pickup      Stop
	Dropoff     Stop
	CourierID   *kernel.UUID
	Status      Status
	Tier        ServiceTier
	Fee         Fee
	CashAdvance CashAdvance
	COD         COD
	Notes       string
	ProofPhotos []string
	Settled     bool
	AuditLog    []AuditEntry
	Version     int
}

// RestoreOrder rebuilds an aggregate from storage. It validates the same
// invariants as NewOrder plus the stored status, so a corrupt row surfaces as
// an error rather than an order in an undefined state.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCreatedAt(s.CreatedAt),
		o.setParties(s.Sender, s.Pickup, s.Dropoff),
		o.setTier(s.Tier),
		o.setFee(s.Fee),
		o.setMoney(s.CashAdvance, s.COD),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if s.CourierID != nil {
		if err := s.CourierID.Validate(); err != nil {
			return nil, err
		}
		courierID := *s.CourierID
		o.courierID = &courierID
	}
	if s.Version < 1 {
		return nil, errs.NewValueIsOutOfRangeError("version", s.Version, 1, "max int")
	}

	o.status = s.Status
	o.notes = s.Notes
	o.proofPhotos = slices.Clone(s.ProofPhotos)
	o.settled = s.Settled
	o.auditLog = slices.Clone(s.AuditLog)
	o.version = s.Version
	o.persistedAudit = len(s.AuditLog)
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Snapshot returns a copy of the order's state for persistence and read models.
func (o *Order) Snapshot() Snapshot {
	var courierID *kernel.UUID
	if o.courierID != nil {
		id := *o.courierID
		courierID = &id
	}
	return Snapshot{
		ID:          o.id,
		CreatedAt:   o.createdAt,
		Sender:      o.sender,
		Pickup:      o.pickup,
		Dropoff:     o.dropoff,
		CourierID:   courierID,
		Status:      o.status,
		Tier:        o.tier,
		Fee:         o.fee,
		CashAdvance: o.cashAdvance,
		COD:         o.cod,
		Notes:       o.notes,
		ProofPhotos: slices.Clone(o.proofPhotos),
		Settled:     o.settled,
		AuditLog:    slices.Clone(o.auditLog),
		Version:     o.version,
	}
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID          { return o.id }
func (o *Order) CreatedAt() time.Time     { return o.createdAt }
func (o *Order) Sender() Sender           { return o.sender }
func (o *Order) Pickup() Stop             { return o.pickup }
func (o *Order) Dropoff() Stop            { return o.dropoff }
func (o *Order) Status() Status           { return o.status }
func (o *Order) Tier() ServiceTier        { return o.tier }
func (o *Order) Fee() Fee                 { return o.fee }
func (o *Order) CashAdvance() CashAdvance { return o.cashAdvance }
func (o *Order) COD() COD                 { return o.cod }
func (o *Order) Notes() string            { return o.notes }
func (o *Order) IsSettled() bool          { return o.settled }
func (o *Order) Version() int             { return o.version }

// Courier returns the assigned courier's ID, or nil when unassigned.
func (o *Order) Courier() *kernel.UUID {
	if o.courierID == nil {
		return nil
	}
	id := *o.courierID
	return &id
}

// IsAssignedTo reports whether courierID currently holds the order.
func (o *Order) IsAssignedTo(courierID kernel.UUID) bool {
	return o.courierID != nil && o.courierID.IsEqual(courierID)
}

// ProofPhotos returns the attached proof-of-delivery photo URLs.
func (o *Order) ProofPhotos() []string {
	return slices.Clone(o.proofPhotos)
}

// AuditLog returns the full history, oldest first.
func (o *Order) AuditLog() []AuditEntry {
	return slices.Clone(o.auditLog)
}

// UnpersistedAuditEntries returns the entries appended since the order was
// read or last saved.
func (o *Order) UnpersistedAuditEntries() []AuditEntry {
	return slices.Clone(o.auditLog[o.persistedAudit:])
}

// AuditSequenceStart is the position of the first unpersisted entry.
func (o *Order) AuditSequenceStart() int {
	return o.persistedAudit
}

// MarkPersisted records that the store now holds the order at version with all
// of its audit entries. Repositories call it after a successful write.
func (o *Order) MarkPersisted(version int) {
	o.version = version
	o.persistedAudit = len(o.auditLog)
}

func (o *Order) appendAudit(kind EventKind, actor kernel.Actor, at time.Time, metadata map[string]string) {
	o.auditLog = append(o.auditLog, newAuditEntry(kind, at, actor, metadata))
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt.UTC()
	return nil
}

func (o *Order) setParties(sender Sender, pickup, dropoff Stop) error {
	var errList []error
	if sender.name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("sender"))
	}
	if pickup.address == "" {
		errList = append(errList, errs.NewValueIsRequiredError("pickup"))
	}
	if dropoff.address == "" {
		errList = append(errList, errs.NewValueIsRequiredError("dropoff"))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}
	o.sender = sender
	o.pickup = pickup
	o.dropoff = dropoff
	return nil
}

func (o *Order) setTier(tier ServiceTier) error {
	parsed, err := ParseServiceTier(string(tier))
	if err != nil {
		return err
	}
	o.tier = parsed
	return nil
}

func (o *Order) setFee(fee Fee) error {
	if err := fee.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("fee", err)
	}
	o.fee = fee
	return nil
}

func (o *Order) setMoney(advance CashAdvance, cod COD) error {
	if err := errors.Join(advance.validate(), cod.validate()); err != nil {
		return err
	}
	o.cashAdvance = advance
	o.cod = cod
	return nil
}
