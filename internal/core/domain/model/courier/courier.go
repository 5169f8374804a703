package courier

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrContactIsRequired is returned when attempting to create a courier without a contact number.
	ErrContactIsRequired = errs.NewValueIsRequiredError("contact")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	// ErrLocationUnknown is returned when a distance is asked of a courier that never reported a position.
	ErrLocationUnknown = errors.New("courier location is unknown")
)

// Courier is a rider who carries orders. It is an aggregate root holding the
// rider's identity and the two availability flags the dispatcher looks at.
//
// Key responsibilities:
//   - Managing courier identity (ID, name, contact)
//   - Tracking whether the operator allows new work (active)
//   - Tracking whether the rider is reachable right now (online)
//   - Remembering the last reported position for nearest-courier dispatch
//
// Business rules:
//   - Courier must have a valid UUID, non-empty name and non-empty contact
//   - New couriers start active and offline with no known position
//   - Reporting a position marks the courier online and refreshes lastSeenAt
//   - Deactivating a courier does not touch orders already assigned to it
//   - Flags carry no ordering guarantee against assignment: an order assigned
//     to a courier that goes offline a moment later stays assigned
//
// Example usage:
//
//	c, err := courier.NewCourier(kernel.NewUUID(), "Budi", "+628111111111")
//	if err != nil {
//	    // Handle construction error
//	}
//	_ = c.UpdateLocation(loc, time.Now())
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// contact is the phone number operators reach the courier on
	contact string
	// active is false when the operator suspended the courier
	active bool
	// online is true while the courier app keeps reporting in
	online bool
	// location is the last reported position, nil until the first report
	location *kernel.Location
	// lastSeenAt is when the courier last reported; zero until the first report
	lastSeenAt time.Time
	// guard ensures the courier was created through a constructor
	guard guard.ConstructorGuard
}

// NewCourier creates a new active, offline courier with no known location.
//
// Parameters:
//   - id: Unique identifier (must be a valid UUID)
//   - name: Human-readable name (non-empty after trimming)
//   - contact: Phone number or handle (non-empty after trimming)
//
// Returns:
//   - *Courier: Newly created courier
//   - error: Joined validation errors if any parameter is invalid
func NewCourier(id kernel.UUID, name, contact string) (*Courier, error) {
	courier := &Courier{
		active: true,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setContact(contact),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage.
// Unlike NewCourier it keeps the stored flags, position and last-seen time.
//
// Business Rules:
//   - Courier ID must be valid
//   - Name and contact cannot be empty
//   - Location, when present, must be a constructed kernel.Location
func RestoreCourier(
	id kernel.UUID,
	name string,
	contact string,
	active bool,
	online bool,
	location *kernel.Location,
	lastSeenAt time.Time,
) (*Courier, error) {
	courier := &Courier{
		active:     active,
		online:     online,
		lastSeenAt: lastSeenAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setContact(contact),
		courier.setLocation(location),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// IsEqual compares two couriers by identifier.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate checks if the Courier was properly constructed using NewCourier or RestoreCourier.
// The zero value of Courier is invalid and will fail this validation.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the unique identifier of the courier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the human-readable name of the courier.
func (c *Courier) Name() string {
	return c.name
}

// Contact returns the phone number operators use to reach the courier.
func (c *Courier) Contact() string {
	return c.contact
}

// IsActive reports whether the operator allows assigning new orders to the courier.
func (c *Courier) IsActive() bool {
	return c.active
}

// IsOnline reports whether the courier is currently reachable.
func (c *Courier) IsOnline() bool {
	return c.online
}

// Location returns a copy of the last reported position, or nil if the courier
// never reported one.
func (c *Courier) Location() *kernel.Location {
	if c.location == nil {
		return nil
	}
	location := *c.location
	return &location
}

// LastSeenAt returns when the courier last reported in.
func (c *Courier) LastSeenAt() time.Time {
	return c.lastSeenAt
}

// IsDispatchable reports whether automatic dispatch may pick the courier: it
// must be active, online and have a known position.
func (c *Courier) IsDispatchable() bool {
	return c.active && c.online && c.location != nil
}

// Activate allows new assignments again. Idempotent.
func (c *Courier) Activate() {
	c.active = true
}

// Deactivate stops new assignments. Orders the courier already holds are left
// alone; reassigning them is an operator decision.
func (c *Courier) Deactivate() {
	c.active = false
}

// GoOnline marks the courier reachable as of at.
func (c *Courier) GoOnline(at time.Time) {
	c.online = true
	c.lastSeenAt = at.UTC()
}

// GoOffline marks the courier unreachable. The last position is kept.
func (c *Courier) GoOffline() {
	c.online = false
}

// UpdateLocation records a position report. A report implies the courier is
// online, so it also refreshes the presence flag and lastSeenAt.
func (c *Courier) UpdateLocation(location kernel.Location, at time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("reportedAt")
	}

	c.location = &location
	c.GoOnline(at)
	return nil
}

// IsStale reports whether an online courier has not reported within ttl of now.
// Offline couriers are never stale.
func (c *Courier) IsStale(now time.Time, ttl time.Duration) bool {
	if !c.online {
		return false
	}
	return c.lastSeenAt.IsZero() || now.Sub(c.lastSeenAt) > ttl
}

// DistanceTo returns the great-circle distance in meters from the courier's last
// reported position to target.
//
// Returns:
//   - float64: Distance in meters
//   - error: ErrLocationUnknown if the courier has no position, or a validation
//     error for an invalid target
func (c *Courier) DistanceTo(target kernel.Location) (float64, error) {
	if c.location == nil {
		return 0, ErrLocationUnknown
	}
	return c.location.HaversineMeters(target)
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setContact(contact string) error {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return ErrContactIsRequired
	}
	c.contact = contact
	return nil
}

func (c *Courier) setLocation(location *kernel.Location) error {
	if location == nil {
		c.location = nil
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	restored := *location
	c.location = &restored
	return nil
}
