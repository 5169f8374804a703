package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrUpdateCourierAvailabilityCommandIsNotConstructed = errors.New(
		"UpdateCourierAvailabilityCommand must be created via NewUpdateCourierAvailabilityCommand constructor",
	)
	ErrUpdateCourierLocationCommandIsNotConstructed = errors.New(
		"UpdateCourierLocationCommand must be created via NewUpdateCourierLocationCommand constructor",
	)
)

// UpdateCourierAvailabilityCommand flips the active and/or online flags of a
// courier. A nil flag is left unchanged. Couriers may only toggle their own
// online flag; active belongs to operators.
type UpdateCourierAvailabilityCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	actor     kernel.Actor
	active    *bool
	online    *bool

	guard guard.ConstructorGuard
}

func NewUpdateCourierAvailabilityCommand(
	courierID kernel.UUID,
	actor kernel.Actor,
	active, online *bool,
) (UpdateCourierAvailabilityCommand, error) {
	if err := errors.Join(courierID.Validate(), actor.Validate()); err != nil {
		return UpdateCourierAvailabilityCommand{}, err
	}
	if active == nil && online == nil {
		return UpdateCourierAvailabilityCommand{}, errs.NewValueIsRequiredError("active or online")
	}
	if actor.IsCourier() {
		if !actor.IsCourierWithID(courierID) {
			return UpdateCourierAvailabilityCommand{}, errs.NewPreconditionFailedError(
				"couriers may only change their own availability")
		}
		if active != nil {
			return UpdateCourierAvailabilityCommand{}, errs.NewPreconditionFailedError(
				"only an operator may change the active flag")
		}
	}

	return UpdateCourierAvailabilityCommand{
		courierID: courierID,
		actor:     actor,
		active:    active,
		online:    online,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCourierAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierAvailabilityCommandIsNotConstructed)
}

func (c UpdateCourierAvailabilityCommand) CourierID() kernel.UUID { return c.courierID }
func (c UpdateCourierAvailabilityCommand) Actor() kernel.Actor    { return c.actor }
func (c UpdateCourierAvailabilityCommand) Active() *bool          { return c.active }
func (c UpdateCourierAvailabilityCommand) Online() *bool          { return c.online }

// UpdateCourierLocationCommand is a position report from the courier app.
type UpdateCourierLocationCommand struct { //nolint:recvcheck //using for validation
	courierID  kernel.UUID
	location   kernel.Location
	reportedAt time.Time

	guard guard.ConstructorGuard
}

func NewUpdateCourierLocationCommand(
	courierID kernel.UUID,
	location kernel.Location,
	reportedAt time.Time,
) (UpdateCourierLocationCommand, error) {
	var timeErr error
	if reportedAt.IsZero() {
		timeErr = errs.NewValueIsRequiredError("reportedAt")
	}
	if err := errors.Join(courierID.Validate(), location.Validate(), timeErr); err != nil {
		return UpdateCourierLocationCommand{}, err
	}

	return UpdateCourierLocationCommand{
		courierID:  courierID,
		location:   location,
		reportedAt: reportedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierLocationCommandIsNotConstructed)
}

func (c UpdateCourierLocationCommand) CourierID() kernel.UUID    { return c.courierID }
func (c UpdateCourierLocationCommand) Location() kernel.Location { return c.location }
func (c UpdateCourierLocationCommand) ReportedAt() time.Time     { return c.reportedAt }
