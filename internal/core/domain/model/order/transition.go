package order

import (
	"net/url"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Assignee is the view of a courier an order needs in order to accept an assignment.
type Assignee interface {
	ID() kernel.UUID
	IsActive() bool
}

// ChangeStatus moves the order to target on behalf of actor.
//
// Rules, checked in order:
//   - terminal orders and same-status requests are rejected with InvalidTransition
//   - couriers may advance exactly one step; declining an offer (OFFERED -> REJECTED)
//     is their only other move
//   - couriers may not reject once the offer is accepted
//   - the system may advance one step, reject or cancel
//   - admins may set any status
//   - accepting an offer requires an assigned courier (PreconditionFailed)
//   - couriers may only move orders assigned to them (InvalidTransition)
//   - any move into DELIVERED requires at least one proof photo, admin jumps
//     included (PreconditionFailed)
//
// A successful change appends exactly one STATUS_CHANGED entry. Reaching
// DELIVERED evaluates settlement.
func (o *Order) ChangeStatus(actor kernel.Actor, target Status, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}

	from := o.status
	if from.IsTerminal() {
		return errs.NewInvalidTransitionError(from.String(), target.String(), "order is in a terminal status")
	}
	if target == from {
		return errs.NewInvalidTransitionError(from.String(), target.String(), "order is already in this status")
	}
	if err := o.checkAuthority(actor, target); err != nil {
		return err
	}
	if from == Offered && target == Accepted && o.courierID == nil {
		return errs.NewPreconditionFailedError("a courier must be assigned before the offer is accepted")
	}
	if actor.IsCourier() && (o.courierID == nil || !actor.IsCourierWithID(*o.courierID)) {
		return errs.NewInvalidTransitionError(from.String(), target.String(), "order is not assigned to this courier")
	}
	if target == Delivered && len(o.proofPhotos) == 0 {
		return errs.NewPreconditionFailedError("a proof-of-delivery photo is required")
	}

	o.status = target
	o.appendAudit(EventStatusChanged, actor, at, map[string]string{
		MetaFrom: from.String(),
		MetaTo:   target.String(),
	})
	if target == Delivered {
		o.evaluateSettlement()
	}
	return nil
}

func (o *Order) checkAuthority(actor kernel.Actor, target Status) error {
	next, hasNext := o.status.Next()

	switch actor.Role() {
	case kernel.RoleAdmin:
		return nil
	case kernel.RoleCourier:
		if hasNext && target == next {
			return nil
		}
		if o.status == Offered && target == Rejected {
			return nil
		}
		return errs.NewInvalidTransitionError(o.status.String(), target.String(), "couriers advance exactly one step")
	case kernel.RoleSystem:
		if (hasNext && target == next) || target == Rejected || target == Cancelled {
			return nil
		}
		return errs.NewInvalidTransitionError(o.status.String(), target.String(), "system may advance one step, reject or cancel")
	default:
		return errs.NewInvalidTransitionError(o.status.String(), target.String(), "unknown actor role")
	}
}

// AssignCourier points the order at courier. Only admins and the system may
// assign, the order must not be terminal and the courier must be active.
// Assigning the courier that already holds the order changes nothing.
// Status is left alone; offering is a separate transition.
func (o *Order) AssignCourier(actor kernel.Actor, courier Assignee, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if courier == nil {
		return errs.NewValueIsRequiredError("courier")
	}
	courierID := courier.ID()
	if err := courierID.Validate(); err != nil {
		return err
	}
	if actor.IsCourier() {
		return errs.NewInvalidTransitionError(o.status.String(), o.status.String(), "couriers cannot assign orders")
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionError(o.status.String(), o.status.String(), "cannot assign a courier to a terminal order")
	}
	if !courier.IsActive() {
		return errs.NewPreconditionFailedError("courier " + courierID.String() + " is not active")
	}
	if o.IsAssignedTo(courierID) {
		return nil
	}

	previous := ""
	if o.courierID != nil {
		previous = o.courierID.String()
	}
	o.courierID = &courierID
	o.appendAudit(EventCourierAssigned, actor, at, map[string]string{
		MetaFrom:      previous,
		MetaCourierID: courierID.String(),
	})
	return nil
}

// AttachProof adds a proof-of-delivery photo. The assigned courier and admins
// may attach photos while the order is not terminal.
func (o *Order) AttachProof(actor kernel.Actor, photoURL string, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	photoURL = strings.TrimSpace(photoURL)
	if photoURL == "" {
		return errs.NewValueIsRequiredError("photoUrl")
	}
	if parsed, err := url.Parse(photoURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errs.NewValueIsInvalidError("photoUrl")
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionError(o.status.String(), o.status.String(), "cannot attach proof to a terminal order")
	}
	switch {
	case actor.IsAdmin():
	case actor.IsCourier() && o.courierID != nil && actor.IsCourierWithID(*o.courierID):
	default:
		return errs.NewInvalidTransitionError(o.status.String(), o.status.String(), "only the assigned courier or an admin may attach proof")
	}

	o.proofPhotos = append(o.proofPhotos, photoURL)
	o.appendAudit(EventProofAttached, actor, at, map[string]string{
		MetaPhotoURL: photoURL,
	})
	return nil
}
