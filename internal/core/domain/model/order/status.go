package order

import (
	"fmt"
	"slices"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status is the delivery state of an order. The set is closed: every value an
// Order holds is one of the constants below.
//
// Forward chain:
//
//	CREATED ──> OFFERED ──> ACCEPTED ──> EN_ROUTE_TO_PICKUP ──> PICKED_UP
//	    ──> EN_ROUTE_TO_DROPOFF ──> AWAITING_PROOF ──> DELIVERED
//
// REJECTED and CANCELLED are terminal alternates reachable from any
// non-terminal status. DELIVERED, REJECTED and CANCELLED are terminal.
type Status string

const (
	Unknown          Status = ""
	Created          Status = "CREATED"
	Offered          Status = "OFFERED"
	Accepted         Status = "ACCEPTED"
	EnRouteToPickup  Status = "EN_ROUTE_TO_PICKUP"
	PickedUp         Status = "PICKED_UP"
	EnRouteToDropoff Status = "EN_ROUTE_TO_DROPOFF"
	AwaitingProof    Status = "AWAITING_PROOF"
	Delivered        Status = "DELIVERED"
	Rejected         Status = "REJECTED"
	Cancelled        Status = "CANCELLED"
)

// forwardChain lists the courier-facing progression in order.
var forwardChain = []Status{
	Created,
	Offered,
	Accepted,
	EnRouteToPickup,
	PickedUp,
	EnRouteToDropoff,
	AwaitingProof,
	Delivered,
}

// legacyStatuses maps status spellings found in older records onto the
// canonical set. Lookup is exact after trimming and upper-casing.
var legacyStatuses = map[string]Status{
	"PENDING":       Created,
	"NEW":           Created,
	"ASSIGNED":      Offered,
	"TAKEN":         Accepted,
	"ON_THE_WAY":    EnRouteToPickup,
	"PICKUP":        PickedUp,
	"DELIVERING":    EnRouteToDropoff,
	"ON_DELIVERY":   EnRouteToDropoff,
	"WAITING_PROOF": AwaitingProof,
	"DONE":          Delivered,
	"COMPLETED":     Delivered,
	"CANCELED":      Cancelled,
	"DECLINED":      Rejected,
}

// AllStatuses returns the canonical statuses, forward chain first.
func AllStatuses() []Status {
	all := make([]Status, 0, len(forwardChain)+2)
	all = append(all, forwardChain...)
	return append(all, Rejected, Cancelled)
}

// Spellings returns every stored form of s: its canonical name followed by
// the legacy aliases that map onto it, sorted. SQL filters use it so rows
// written by older releases still match.
func (s Status) Spellings() []string {
	spellings := []string{s.String()}
	aliases := make([]string, 0)
	for alias, canonical := range legacyStatuses {
		if canonical == s {
			aliases = append(aliases, alias)
		}
	}
	slices.Sort(aliases)
	return append(spellings, aliases...)
}

// ParseStatus converts a stored or requested status string into a Status.
// Canonical names and the legacy aliases are accepted; anything else is a
// data-integrity error.
func ParseStatus(s string) (Status, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	candidate := Status(key)
	if candidate.Validate() == nil {
		return candidate, nil
	}
	if canonical, ok := legacyStatuses[key]; ok {
		return canonical, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Validate reports whether s is a member of the canonical set.
func (s Status) Validate() error {
	for _, known := range AllStatuses() {
		if s == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
}

func (s Status) String() string {
	if s == Unknown {
		return "UNKNOWN"
	}
	return string(s)
}

// IsTerminal reports whether no further status transition is permitted.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Rejected || s == Cancelled
}

// Next returns the following status on the forward chain. The second result is
// false for terminal statuses and for statuses outside the chain.
func (s Status) Next() (Status, bool) {
	for i, st := range forwardChain {
		if st == s && i+1 < len(forwardChain) {
			return forwardChain[i+1], true
		}
	}
	return Unknown, false
}

// IsActive reports whether a courier holding the order is busy with it.
func (s Status) IsActive() bool {
	switch s {
	case Offered, Accepted, EnRouteToPickup, PickedUp, EnRouteToDropoff, AwaitingProof:
		return true
	default:
		return false
	}
}
