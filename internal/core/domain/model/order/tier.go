package order

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// ServiceTier is fixed at creation; it drives the express surcharge and the
// priority shown on the board.
type ServiceTier string

const (
	TierRegular ServiceTier = "REGULAR"
	TierExpress ServiceTier = "EXPRESS"
	TierSameDay ServiceTier = "SAME_DAY"
)

func ParseServiceTier(s string) (ServiceTier, error) {
	switch t := ServiceTier(strings.ToUpper(strings.TrimSpace(s))); t {
	case TierRegular, TierExpress, TierSameDay:
		return t, nil
	case "":
		return TierRegular, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("service tier", fmt.Errorf("%q is not a known tier", s))
	}
}

func (t ServiceTier) String() string {
	return string(t)
}

func (t ServiceTier) IsExpress() bool {
	return t == TierExpress
}

// Priority orders the board: lower sorts first.
func (t ServiceTier) Priority() int {
	switch t {
	case TierExpress:
		return 0
	case TierSameDay:
		return 1
	default:
		return 2
	}
}
