package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrDistanceProviderUnavailable is returned by a road-distance source that
// could not answer: network failure, timeout, bad status or an empty route.
// The fallback provider absorbs it; it never reaches API callers.
var ErrDistanceProviderUnavailable = errors.New("distance provider unavailable")

// Route is the measured path between two points.
type Route struct {
	Meters  float64
	Seconds float64
	// Estimated is set when the figures come from the straight-line fallback.
	Estimated bool
}

// Kilometers returns the route length in kilometers.
func (r Route) Kilometers() float64 {
	return r.Meters / 1000
}

// DistanceProvider measures the travel distance between two coordinates.
type DistanceProvider interface {
	Distance(ctx context.Context, from, to kernel.Location) (Route, error)
}
