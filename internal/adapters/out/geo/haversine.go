package geo

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// DefaultSecondsPerKm is the travel time assumed per kilometer, i.e. 30 km/h.
const DefaultSecondsPerKm = 120

var _ ports.DistanceProvider = HaversineProvider{}

// HaversineProvider answers with the great-circle distance. It never fails
// for valid locations and its results are always estimates.
type HaversineProvider struct {
	secondsPerKm float64
}

// NewHaversineProvider uses DefaultSecondsPerKm when secondsPerKm is not positive.
func NewHaversineProvider(secondsPerKm float64) HaversineProvider {
	if secondsPerKm <= 0 {
		secondsPerKm = DefaultSecondsPerKm
	}
	return HaversineProvider{secondsPerKm: secondsPerKm}
}

func (p HaversineProvider) Distance(_ context.Context, from, to kernel.Location) (ports.Route, error) {
	meters, err := from.HaversineMeters(to)
	if err != nil {
		return ports.Route{}, err
	}

	return ports.Route{
		Meters:    meters,
		Seconds:   meters / 1000 * p.secondsPerKm,
		Estimated: true,
	}, nil
}
