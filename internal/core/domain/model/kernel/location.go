package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0

	// EarthRadiusMeters is the mean Earth radius used by the great-circle distance.
	EarthRadiusMeters = 6371000.0
)

// ErrLocationIsNotConstructed is returned when a Location did not come from NewLocation.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is a WGS84 coordinate pair: a pickup, a dropoff, the depot or a courier's last known position.
type Location struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewLocation validates latitude and longitude ranges and returns the location.
func NewLocation(lat, lng float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLng(lng)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Lat() float64 {
	return l.lat
}

func (l Location) Lng() float64 {
	return l.lng
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.lat, l.lng)
}

func (l Location) IsEqual(other Location) bool {
	return l.lat == other.lat && l.lng == other.lng
}

// HaversineMeters returns the great-circle distance between the two points on a
// sphere of radius EarthRadiusMeters.
func (l Location) HaversineMeters(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(l.lat)
	lat2 := toRadians(other.lat)
	dLat := toRadians(other.lat - l.lat)
	dLng := toRadians(other.lng - l.lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c, nil
}

func (l *Location) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	l.lat = lat
	return nil
}

func (l *Location) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	l.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
