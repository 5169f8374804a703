package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{name: "jakarta", lat: -6.2088, lng: 106.8456},
		{name: "min bounds", lat: kernel.LatitudeMin, lng: kernel.LongitudeMin},
		{name: "max bounds", lat: kernel.LatitudeMax, lng: kernel.LongitudeMax},
		{name: "latitude too small", lat: -90.5, lng: 0, wantErr: true},
		{name: "latitude too large", lat: 91, lng: 0, wantErr: true},
		{name: "longitude too small", lat: 0, lng: -181, wantErr: true},
		{name: "longitude too large", lat: 0, lng: 180.1, wantErr: true},
		{name: "latitude NaN", lat: math.NaN(), lng: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tt.lat, tt.lng)

			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}

			require.NoError(t, err)
			require.NoError(t, loc.Validate())
			assert.InDelta(t, tt.lat, loc.Lat(), 1e-12)
			assert.InDelta(t, tt.lng, loc.Lng(), 1e-12)
		})
	}
}

func TestLocation_ZeroValueIsInvalid(t *testing.T) {
	var loc kernel.Location
	require.ErrorIs(t, loc.Validate(), kernel.ErrLocationIsNotConstructed)

	valid, _ := kernel.NewLocation(1, 1)
	_, err := valid.HaversineMeters(loc)
	require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
}

func TestLocation_HaversineMeters(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		a, _ := kernel.NewLocation(-6.2, 106.8)

		d, err := a.HaversineMeters(a)

		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-9)
	})

	t.Run("one degree of longitude on the equator", func(t *testing.T) {
		a, _ := kernel.NewLocation(0, 0)
		b, _ := kernel.NewLocation(0, 1)

		d, err := a.HaversineMeters(b)

		require.NoError(t, err)
		assert.InDelta(t, kernel.EarthRadiusMeters*math.Pi/180, d, 1e-6)
	})

	t.Run("symmetric", func(t *testing.T) {
		monas, _ := kernel.NewLocation(-6.1754, 106.8272)
		blokM, _ := kernel.NewLocation(-6.2443, 106.7982)

		ab, err := monas.HaversineMeters(blokM)
		require.NoError(t, err)
		ba, err := blokM.HaversineMeters(monas)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-9)
		assert.InDelta(t, 8300, ab, 300)
	})
}
