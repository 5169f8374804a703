package courier_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// Test helper functions.
func createValidCourier(t *testing.T) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), "Budi Santoso", "+628111111111")
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func createValidLocation(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	location, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return location
}

func TestNewCourier(t *testing.T) {
	validID := kernel.NewUUID()

	t.Run("should create active offline courier", func(t *testing.T) {
		c, err := courier.NewCourier(validID, "  Budi ", "+628111111111")

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.True(t, c.ID().IsEqual(validID))
		assert.Equal(t, "Budi", c.Name())
		assert.Equal(t, "+628111111111", c.Contact())
		assert.True(t, c.IsActive())
		assert.False(t, c.IsOnline())
		assert.Nil(t, c.Location())
		assert.True(t, c.LastSeenAt().IsZero())
		assert.False(t, c.IsDispatchable())
	})

	t.Run("should return error for invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		c, err := courier.NewCourier(invalidID, "Budi", "+628111111111")

		require.Error(t, err)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should join name and contact errors", func(t *testing.T) {
		c, err := courier.NewCourier(validID, "   ", "")

		require.Error(t, err)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, courier.ErrNameIsRequired)
		assert.ErrorIs(t, err, courier.ErrContactIsRequired)
	})
}

func TestRestoreCourier(t *testing.T) {
	id := kernel.NewUUID()
	location := createValidLocation(t, -6.2, 106.8)

	t.Run("should keep stored state", func(t *testing.T) {
		c, err := courier.RestoreCourier(id, "Sari", "+62822", false, true, &location, testNow)

		require.NoError(t, err)
		assert.False(t, c.IsActive())
		assert.True(t, c.IsOnline())
		require.NotNil(t, c.Location())
		assert.True(t, c.Location().IsEqual(location))
		assert.Equal(t, testNow, c.LastSeenAt())
	})

	t.Run("should reject unconstructed location", func(t *testing.T) {
		var bad kernel.Location

		c, err := courier.RestoreCourier(id, "Sari", "+62822", true, true, &bad, testNow)

		require.Error(t, err)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
	})
}

func TestCourier_Validate(t *testing.T) {
	var zero courier.Courier
	assert.ErrorIs(t, zero.Validate(), courier.ErrCourierIsNotConstructed)

	var nilCourier *courier.Courier
	assert.ErrorIs(t, nilCourier.Validate(), courier.ErrCourierIsNotConstructed)

	assert.NoError(t, createValidCourier(t).Validate())
}

func TestCourier_Availability(t *testing.T) {
	t.Run("should toggle active flag", func(t *testing.T) {
		c := createValidCourier(t)

		c.Deactivate()
		assert.False(t, c.IsActive())
		c.Activate()
		c.Activate()
		assert.True(t, c.IsActive())
	})

	t.Run("should go online and offline keeping position", func(t *testing.T) {
		c := createValidCourier(t)
		require.NoError(t, c.UpdateLocation(createValidLocation(t, -6.2, 106.8), testNow))

		c.GoOffline()

		assert.False(t, c.IsOnline())
		assert.NotNil(t, c.Location())
		assert.False(t, c.IsDispatchable())

		c.GoOnline(testNow.Add(time.Minute))
		assert.True(t, c.IsDispatchable())
		assert.Equal(t, testNow.Add(time.Minute), c.LastSeenAt())
	})

	t.Run("should not be dispatchable while inactive", func(t *testing.T) {
		c := createValidCourier(t)
		require.NoError(t, c.UpdateLocation(createValidLocation(t, -6.2, 106.8), testNow))

		c.Deactivate()

		assert.True(t, c.IsOnline())
		assert.False(t, c.IsDispatchable())
	})
}

func TestCourier_UpdateLocation(t *testing.T) {
	t.Run("should record position and mark online", func(t *testing.T) {
		c := createValidCourier(t)
		location := createValidLocation(t, -6.1754, 106.8272)

		require.NoError(t, c.UpdateLocation(location, testNow))

		assert.True(t, c.IsOnline())
		assert.True(t, c.Location().IsEqual(location))
		assert.Equal(t, testNow, c.LastSeenAt())
	})

	t.Run("should reject invalid input", func(t *testing.T) {
		c := createValidCourier(t)

		var bad kernel.Location
		assert.Error(t, c.UpdateLocation(bad, testNow))
		assert.Error(t, c.UpdateLocation(createValidLocation(t, 0, 0), time.Time{}))
		assert.False(t, c.IsOnline())
		assert.Nil(t, c.Location())
	})

	t.Run("should hand out copies of the position", func(t *testing.T) {
		c := createValidCourier(t)
		require.NoError(t, c.UpdateLocation(createValidLocation(t, 1, 1), testNow))

		got := c.Location()
		*got = createValidLocation(t, 2, 2)

		assert.Equal(t, 1.0, c.Location().Lat())
	})
}

func TestCourier_IsStale(t *testing.T) {
	ttl := 5 * time.Minute

	tests := []struct {
		name     string
		setup    func(c *courier.Courier)
		now      time.Time
		expected bool
	}{
		{
			name:     "offline courier is never stale",
			setup:    func(c *courier.Courier) {},
			now:      testNow.Add(time.Hour),
			expected: false,
		},
		{
			name:     "recent report is fresh",
			setup:    func(c *courier.Courier) { c.GoOnline(testNow) },
			now:      testNow.Add(ttl),
			expected: false,
		},
		{
			name:     "old report is stale",
			setup:    func(c *courier.Courier) { c.GoOnline(testNow) },
			now:      testNow.Add(ttl + time.Second),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := createValidCourier(t)
			tt.setup(c)

			assert.Equal(t, tt.expected, c.IsStale(tt.now, ttl))
		})
	}
}

func TestCourier_DistanceTo(t *testing.T) {
	monas := createValidLocation(t, -6.1754, 106.8272)
	blokM := createValidLocation(t, -6.2443, 106.8005)

	t.Run("should fail without a position", func(t *testing.T) {
		c := createValidCourier(t)

		_, err := c.DistanceTo(monas)

		assert.ErrorIs(t, err, courier.ErrLocationUnknown)
	})

	t.Run("should use great-circle distance", func(t *testing.T) {
		c := createValidCourier(t)
		require.NoError(t, c.UpdateLocation(monas, testNow))

		meters, err := c.DistanceTo(blokM)

		require.NoError(t, err)
		assert.InDelta(t, 8300, meters, 300)
	})
}

func TestCourier_IsEqual(t *testing.T) {
	id := kernel.NewUUID()
	a, err := courier.NewCourier(id, "A", "1")
	require.NoError(t, err)
	b, err := courier.NewCourier(id, "B", "2")
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(nil))
	assert.False(t, a.IsEqual(createValidCourier(t)))
}
