package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOnlineCourier(t *testing.T, name string, lat, lng float64) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name, "+62800000")
	require.NoError(t, err)
	require.NoError(t, c.UpdateLocation(mustLocation(t, lat, lng), testNow))
	return c
}

func TestOrderDispatcher_Dispatch(t *testing.T) {
	system := kernel.SystemActor("dispatch-job")
	pickup := mustLocation(t, -6.1754, 106.8272)

	t.Run("should offer order to nearest courier", func(t *testing.T) {
		o := newTestOrder(t, pickup, 0, 0)
		far := newOnlineCourier(t, "Far", -6.30, 106.90)
		near := newOnlineCourier(t, "Near", -6.18, 106.83)
		mid := newOnlineCourier(t, "Mid", -6.22, 106.80)

		dispatcher := services.NewOrderDispatcher()
		result, err := dispatcher.Dispatch(system, o, []*courier.Courier{far, near, mid}, testNow)

		require.NoError(t, err)
		assert.True(t, result.IsEqual(near), "should return courier closest to pickup")
		assert.Equal(t, order.Offered, o.Status())
		assert.True(t, o.IsAssignedTo(near.ID()))

		log := o.AuditLog()
		require.Len(t, log, 2)
		assert.Equal(t, order.EventCourierAssigned, log[0].Kind())
		assert.Equal(t, order.EventStatusChanged, log[1].Kind())
		assert.Equal(t, kernel.RoleSystem, log[1].ActorRole())
	})

	t.Run("should skip couriers that cannot be dispatched", func(t *testing.T) {
		o := newTestOrder(t, pickup, 0, 0)

		inactive := newOnlineCourier(t, "Inactive", -6.1754, 106.8272)
		inactive.Deactivate()
		offline := newOnlineCourier(t, "Offline", -6.1755, 106.8272)
		offline.GoOffline()
		unknown, err := courier.NewCourier(kernel.NewUUID(), "NoGPS", "+62")
		require.NoError(t, err)
		unknown.GoOnline(testNow)
		available := newOnlineCourier(t, "Available", -6.40, 106.95)

		result, err := services.NewOrderDispatcher().Dispatch(
			system, o, []*courier.Courier{inactive, offline, unknown, available}, testNow)

		require.NoError(t, err)
		assert.True(t, result.IsEqual(available))
	})

	t.Run("should return ErrCourierNotFound with no candidates", func(t *testing.T) {
		o := newTestOrder(t, pickup, 0, 0)

		result, err := services.NewOrderDispatcher().Dispatch(system, o, nil, testNow)

		assert.ErrorIs(t, err, services.ErrCourierNotFound)
		assert.Nil(t, result)
		assert.Equal(t, order.Created, o.Status())
		assert.Empty(t, o.AuditLog())
	})

	t.Run("should refuse orders past CREATED", func(t *testing.T) {
		o := newTestOrder(t, pickup, 0, 0)
		require.NoError(t, o.ChangeStatus(system, order.Cancelled, testNow))

		_, err := services.NewOrderDispatcher().Dispatch(
			system, o, []*courier.Courier{newOnlineCourier(t, "A", -6.2, 106.8)}, testNow)

		assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("should fail on unconstructed couriers", func(t *testing.T) {
		o := newTestOrder(t, pickup, 0, 0)

		_, err := services.NewOrderDispatcher().Dispatch(system, o, []*courier.Courier{{}}, testNow)

		assert.ErrorIs(t, err, courier.ErrCourierIsNotConstructed)
	})

	t.Run("should fail on unconstructed order", func(t *testing.T) {
		_, err := services.NewOrderDispatcher().Dispatch(system, &order.Order{}, nil, testNow)

		assert.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})
}
