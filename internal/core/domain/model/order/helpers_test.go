package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type assignee struct {
	id     kernel.UUID
	active bool
}

func (a assignee) ID() kernel.UUID { return a.id }
func (a assignee) IsActive() bool  { return a.active }

func newDraft(t *testing.T, codAmount, advanceAmount int64) order.Draft {
	t.Helper()

	sender, err := order.NewSender("Toko Bu Sari", "+6281234567890")
	require.NoError(t, err)
	pickupLoc, err := kernel.NewLocation(-6.1754, 106.8272)
	require.NoError(t, err)
	dropoffLoc, err := kernel.NewLocation(-6.2443, 106.8005)
	require.NoError(t, err)
	pickup, err := order.NewStop("Jl. Medan Merdeka 1", "", pickupLoc)
	require.NoError(t, err)
	dropoff, err := order.NewStop("Jl. Panglima Polim 12", "https://maps.app.goo.gl/x", dropoffLoc)
	require.NoError(t, err)
	fee, err := order.NewFee(2000, 3000, 0, 2, 3, 10, false)
	require.NoError(t, err)
	cod, err := order.NewCOD(codAmount)
	require.NoError(t, err)
	advance, err := order.NewCashAdvance(advanceAmount)
	require.NoError(t, err)

	return order.Draft{
		Sender:      sender,
		Pickup:      pickup,
		Dropoff:     dropoff,
		Tier:        order.TierRegular,
		Fee:         fee,
		CashAdvance: advance,
		COD:         cod,
		Notes:       "  fragile  ",
	}
}

func newOrder(t *testing.T, codAmount, advanceAmount int64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), testNow, newDraft(t, codAmount, advanceAmount))
	require.NoError(t, err)
	return o
}

func adminActor(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.RoleAdmin, "admin-1")
	require.NoError(t, err)
	return a
}

func courierActor(t *testing.T, id kernel.UUID) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.RoleCourier, id.String())
	require.NoError(t, err)
	return a
}

// assignedOrder returns an order already offered to and held by courierID.
func assignedOrder(t *testing.T, courierID kernel.UUID, codAmount, advanceAmount int64) *order.Order {
	t.Helper()
	o := newOrder(t, codAmount, advanceAmount)
	system := kernel.SystemActor("test")
	require.NoError(t, o.AssignCourier(system, assignee{id: courierID, active: true}, testNow))
	require.NoError(t, o.ChangeStatus(system, order.Offered, testNow))
	return o
}

// advanceTo walks an assigned order forward as its courier until it reaches target.
func advanceTo(t *testing.T, o *order.Order, courier kernel.Actor, target order.Status) {
	t.Helper()
	for o.Status() != target {
		next, ok := o.Status().Next()
		require.True(t, ok, "no forward step from %s", o.Status())
		if next == order.Delivered && len(o.ProofPhotos()) == 0 {
			require.NoError(t, o.AttachProof(courier, "https://cdn.example.com/proof.jpg", testNow))
		}
		require.NoError(t, o.ChangeStatus(courier, next, testNow))
	}
}
