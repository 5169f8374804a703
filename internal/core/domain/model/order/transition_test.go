package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_ChangeStatus_CourierRules(t *testing.T) {
	courierID := kernel.NewUUID()
	courier := courierActor(t, courierID)

	t.Run("should advance one step and record the move", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)

		err := o.ChangeStatus(courier, order.Accepted, testNow)

		require.NoError(t, err)
		assert.Equal(t, order.Accepted, o.Status())
		last := o.AuditLog()[len(o.AuditLog())-1]
		assert.Equal(t, order.EventStatusChanged, last.Kind())
		assert.Equal(t, "OFFERED", last.Meta(order.MetaFrom))
		assert.Equal(t, "ACCEPTED", last.Meta(order.MetaTo))
		assert.Equal(t, kernel.RoleCourier, last.ActorRole())
		assert.Equal(t, courierID.String(), last.ActorID())
	})

	t.Run("should reject skipping a step", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)
		auditBefore := len(o.AuditLog())

		err := o.ChangeStatus(courier, order.EnRouteToPickup, testNow)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Offered, o.Status())
		assert.Len(t, o.AuditLog(), auditBefore)
	})

	t.Run("should reject moving backward", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)
		advanceTo(t, o, courier, order.PickedUp)

		err := o.ChangeStatus(courier, order.Accepted, testNow)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.PickedUp, o.Status())
	})

	t.Run("should reject cancelling", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)
		advanceTo(t, o, courier, order.Accepted)

		err := o.ChangeStatus(courier, order.Cancelled, testNow)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should let courier decline an offer", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)

		require.NoError(t, o.ChangeStatus(courier, order.Rejected, testNow))
		assert.Equal(t, order.Rejected, o.Status())
	})

	t.Run("should not let courier reject an accepted order", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)
		advanceTo(t, o, courier, order.Accepted)

		err := o.ChangeStatus(courier, order.Rejected, testNow)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Accepted, o.Status())
	})

	t.Run("should reject courier not holding the order", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)
		stranger := courierActor(t, kernel.NewUUID())

		err := o.ChangeStatus(stranger, order.Accepted, testNow)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "not assigned to this courier")
	})

	t.Run("should walk the full chain", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)

		advanceTo(t, o, courier, order.Delivered)

		assert.Equal(t, order.Delivered, o.Status())
		assert.True(t, o.IsSettled())
	})
}

func TestOrder_ChangeStatus_Preconditions(t *testing.T) {
	system := kernel.SystemActor("test")

	t.Run("should require assignment before accepting an offer", func(t *testing.T) {
		o := newOrder(t, 0, 0)
		require.NoError(t, o.ChangeStatus(system, order.Offered, testNow))

		err := o.ChangeStatus(adminActor(t), order.Accepted, testNow)

		assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.Equal(t, order.Offered, o.Status())

		courierID := kernel.NewUUID()
		require.NoError(t, o.AssignCourier(system, assignee{id: courierID, active: true}, testNow))
		require.NoError(t, o.ChangeStatus(courierActor(t, courierID), order.Accepted, testNow))

		assert.Equal(t, order.Accepted, o.Status())
		last := o.AuditLog()[len(o.AuditLog())-1]
		assert.Equal(t, "ACCEPTED", last.Meta(order.MetaTo))
	})

	t.Run("should require proof before delivery", func(t *testing.T) {
		courierID := kernel.NewUUID()
		courier := courierActor(t, courierID)
		o := assignedOrder(t, courierID, 0, 0)
		advanceTo(t, o, courier, order.AwaitingProof)

		err := o.ChangeStatus(courier, order.Delivered, testNow)
		assert.ErrorIs(t, err, errs.ErrPreconditionFailed)

		err = o.ChangeStatus(adminActor(t), order.Delivered, testNow)
		assert.ErrorIs(t, err, errs.ErrPreconditionFailed)

		require.NoError(t, o.AttachProof(courier, "https://cdn.example.com/p/1.jpg", testNow))
		require.NoError(t, o.ChangeStatus(courier, order.Delivered, testNow))
		assert.Equal(t, []string{"https://cdn.example.com/p/1.jpg"}, o.ProofPhotos())
	})
}

func TestOrder_ChangeStatus_Admin(t *testing.T) {
	admin := adminActor(t)

	t.Run("should cancel a created COD order with exactly one entry", func(t *testing.T) {
		o := newOrder(t, 150000, 20000)

		require.NoError(t, o.ChangeStatus(admin, order.Cancelled, testNow))

		assert.Equal(t, order.Cancelled, o.Status())
		require.Len(t, o.AuditLog(), 1)
		assert.Equal(t, "CREATED", o.AuditLog()[0].Meta(order.MetaFrom))
		assert.Equal(t, "CANCELLED", o.AuditLog()[0].Meta(order.MetaTo))
		assert.False(t, o.COD().IsCollected())
		assert.False(t, o.CashAdvance().IsReimbursed())
		assert.False(t, o.IsSettled())
	})

	t.Run("should jump forward and backward", func(t *testing.T) {
		o := assignedOrder(t, kernel.NewUUID(), 0, 0)

		require.NoError(t, o.ChangeStatus(admin, order.EnRouteToDropoff, testNow))
		require.NoError(t, o.ChangeStatus(admin, order.Accepted, testNow))
		assert.Equal(t, order.Accepted, o.Status())
	})

	t.Run("should require proof when jumping straight to delivered", func(t *testing.T) {
		o := newOrder(t, 0, 0)

		err := o.ChangeStatus(admin, order.Delivered, testNow)

		assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.Equal(t, order.Created, o.Status())

		require.NoError(t, o.AttachProof(admin, "https://cdn.example.com/p/2.jpg", testNow))
		require.NoError(t, o.ChangeStatus(admin, order.Delivered, testNow))
		assert.True(t, o.IsSettled())
	})

	t.Run("should not leave a terminal status", func(t *testing.T) {
		o := newOrder(t, 0, 0)
		require.NoError(t, o.ChangeStatus(admin, order.Rejected, testNow))

		for _, target := range order.AllStatuses() {
			err := o.ChangeStatus(admin, target, testNow)
			assert.ErrorIs(t, err, errs.ErrInvalidTransition, target.String())
		}
		assert.Len(t, o.AuditLog(), 1)
	})

	t.Run("should reject the current status as target", func(t *testing.T) {
		o := newOrder(t, 0, 0)

		err := o.ChangeStatus(admin, order.Created, testNow)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Empty(t, o.AuditLog())
	})
}

func TestOrder_ChangeStatus_System(t *testing.T) {
	system := kernel.SystemActor("dispatch-job")

	tests := []struct {
		name    string
		target  order.Status
		wantErr error
	}{
		{"next step", order.Offered, nil},
		{"reject", order.Rejected, nil},
		{"cancel", order.Cancelled, nil},
		{"skip", order.Accepted, errs.ErrInvalidTransition},
		{"straight to delivered", order.Delivered, errs.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newOrder(t, 0, 0)

			err := o.ChangeStatus(system, tt.target, testNow)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, order.Created, o.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, o.Status())
		})
	}
}

func TestOrder_ChangeStatus_LastEntryMatchesStatus(t *testing.T) {
	courierID := kernel.NewUUID()
	courier := courierActor(t, courierID)
	o := assignedOrder(t, courierID, 0, 0)

	for o.Status() != order.Delivered {
		next, _ := o.Status().Next()
		if next == order.Delivered {
			require.NoError(t, o.AttachProof(courier, "https://cdn.example.com/p.jpg", testNow))
		}
		require.NoError(t, o.ChangeStatus(courier, next, testNow))

		log := o.AuditLog()
		last := log[len(log)-1]
		assert.Equal(t, order.EventStatusChanged, last.Kind())
		assert.Equal(t, o.Status().String(), last.Meta(order.MetaTo))
	}
}

func TestOrder_ChangeStatus_UnconstructedActor(t *testing.T) {
	o := newOrder(t, 0, 0)

	err := o.ChangeStatus(kernel.Actor{}, order.Offered, testNow)

	assert.ErrorIs(t, err, kernel.ErrActorIsNotConstructed)
	assert.Equal(t, order.Created, o.Status())
}

func TestOrder_AssignCourier(t *testing.T) {
	admin := adminActor(t)

	t.Run("should assign and record the courier", func(t *testing.T) {
		o := newOrder(t, 0, 0)
		courierID := kernel.NewUUID()

		require.NoError(t, o.AssignCourier(admin, assignee{id: courierID, active: true}, testNow))

		assert.True(t, o.IsAssignedTo(courierID))
		assert.Equal(t, order.Created, o.Status())
		require.Len(t, o.AuditLog(), 1)
		entry := o.AuditLog()[0]
		assert.Equal(t, order.EventCourierAssigned, entry.Kind())
		assert.Equal(t, courierID.String(), entry.Meta(order.MetaCourierID))
		assert.Empty(t, entry.Meta(order.MetaFrom))
	})

	t.Run("should reassign and keep the previous courier in the entry", func(t *testing.T) {
		first, second := kernel.NewUUID(), kernel.NewUUID()
		o := assignedOrder(t, first, 0, 0)

		require.NoError(t, o.AssignCourier(admin, assignee{id: second, active: true}, testNow))

		assert.True(t, o.IsAssignedTo(second))
		last := o.AuditLog()[len(o.AuditLog())-1]
		assert.Equal(t, first.String(), last.Meta(order.MetaFrom))
	})

	t.Run("should treat the same courier as no-op", func(t *testing.T) {
		courierID := kernel.NewUUID()
		o := assignedOrder(t, courierID, 0, 0)
		before := len(o.AuditLog())

		require.NoError(t, o.AssignCourier(admin, assignee{id: courierID, active: true}, testNow))
		assert.Len(t, o.AuditLog(), before)
	})

	t.Run("should reject inactive courier", func(t *testing.T) {
		o := newOrder(t, 0, 0)

		err := o.AssignCourier(admin, assignee{id: kernel.NewUUID(), active: false}, testNow)

		assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.Nil(t, o.Courier())
	})

	t.Run("should reject courier actors", func(t *testing.T) {
		courierID := kernel.NewUUID()
		o := newOrder(t, 0, 0)

		err := o.AssignCourier(courierActor(t, courierID), assignee{id: courierID, active: true}, testNow)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should reject terminal orders", func(t *testing.T) {
		o := newOrder(t, 0, 0)
		require.NoError(t, o.ChangeStatus(admin, order.Cancelled, testNow))

		err := o.AssignCourier(admin, assignee{id: kernel.NewUUID(), active: true}, testNow)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrder_AttachProof(t *testing.T) {
	courierID := kernel.NewUUID()
	courier := courierActor(t, courierID)

	t.Run("should append photo and entry", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)

		require.NoError(t, o.AttachProof(courier, " https://cdn.example.com/a.jpg ", testNow))

		assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, o.ProofPhotos())
		last := o.AuditLog()[len(o.AuditLog())-1]
		assert.Equal(t, order.EventProofAttached, last.Kind())
		assert.Equal(t, "https://cdn.example.com/a.jpg", last.Meta(order.MetaPhotoURL))
	})

	t.Run("should validate the url", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)

		assert.ErrorIs(t, o.AttachProof(courier, "", testNow), errs.ErrValueIsRequired)
		assert.ErrorIs(t, o.AttachProof(courier, "ftp://host/a.jpg", testNow), errs.ErrValueIsInvalid)
		assert.ErrorIs(t, o.AttachProof(courier, "not a url", testNow), errs.ErrValueIsInvalid)
		assert.Empty(t, o.ProofPhotos())
	})

	t.Run("should reject other couriers and the system", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)

		err := o.AttachProof(courierActor(t, kernel.NewUUID()), "https://cdn.example.com/a.jpg", testNow)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)

		err = o.AttachProof(kernel.SystemActor("test"), "https://cdn.example.com/a.jpg", testNow)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should let admin attach on behalf of the courier", func(t *testing.T) {
		o := assignedOrder(t, courierID, 0, 0)

		require.NoError(t, o.AttachProof(adminActor(t), "https://cdn.example.com/a.jpg", testNow))
		assert.Len(t, o.ProofPhotos(), 1)
	})
}
