package services

import (
	"errors"
	"math"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrCourierNotFound is returned when no candidate courier can take the order.
	ErrCourierNotFound = errors.New("courier not found")
	// ErrOrderNotDispatchable is returned for orders that already left CREATED.
	ErrOrderNotDispatchable = errors.New("order is not waiting for dispatch")
)

// OrderDispatcher picks a courier for a waiting order and offers it.
//
// The chosen courier is the dispatchable one (active, online, with a known
// position) closest to the pickup by great-circle distance. Ties go to the
// courier listed first. On success the order is assigned and moved to OFFERED,
// producing a COURIER_ASSIGNED and a STATUS_CHANGED entry.
type OrderDispatcher struct{}

func NewOrderDispatcher() OrderDispatcher {
	return OrderDispatcher{}
}

func (d OrderDispatcher) Dispatch(
	actor kernel.Actor,
	o *order.Order,
	couriers []*courier.Courier,
	at time.Time,
) (*courier.Courier, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.Created {
		return nil, errs.NewPreconditionFailedError(ErrOrderNotDispatchable.Error() + ": " + o.Status().String())
	}

	best, err := d.findNearestCourier(o.Pickup().Location(), couriers)
	if err != nil {
		return nil, err
	}

	if err = o.AssignCourier(actor, best, at); err != nil {
		return nil, err
	}
	if err = o.ChangeStatus(actor, order.Offered, at); err != nil {
		return nil, err
	}

	return best, nil
}

func (d OrderDispatcher) findNearestCourier(pickup kernel.Location, couriers []*courier.Courier) (*courier.Courier, error) {
	var (
		best     *courier.Courier
		bestDist = math.MaxFloat64
	)

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsDispatchable() {
			continue
		}

		dist, err := c.DistanceTo(pickup)
		if err != nil {
			return nil, err
		}

		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}

	if best == nil {
		return nil, ErrCourierNotFound
	}

	return best, nil
}
