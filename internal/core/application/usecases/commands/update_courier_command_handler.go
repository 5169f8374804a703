package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// UpdateCourierAvailabilityCommandHandler applies operator or app changes to
// the active and online flags.
type UpdateCourierAvailabilityCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewUpdateCourierAvailabilityCommandHandler(uowFactory CourierUoWFactory) UpdateCourierAvailabilityCommandHandler {
	return UpdateCourierAvailabilityCommandHandler{uowFactory: uowFactory}
}

func (h UpdateCourierAvailabilityCommandHandler) Handle(ctx context.Context, cmd UpdateCourierAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return updateCourier(ctx, h.uowFactory, cmd, func(c *courier.Courier) error {
		if active := cmd.Active(); active != nil {
			if *active {
				c.Activate()
			} else {
				c.Deactivate()
			}
		}
		if online := cmd.Online(); online != nil {
			if *online {
				c.GoOnline(time.Now().UTC())
			} else {
				c.GoOffline()
			}
		}
		return nil
	})
}

// UpdateCourierLocationCommandHandler stores a position report. A report also
// marks the courier online.
type UpdateCourierLocationCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewUpdateCourierLocationCommandHandler(uowFactory CourierUoWFactory) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{uowFactory: uowFactory}
}

func (h UpdateCourierLocationCommandHandler) Handle(ctx context.Context, cmd UpdateCourierLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return updateCourier(ctx, h.uowFactory, cmd, func(c *courier.Courier) error {
		return c.UpdateLocation(cmd.Location(), cmd.ReportedAt())
	})
}

type courierCommand interface {
	CourierID() kernel.UUID
}

func updateCourier(
	ctx context.Context,
	uowFactory CourierUoWFactory,
	cmd courierCommand,
	mutate func(c *courier.Courier) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	c, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = mutate(c); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
