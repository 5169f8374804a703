package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// StopInput is the raw pickup or dropoff data of a booking.
type StopInput struct {
	Address string
	MapLink string
	Lat     float64
	Lng     float64
}

// OrderRequest is the raw booking data accepted from the API or the intake topic.
type OrderRequest struct {
	SenderName    string
	SenderContact string
	Pickup        StopInput
	Dropoff       StopInput
	Tier          string
	CashAdvance   int64
	COD           int64
	Notes         string
}

// CreateOrderCommand represents a request to book a new delivery.
// The fee is not part of the command: the handler prices the route.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, actor, OrderRequest{
//	    SenderName: "Toko Bu Sari", SenderContact: "+62812...",
//	    Pickup:  StopInput{Address: "Jl. Sabang 5", Lat: -6.18, Lng: 106.82},
//	    Dropoff: StopInput{Address: "Jl. Kemang 9", Lat: -6.26, Lng: 106.81},
//	    COD: 150000,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, pricing)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	actor       kernel.Actor
	sender      order.Sender
	pickup      order.Stop
	dropoff     order.Stop
	tier        order.ServiceTier
	cashAdvance order.CashAdvance
	cod         order.COD
	notes       string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the booking and converts it into domain
// values. Every problem is reported at once through errors.Join.
func NewCreateOrderCommand(orderID kernel.UUID, actor kernel.Actor, req OrderRequest) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		notes: strings.TrimSpace(req.Notes),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		actor.Validate(),
		cmd.setSender(req.SenderName, req.SenderContact),
		cmd.setStops(req.Pickup, req.Dropoff),
		cmd.setTier(req.Tier),
		cmd.setMoney(req.CashAdvance, req.COD),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.actor = actor

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID           { return c.orderID }
func (c CreateOrderCommand) Actor() kernel.Actor            { return c.actor }
func (c CreateOrderCommand) Sender() order.Sender           { return c.sender }
func (c CreateOrderCommand) Pickup() order.Stop             { return c.pickup }
func (c CreateOrderCommand) Dropoff() order.Stop            { return c.dropoff }
func (c CreateOrderCommand) Tier() order.ServiceTier        { return c.tier }
func (c CreateOrderCommand) CashAdvance() order.CashAdvance { return c.cashAdvance }
func (c CreateOrderCommand) COD() order.COD                 { return c.cod }
func (c CreateOrderCommand) Notes() string                  { return c.notes }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setSender(name, contact string) error {
	sender, err := order.NewSender(name, contact)
	if err != nil {
		return err
	}

	c.sender = sender
	return nil
}

func (c *CreateOrderCommand) setStops(pickup, dropoff StopInput) error {
	p, pErr := newStop("pickup", pickup)
	d, dErr := newStop("dropoff", dropoff)
	if err := errors.Join(pErr, dErr); err != nil {
		return err
	}

	c.pickup = p
	c.dropoff = d
	return nil
}

func (c *CreateOrderCommand) setTier(tier string) error {
	parsed, err := order.ParseServiceTier(tier)
	if err != nil {
		return err
	}

	c.tier = parsed
	return nil
}

func (c *CreateOrderCommand) setMoney(advance, cod int64) error {
	a, aErr := order.NewCashAdvance(advance)
	d, dErr := order.NewCOD(cod)
	if err := errors.Join(aErr, dErr); err != nil {
		return err
	}

	c.cashAdvance = a
	c.cod = d
	return nil
}

func newStop(name string, in StopInput) (order.Stop, error) {
	location, err := kernel.NewLocation(in.Lat, in.Lng)
	if err != nil {
		return order.Stop{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	stop, err := order.NewStop(in.Address, in.MapLink, location)
	if err != nil {
		return order.Stop{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return stop, nil
}
