package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateCourierCommandIsNotConstructed = errors.New(
	"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
)

// CreateCourierCommand represents a request to register a new courier.
// New couriers start active and offline; they become dispatchable once the
// app reports a first position.
//
// Example:
//
//	cmd, err := NewCreateCourierCommand(kernel.NewUUID(), "Budi", "+6281311112222")
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
//
//	handler := NewCreateCourierCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create courier: %w", err)
//	}
//	fmt.Printf("Created courier with ID: %s", cmd.CourierID())
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	contact   string

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand creates a command to register a new courier.
// Validates that the id is set and name and contact are not blank.
func NewCreateCourierCommand(courierID kernel.UUID, name, contact string) (CreateCourierCommand, error) {
	command := CreateCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(courierID),
		command.setName(name),
		command.setContact(contact),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateCourierCommandIsNotConstructed if validation fails.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

// CourierID returns the courier ID from the command.
func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the courier name from the command.
func (c CreateCourierCommand) Name() string {
	return c.name
}

// Contact returns the courier phone or handle from the command.
func (c CreateCourierCommand) Contact() string {
	return c.contact
}

func (c *CreateCourierCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return courier.ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateCourierCommand) setContact(contact string) error {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return courier.ErrContactIsRequired
	}

	c.contact = contact
	return nil
}
