package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAttachProofCommandIsNotConstructed = errors.New(
	"AttachProofCommand must be created via NewAttachProofCommand constructor",
)

// AttachProofCommand adds an already uploaded proof-of-delivery photo to an order.
type AttachProofCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actor    kernel.Actor
	photoURL string

	guard guard.ConstructorGuard
}

func NewAttachProofCommand(orderID kernel.UUID, actor kernel.Actor, photoURL string) (AttachProofCommand, error) {
	photoURL = strings.TrimSpace(photoURL)

	var urlErr error
	if photoURL == "" {
		urlErr = errs.NewValueIsRequiredError("photoUrl")
	}
	if err := errors.Join(orderID.Validate(), actor.Validate(), urlErr); err != nil {
		return AttachProofCommand{}, err
	}

	return AttachProofCommand{
		orderID:  orderID,
		actor:    actor,
		photoURL: photoURL,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AttachProofCommand) Validate() error {
	return c.guard.Validate(ErrAttachProofCommandIsNotConstructed)
}

func (c AttachProofCommand) OrderID() kernel.UUID { return c.orderID }
func (c AttachProofCommand) Actor() kernel.Actor  { return c.actor }
func (c AttachProofCommand) PhotoURL() string     { return c.photoURL }
