package order

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Sender is the customer who booked the delivery.
type Sender struct {
	name    string
	contact string
}

func NewSender(name, contact string) (Sender, error) {
	name = strings.TrimSpace(name)
	contact = strings.TrimSpace(contact)

	var errList []error
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("sender name"))
	}
	if contact == "" {
		errList = append(errList, errs.NewValueIsRequiredError("sender contact"))
	}
	if err := errors.Join(errList...); err != nil {
		return Sender{}, err
	}

	return Sender{name: name, contact: contact}, nil
}

func (s Sender) Name() string {
	return s.name
}

func (s Sender) Contact() string {
	return s.contact
}

// Stop is a pickup or dropoff point. MapLink is the optional shared map URL the
// customer sent along with the address.
type Stop struct {
	address  string
	mapLink  string
	location kernel.Location
}

func NewStop(address, mapLink string, location kernel.Location) (Stop, error) {
	address = strings.TrimSpace(address)

	var errList []error
	if address == "" {
		errList = append(errList, errs.NewValueIsRequiredError("address"))
	}
	if err := location.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return Stop{}, err
	}

	return Stop{address: address, mapLink: strings.TrimSpace(mapLink), location: location}, nil
}

func (s Stop) Address() string {
	return s.address
}

func (s Stop) MapLink() string {
	return s.mapLink
}

func (s Stop) Location() kernel.Location {
	return s.location
}
