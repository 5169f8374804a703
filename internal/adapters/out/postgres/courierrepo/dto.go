// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// The last known position is nullable: a courier who never reported has none.
type CourierDTO struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name       string      `gorm:"type:varchar(255);not null"`
	Contact    string      `gorm:"type:varchar(64);not null"`
	Active     bool        `gorm:"not null"`
	Online     bool        `gorm:"not null;index"`
	Location   LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	LastSeenAt *time.Time
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// LocationDTO represents the embedded last reported position within the courier table.
type LocationDTO struct {
	Lat *float64 `gorm:"type:double precision"`
	Lng *float64 `gorm:"type:double precision"`
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(c *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:      c.ID().Bytes(),
		Name:    c.Name(),
		Contact: c.Contact(),
		Active:  c.IsActive(),
		Online:  c.IsOnline(),
	}

	if loc := c.Location(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.Location = LocationDTO{Lat: &lat, Lng: &lng}
	}
	if seen := c.LastSeenAt(); !seen.IsZero() {
		dto.LastSeenAt = &seen
	}

	return dto
}

// toDomain restores the aggregate from its row. A row that fails to decode is
// reported as corrupt data.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	restored, err := decode(dto)
	if err != nil {
		return nil, errs.NewCorruptDataError("courier", dto.ID, err)
	}
	return restored, nil
}

func decode(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.Location.Lat != nil && dto.Location.Lng != nil {
		loc, locErr := kernel.NewLocation(*dto.Location.Lat, *dto.Location.Lng)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	var lastSeenAt time.Time
	if dto.LastSeenAt != nil {
		lastSeenAt = *dto.LastSeenAt
	}

	return courier.RestoreCourier(id, dto.Name, dto.Contact, dto.Active, dto.Online, location, lastSeenAt)
}
