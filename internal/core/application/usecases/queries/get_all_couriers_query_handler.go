package queries

import (
	"context"
	"database/sql"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllCouriersQueryHandler retrieves all courier information from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetAllCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetAllCouriersQueryHandler creates a handler for courier retrieval queries.
func NewGetAllCouriersQueryHandler(db *gorm.DB) GetAllCouriersQueryHandler {
	return GetAllCouriersQueryHandler{db: db}
}

// Handle returns every courier sorted by name.
func (h GetAllCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCouriersQuery,
) ([]GetAllCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]GetAllCouriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			contact,
			active,
			online,
			location_lat,
			location_lng,
			last_seen_at
		FROM couriers
		ORDER BY name, id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var courier GetAllCouriersQueryResponse
		var id uuid.UUID
		var lat, lng sql.NullFloat64
		var lastSeenAt sql.NullTime

		err = rows.Scan(
			&id,
			&courier.Name,
			&courier.Contact,
			&courier.Active,
			&courier.Online,
			&lat,
			&lng,
			&lastSeenAt,
		)
		if err != nil {
			return nil, err
		}

		courierID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		courier.ID = courierID

		if lat.Valid && lng.Valid {
			location, locErr := kernel.NewLocation(lat.Float64, lng.Float64)
			if locErr != nil {
				return nil, locErr
			}
			courier.Location = &location
		}
		if lastSeenAt.Valid {
			seen := lastSeenAt.Time.In(time.UTC)
			courier.LastSeenAt = &seen
		}

		couriers = append(couriers, courier)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}
