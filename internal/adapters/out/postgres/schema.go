package postgres

import (
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables the repositories and queries use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&courierrepo.CourierDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.AuditEntryDTO{},
	)
}
