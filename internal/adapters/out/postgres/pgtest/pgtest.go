// Package pgtest starts a throwaway PostgreSQL container with the dispatch
// schema for integration tests.
package pgtest

import (
	"context"
	"time"

	"dispatch/internal/adapters/out/postgres"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a running container and a migrated connection to it.
type Database struct {
	Container *tcpostgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine and migrates the schema.
func Start(ctx context.Context) (*Database, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	if err = postgres.Migrate(db); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Container: container, DB: db}, nil
}

// Truncate empties every dispatch table.
func (d *Database) Truncate() error {
	return d.DB.Exec("TRUNCATE TABLE order_audit_entries, orders, couriers").Error
}

// Terminate stops the container.
func (d *Database) Terminate(ctx context.Context) error {
	return d.Container.Terminate(ctx)
}
