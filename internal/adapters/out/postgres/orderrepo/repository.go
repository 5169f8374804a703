package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order together with any audit entries it already carries.
// Returns errs.ErrAlreadyExists when the id is taken.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.AuditEntries = auditFromDomain(dto.ID, 0, aggregate.AuditLog())
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewAlreadyExistsErrorWithCause("order", aggregate.ID().String(), err)
		}
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

// Update writes the order only if the stored version still matches the one it
// was read at, bumps the version and appends the new audit entries.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	expected := dto.Version
	dto.Version = expected + 1

	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Omit("id", "created_at", "AuditEntries").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missingOrConflict(ctx, aggregate.ID(), expected)
	}

	entries := auditFromDomain(dto.ID, aggregate.AuditSequenceStart(), aggregate.UnpersistedAuditEntries())
	if len(entries) > 0 {
		if err := db.Create(&entries).Error; err != nil {
			if pgerr.IsUniqueViolation(err) {
				return errs.NewConcurrentModificationError("order", aggregate.ID().String(), expected)
			}
			return err
		}
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

func (r *GormOrderRepository) missingOrConflict(ctx context.Context, id kernel.UUID, expected int) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return errs.NewConcurrentModificationError("order", id.String(), expected)
}

// Get retrieves an order by ID with its full audit log.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withAudit(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetFirstInCreatedStatus retrieves the next order waiting for dispatch:
// express first, then same-day, then regular, oldest first within a tier.
func (r *GormOrderRepository) GetFirstInCreatedStatus(ctx context.Context) (*order.Order, error) {
	var dto OrderDTO
	err := r.withAudit(ctx).
		Where("status IN ?", order.Created.Spellings()).
		Order(gorm.Expr("CASE tier WHEN ? THEN 0 WHEN ? THEN 1 ELSE 2 END",
			order.TierExpress.String(), order.TierSameDay.String())).
		Order("created_at").
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", "first in created status")
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllWithOutstandingCOD retrieves the courier's orders whose COD cash has
// not been handed over yet, oldest first.
func (r *GormOrderRepository) GetAllWithOutstandingCOD(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err := r.withAudit(ctx).
		Where("courier_id = ? AND cod_is_cod AND NOT cod_collected", courierID.Bytes()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) withAudit(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("AuditEntries", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq")
	})
}
