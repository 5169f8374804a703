package courierrepo

import (
	"context"
	"errors"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewAlreadyExistsErrorWithCause("courier", aggregate.ID().String(), err)
		}
		return err
	}

	return nil
}

// Update saves an existing courier to the database.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllFree retrieves couriers automatic dispatch may pick: active, online,
// with a known position and not holding any order in an active status.
//
// Example:
//
//	freeCouriers, err := repo.GetAllFree(ctx)
//	if err != nil {
//		return fmt.Errorf("failed to get free couriers: %w", err)
//	}
//	for _, courier := range freeCouriers {
//		fmt.Printf("Available courier: %s\n", courier.Name())
//	}
func (r *GormCourierRepository) GetAllFree(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Table("couriers").
		Select("couriers.*").
		Joins("LEFT JOIN orders ON couriers.id = orders.courier_id AND orders.status IN ?", activeStatuses()).
		Where("couriers.active AND couriers.online").
		Where("couriers.location_lat IS NOT NULL AND couriers.location_lng IS NOT NULL").
		Where("orders.courier_id IS NULL").
		Order("couriers.name").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllOnline retrieves every courier currently flagged online.
func (r *GormCourierRepository) GetAllOnline(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).Where("online").Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []CourierDTO) ([]*courier.Courier, error) {
	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}
	return couriers, nil
}

func activeStatuses() []string {
	var names []string
	for _, s := range order.AllStatuses() {
		if s.IsActive() {
			names = append(names, s.Spellings()...)
		}
	}
	return names
}
