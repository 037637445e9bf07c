package repositories

import (
	"context"
	"fmt"

	gormModels "infinite-experiment/quartermaster/internal/models/gorm"

	"gorm.io/gorm"
)

type AircraftRepository struct {
	db *gorm.DB
}

// NewAircraftRepository creates a new GORM-based aircraft repository
func NewAircraftRepository(db *gorm.DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// GetAllActive fetches all active aircraft ordered by registration
func (r *AircraftRepository) GetAllActive(ctx context.Context) ([]gormModels.Aircraft, error) {
	var aircraft []gormModels.Aircraft

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("registration ASC").
		Find(&aircraft).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch active aircraft: %w", err)
	}

	return aircraft, nil
}

// GetByRegistration fetches a single active aircraft by its natural key
func (r *AircraftRepository) GetByRegistration(ctx context.Context, registration string) (*gormModels.Aircraft, error) {
	var ac gormModels.Aircraft

	err := r.db.WithContext(ctx).
		Where("registration = ? AND is_active = ?", registration, true).
		First(&ac).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch aircraft: %w", err)
	}

	return &ac, nil
}

// CountActive returns the number of active aircraft
func (r *AircraftRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Aircraft{}).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count aircraft: %w", err)
	}
	return count, nil
}
