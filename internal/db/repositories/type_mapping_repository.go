package repositories

import (
	"context"
	"fmt"

	gormModels "infinite-experiment/quartermaster/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TypeMappingRepository struct {
	db *gorm.DB
}

// NewTypeMappingRepository creates a new GORM-based type mapping repository
func NewTypeMappingRepository(db *gorm.DB) *TypeMappingRepository {
	return &TypeMappingRepository{db: db}
}

// GetAllActive fetches active mappings in evaluation order. The ordering is
// the normalizer's total order: priority first, then insertion order.
func (r *TypeMappingRepository) GetAllActive(ctx context.Context) ([]gormModels.AircraftTypeMapping, error) {
	var mappings []gormModels.AircraftTypeMapping

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&mappings).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch active type mappings: %w", err)
	}

	return mappings, nil
}

// GetAll fetches every mapping, inactive ones included, for the admin list
func (r *TypeMappingRepository) GetAll(ctx context.Context) ([]gormModels.AircraftTypeMapping, error) {
	var mappings []gormModels.AircraftTypeMapping

	err := r.db.WithContext(ctx).
		Order("priority ASC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&mappings).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch type mappings: %w", err)
	}

	return mappings, nil
}

// GetByID fetches one mapping by primary key
func (r *TypeMappingRepository) GetByID(ctx context.Context, id string) (*gormModels.AircraftTypeMapping, error) {
	var mapping gormModels.AircraftTypeMapping

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&mapping).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch type mapping: %w", err)
	}

	return &mapping, nil
}

// Create inserts a new mapping
func (r *TypeMappingRepository) Create(ctx context.Context, mapping *gormModels.AircraftTypeMapping) error {
	if mapping.ID == "" {
		mapping.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(mapping).Error; err != nil {
		return fmt.Errorf("failed to create type mapping: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of an existing mapping
func (r *TypeMappingRepository) Update(ctx context.Context, mapping *gormModels.AircraftTypeMapping) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.AircraftTypeMapping{}).
		Where("id = ?", mapping.ID).
		Updates(map[string]interface{}{
			"pattern":        mapping.Pattern,
			"canonical_type": mapping.CanonicalType,
			"priority":       mapping.Priority,
			"is_active":      mapping.IsActive,
		}).Error

	if err != nil {
		return fmt.Errorf("failed to update type mapping: %w", err)
	}
	return nil
}

// Delete removes a mapping by primary key
func (r *TypeMappingRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&gormModels.AircraftTypeMapping{}).Error

	if err != nil {
		return fmt.Errorf("failed to delete type mapping: %w", err)
	}
	return nil
}
