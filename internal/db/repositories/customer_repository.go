package repositories

import (
	"context"
	"fmt"

	gormModels "infinite-experiment/quartermaster/internal/models/gorm"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new GORM-based customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetAllActive fetches all active customers ordered by name
func (r *CustomerRepository) GetAllActive(ctx context.Context) ([]gormModels.Customer, error) {
	var customers []gormModels.Customer

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&customers).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch active customers: %w", err)
	}

	return customers, nil
}

// CountActive returns the number of active customers
func (r *CustomerRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Customer{}).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
