package repositories

import (
	"context"
	"fmt"

	gormModels "infinite-experiment/quartermaster/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportLogRepository appends audit entries. There is deliberately no update
// or delete method on this repository.
type ImportLogRepository struct {
	db *gorm.DB
}

// NewImportLogRepository creates a new GORM-based import log repository
func NewImportLogRepository(db *gorm.DB) *ImportLogRepository {
	return &ImportLogRepository{db: db}
}

// Append writes one audit entry and returns its id
func (r *ImportLogRepository) Append(ctx context.Context, entry *gormModels.ImportLog) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return "", fmt.Errorf("failed to append import log entry: %w", err)
	}

	return entry.ID, nil
}
