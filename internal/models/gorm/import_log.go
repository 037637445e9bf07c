package gorm

import (
	"time"

	"infinite-experiment/quartermaster/internal/constants"
)

// ImportLog is one append-only audit row per commit attempt. Rows are never
// updated or deleted, including for attempts that wrote nothing.
type ImportLog struct {
	ID          string                 `gorm:"column:id;primaryKey;type:uuid"`
	ImportedAt  time.Time              `gorm:"column:imported_at;index;autoCreateTime"`
	RecordCount int                    `gorm:"column:record_count"`
	Source      constants.ImportSource `gorm:"column:source;type:import_source"`
	FileName    *string                `gorm:"column:file_name"`
	ImportedBy  string                 `gorm:"column:imported_by;index"`
	Status      constants.ImportStatus `gorm:"column:status;type:import_status"`
	Errors      string                 `gorm:"column:errors;type:text"`
}

// TableName specifies the table name for GORM
func (ImportLog) TableName() string {
	return "import_logs"
}
