package gorm

import (
	"time"

	"infinite-experiment/quartermaster/internal/constants"
)

// Customer is an operator master record keyed by name.
type Customer struct {
	ID          string                 `gorm:"column:id;primaryKey;type:uuid"`
	Name        string                 `gorm:"column:name;index;type:text"`
	DisplayName string                 `gorm:"column:display_name;type:text"`
	Color       string                 `gorm:"column:color;type:varchar(7)"`
	Source      constants.RecordSource `gorm:"column:source;type:record_source;default:imported"`
	IsActive    bool                   `gorm:"column:is_active;default:true;index"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
	UpdatedBy   string                 `gorm:"column:updated_by"`
}

// TableName specifies the table name for GORM
func (Customer) TableName() string {
	return "customers"
}
