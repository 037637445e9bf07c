package gorm

import (
	"time"

	"infinite-experiment/quartermaster/internal/constants"
)

// Aircraft is a fleet master record. Registration is the natural key and is
// unique among active rows; soft-deactivated rows keep their registration.
type Aircraft struct {
	ID            string                 `gorm:"column:id;primaryKey;type:uuid"`
	Registration  string                 `gorm:"column:registration;index;type:varchar(16)"`
	RawType       string                 `gorm:"column:raw_type;type:text"`
	CanonicalType string                 `gorm:"column:canonical_type;index;type:varchar(32)"`
	OperatorName  string                 `gorm:"column:operator_name;type:text"`
	Source        constants.RecordSource `gorm:"column:source;type:record_source;default:imported"`
	IsActive      bool                   `gorm:"column:is_active;default:true;index"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
	UpdatedBy     string                 `gorm:"column:updated_by"`
}

// TableName specifies the table name for GORM
func (Aircraft) TableName() string {
	return "aircraft"
}
