package gorm

import "time"

// AircraftTypeMapping is one pattern rule of the type normalizer. Active
// mappings are evaluated in (priority asc, created_at asc, id asc) order and
// the first matching pattern wins.
type AircraftTypeMapping struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid"`
	Pattern       string    `gorm:"column:pattern;type:text"`
	CanonicalType string    `gorm:"column:canonical_type;type:varchar(32)"`
	Priority      int       `gorm:"column:priority;index;default:100"`
	IsActive      bool      `gorm:"column:is_active;default:true;index"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (AircraftTypeMapping) TableName() string {
	return "aircraft_type_mappings"
}
