package gorm

import "time"

// User is the actor table the audit page joins against for display names.
type User struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	UserName  string    `gorm:"column:username"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
