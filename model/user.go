package model

import (
	"time"

	"gorm.io/gorm"
)

// User is the acting principal. Credential management and session
// issuance live outside this service; rows here exist so ownership
// and permission grants can reference a real account.
type User struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	UserName string `gorm:"column:user_name;type:varchar(50);not null;unique" json:"user_name"`
	Email    string `gorm:"column:email;type:varchar(255);not null;unique" json:"email"`

	IsActive bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "user_db"
}
