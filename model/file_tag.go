package model

import "time"

type FileTag struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	Color string `gorm:"column:color;size:20;not null;default:'#808080'" json:"color"`

	CreatedByID uint64 `gorm:"column:created_by;not null" json:"created_by"`
	CreatedBy   User   `gorm:"foreignKey:CreatedByID;references:ID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (FileTag) TableName() string {
	return "file_tag"
}
