package model

import "time"

type Folder struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Name string `gorm:"column:name;size:255;not null;uniqueIndex:uk_folder_parent_name,priority:2" json:"name"`

	ParentID *uint64 `gorm:"column:parent_id;index" json:"parent_id,omitempty"`
	Parent   *Folder `gorm:"foreignKey:ParentID;references:ID" json:"-"`

	// ParentKey mirrors ParentID with 0 standing in for NULL so the
	// unique index covers root-level siblings too (MySQL unique indexes
	// skip NULL values).
	ParentKey uint64 `gorm:"column:parent_key;not null;default:0;uniqueIndex:uk_folder_parent_name,priority:1" json:"-"`

	Description string `gorm:"column:description;size:1000;not null;default:''" json:"description"`

	CreatedByID uint64 `gorm:"column:created_by;not null" json:"created_by"`
	CreatedBy   User   `gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Folder) TableName() string {
	return "folder"
}

// SetParent keeps ParentID and ParentKey in sync.
func (f *Folder) SetParent(parentID *uint64) {
	f.ParentID = parentID
	if parentID == nil {
		f.ParentKey = 0
	} else {
		f.ParentKey = *parentID
	}
}
