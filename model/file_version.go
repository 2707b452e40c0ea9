package model

import "time"

// FileVersion is one entry in a file's append-only version ledger.
// Version numbers are log positions: assigned max+1, never reused,
// never renumbered when an older version is deleted.
type FileVersion struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	FileID uint64 `gorm:"column:file_id;not null;uniqueIndex:uk_file_version,priority:1" json:"file_id"`
	File   File   `gorm:"foreignKey:FileID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	VersionNumber int `gorm:"column:version_number;not null;uniqueIndex:uk_file_version,priority:2" json:"version_number"`

	BucketName string `gorm:"column:bucket_name;size:64;not null" json:"-"`
	ObjectName string `gorm:"column:object_name;size:512;not null" json:"-"`

	Size int64 `gorm:"column:size;not null;default:0" json:"size"`

	ChangeDescription string `gorm:"column:change_description;size:1000;not null;default:''" json:"change_description"`

	CreatedByID uint64 `gorm:"column:created_by;not null" json:"created_by"`
	CreatedBy   User   `gorm:"foreignKey:CreatedByID;references:ID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (FileVersion) TableName() string {
	return "file_version"
}
