package model

import "time"

// FilePreview holds at most one generated preview per file.
type FilePreview struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	FileID uint64 `gorm:"column:file_id;not null;uniqueIndex" json:"file_id"`
	File   File   `gorm:"foreignKey:FileID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	// ThumbnailObject is the storage path of the rendered thumbnail,
	// empty when no image thumbnail could be produced.
	ThumbnailBucket string `gorm:"column:thumbnail_bucket;size:64;not null;default:''" json:"-"`
	ThumbnailObject string `gorm:"column:thumbnail_object;size:512;not null;default:''" json:"-"`

	// PreviewData is a JSON payload describing the preview (dimensions,
	// text excerpt, page count, ...).
	PreviewData string `gorm:"column:preview_data;type:text" json:"preview_data,omitempty"`

	GeneratedAt time.Time `gorm:"column:generated_at;autoCreateTime" json:"generated_at"`
}

// TableName returns the database table name.
func (FilePreview) TableName() string {
	return "file_preview"
}
