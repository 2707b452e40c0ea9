package model

import "time"

type File struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Name string `gorm:"column:name;size:255;not null;uniqueIndex:uk_file_folder_name,priority:2" json:"name"`

	FolderID *uint64 `gorm:"column:folder_id;index" json:"folder_id,omitempty"`
	Folder   *Folder `gorm:"foreignKey:FolderID;references:ID" json:"-"`

	// FolderKey mirrors FolderID with 0 standing in for the "no folder"
	// bucket, so name uniqueness holds there as well.
	FolderKey uint64 `gorm:"column:folder_key;not null;default:0;uniqueIndex:uk_file_folder_name,priority:1" json:"-"`

	// ObjectName is the opaque storage path of the blob. It never
	// derives from the display name, so renames touch metadata only.
	BucketName string `gorm:"column:bucket_name;size:64;not null" json:"-"`
	ObjectName string `gorm:"column:object_name;size:512;not null" json:"-"`

	Size        int64  `gorm:"column:size;not null;default:0" json:"size"`
	ContentType string `gorm:"column:content_type;size:100;not null;default:''" json:"content_type"`
	Description string `gorm:"column:description;size:1000;not null;default:''" json:"description"`
	IsPublic    bool   `gorm:"column:is_public;not null;default:false" json:"is_public"`

	OwnerID uint64 `gorm:"column:owner_id;not null" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Tags []FileTag `gorm:"many2many:file_tag_link;" json:"tags,omitempty"`

	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (File) TableName() string {
	return "file"
}

// SetFolder keeps FolderID and FolderKey in sync.
func (f *File) SetFolder(folderID *uint64) {
	f.FolderID = folderID
	if folderID == nil {
		f.FolderKey = 0
	} else {
		f.FolderKey = *folderID
	}
}
