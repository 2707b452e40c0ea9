package model

import "time"

const (
	PermissionRead  = "read"
	PermissionWrite = "write"
	PermissionAdmin = "admin"
)

// ValidPermissionType reports whether t is one of the known grant types.
func ValidPermissionType(t string) bool {
	switch t {
	case PermissionRead, PermissionWrite, PermissionAdmin:
		return true
	}
	return false
}

// FilePermission is a per-(file,user) grant. The unique index makes a
// second grant for the same pair an upsert, never a duplicate row.
type FilePermission struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	FileID uint64 `gorm:"column:file_id;not null;uniqueIndex:uk_file_user,priority:1" json:"file_id"`
	File   File   `gorm:"foreignKey:FileID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	UserID uint64 `gorm:"column:user_id;not null;uniqueIndex:uk_file_user,priority:2" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	PermissionType string `gorm:"column:permission_type;size:10;not null;default:'read'" json:"permission_type"`

	GrantedByID uint64 `gorm:"column:granted_by;not null" json:"granted_by"`
	GrantedBy   User   `gorm:"foreignKey:GrantedByID;references:ID" json:"-"`

	GrantedAt time.Time  `gorm:"column:granted_at;autoCreateTime" json:"granted_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

// TableName returns the database table name.
func (FilePermission) TableName() string {
	return "file_permission"
}

// IsActive reports whether the grant is usable at the given instant.
// Expired rows are kept and only treated as inactive.
func (p *FilePermission) IsActive(now time.Time) bool {
	if p.ExpiresAt == nil {
		return true
	}
	return now.Before(*p.ExpiresAt)
}

// IsExpired is the complement of IsActive for callers that surface
// expiry explicitly.
func (p *FilePermission) IsExpired(now time.Time) bool {
	return !p.IsActive(now)
}
