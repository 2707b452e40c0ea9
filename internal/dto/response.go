package dto

import (
	"FileVault/model"
	"time"
)

type FolderResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	ParentID    *uint64   `json:"parent_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TagResponse struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type FileResponse struct {
	ID          uint64        `json:"id"`
	Name        string        `json:"name"`
	FolderID    *uint64       `json:"folder_id"`
	Size        int64         `json:"size"`
	ContentType string        `json:"content_type"`
	Description string        `json:"description"`
	IsPublic    bool          `json:"is_public"`
	OwnerID     uint64        `json:"owner_id"`
	Tags        []TagResponse `json:"tags"`
	UploadedAt  time.Time     `json:"uploaded_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// UploadResponse reports the stored entry plus whether an existing
// entry was replaced in place.
type UploadResponse struct {
	File     FileResponse `json:"file"`
	Replaced bool         `json:"replaced"`
}

type VersionResponse struct {
	ID                uint64    `json:"id"`
	FileID            uint64    `json:"file_id"`
	VersionNumber     int       `json:"version_number"`
	Size              int64     `json:"size"`
	ChangeDescription string    `json:"change_description"`
	CreatedByID       uint64    `json:"created_by_id"`
	CreatedAt         time.Time `json:"created_at"`
}

type PermissionResponse struct {
	ID             uint64     `json:"id"`
	FileID         uint64     `json:"file_id"`
	UserID         uint64     `json:"user_id"`
	PermissionType string     `json:"permission_type"`
	GrantedByID    uint64     `json:"granted_by_id"`
	GrantedAt      time.Time  `json:"granted_at"`
	ExpiresAt      *time.Time `json:"expires_at"`
	Expired        bool       `json:"expired"`
}

type PreviewResponse struct {
	FileID       uint64    `json:"file_id"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	PreviewData  string    `json:"preview_data,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// NewFolderResponse converts a folder row.
func NewFolderResponse(folder *model.Folder) FolderResponse {
	return FolderResponse{
		ID:          folder.ID,
		Name:        folder.Name,
		ParentID:    folder.ParentID,
		Description: folder.Description,
		CreatedAt:   folder.CreatedAt,
		UpdatedAt:   folder.UpdatedAt,
	}
}

// NewFolderListResponse converts folder rows.
func NewFolderListResponse(folders []model.Folder) []FolderResponse {
	out := make([]FolderResponse, 0, len(folders))
	for i := range folders {
		out = append(out, NewFolderResponse(&folders[i]))
	}
	return out
}

// NewTagResponse converts a tag row.
func NewTagResponse(tag *model.FileTag) TagResponse {
	return TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
	}
}

// NewFileResponse converts a file row with its tags.
func NewFileResponse(file *model.File) FileResponse {
	tags := make([]TagResponse, 0, len(file.Tags))
	for i := range file.Tags {
		tags = append(tags, NewTagResponse(&file.Tags[i]))
	}
	return FileResponse{
		ID:          file.ID,
		Name:        file.Name,
		FolderID:    file.FolderID,
		Size:        file.Size,
		ContentType: file.ContentType,
		Description: file.Description,
		IsPublic:    file.IsPublic,
		OwnerID:     file.OwnerID,
		Tags:        tags,
		UploadedAt:  file.UploadedAt,
		UpdatedAt:   file.UpdatedAt,
	}
}

// NewFileListResponse converts file rows.
func NewFileListResponse(files []model.File) []FileResponse {
	out := make([]FileResponse, 0, len(files))
	for i := range files {
		out = append(out, NewFileResponse(&files[i]))
	}
	return out
}

// NewVersionResponse converts a version row.
func NewVersionResponse(version *model.FileVersion) VersionResponse {
	return VersionResponse{
		ID:                version.ID,
		FileID:            version.FileID,
		VersionNumber:     version.VersionNumber,
		Size:              version.Size,
		ChangeDescription: version.ChangeDescription,
		CreatedByID:       version.CreatedByID,
		CreatedAt:         version.CreatedAt,
	}
}

// NewVersionListResponse converts version rows.
func NewVersionListResponse(versions []model.FileVersion) []VersionResponse {
	out := make([]VersionResponse, 0, len(versions))
	for i := range versions {
		out = append(out, NewVersionResponse(&versions[i]))
	}
	return out
}

// NewPermissionResponse converts a permission row.
func NewPermissionResponse(permission *model.FilePermission, now time.Time) PermissionResponse {
	return PermissionResponse{
		ID:             permission.ID,
		FileID:         permission.FileID,
		UserID:         permission.UserID,
		PermissionType: permission.PermissionType,
		GrantedByID:    permission.GrantedByID,
		GrantedAt:      permission.GrantedAt,
		ExpiresAt:      permission.ExpiresAt,
		Expired:        permission.IsExpired(now),
	}
}

// NewPermissionListResponse converts permission rows.
func NewPermissionListResponse(permissions []model.FilePermission, now time.Time) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(permissions))
	for i := range permissions {
		out = append(out, NewPermissionResponse(&permissions[i], now))
	}
	return out
}
