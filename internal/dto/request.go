package dto

type CreateFolderRequest struct {
	Name        string  `json:"name" binding:"required"`
	ParentID    *uint64 `json:"parent_id"`
	Description string  `json:"description"`
}

type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateFolderRequest struct {
	Description *string `json:"description"`
}

type MoveFolderRequest struct {
	ParentID *uint64 `json:"parent_id"`
}

type MoveFileRequest struct {
	FolderID *uint64 `json:"folder_id"`
}

type DuplicateFileRequest struct {
	FolderID *uint64 `json:"folder_id"`
}

type UpdateFileRequest struct {
	Description *string   `json:"description"`
	IsPublic    *bool     `json:"is_public"`
	TagIDs      *[]uint64 `json:"tag_ids"`
}

type GrantPermissionRequest struct {
	UserID         uint64 `json:"user_id" binding:"required"`
	PermissionType string `json:"permission_type" binding:"required"`
	ExpiresInHours *int   `json:"expires_in_hours"`
}

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type UpdateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}
