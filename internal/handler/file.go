package handler

import (
	"FileVault/config"
	"FileVault/internal/dto"
	"FileVault/internal/service"
	"FileVault/internal/task"
	"FileVault/utils"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UploadFile stores a multipart upload. Form fields: file (required),
// folder_id, name (defaults to the uploaded filename), conflict_policy
// (reject, replace or duplicate).
func UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"code": -1, "msg": "file field is required"})
		return
	}
	if header.Size > config.AppConfig.MaxUploadSizeBytes {
		c.JSON(400, gin.H{"code": -1, "msg": "file exceeds the maximum upload size", "kind": "validation_failure"})
		return
	}

	var folderID *uint64
	if raw := c.PostForm("folder_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.JSON(400, gin.H{"code": -1, "msg": "invalid folder_id"})
			return
		}
		folderID = &id
	}

	policy, err := service.ParseConflictPolicy(c.PostForm("conflict_policy"))
	if err != nil {
		fail(c, err)
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = header.Filename
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(400, gin.H{"code": -1, "msg": "unreadable upload"})
		return
	}
	defer src.Close()

	file, replaced, err := service.UploadFile(
		c.Request.Context(),
		actorID(c),
		folderID,
		name,
		src,
		header.Size,
		header.Header.Get("Content-Type"),
		policy,
	)
	if err != nil {
		fail(c, err)
		return
	}

	if err := task.EnqueuePreviewTask(file.ID); err != nil {
		log.Printf("enqueue preview for file %d: %v", file.ID, err)
	}

	resp := dto.UploadResponse{File: dto.NewFileResponse(file), Replaced: replaced}
	if replaced {
		utils.Success(c, resp)
		return
	}
	utils.Created(c, resp)
}

// ListFiles lists files in a folder; omit folder_id for the unfiled
// bucket.
func ListFiles(c *gin.Context) {
	folderID, ok := optionalQueryID(c, "folder_id")
	if !ok {
		return
	}
	files, err := service.ListFiles(folderID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFileListResponse(files))
}

// SearchFiles matches files by name or description.
func SearchFiles(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(400, gin.H{"code": -1, "msg": "invalid limit"})
			return
		}
		limit = parsed
	}
	files, err := service.SearchFiles(c.Query("q"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFileListResponse(files))
}

// GetFile returns one file entry.
func GetFile(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	file, err := service.GetFile(fileID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFileResponse(file))
}

// RenameFile renames a file within its folder.
func RenameFile(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	var req dto.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	file, err := service.RenameFile(fileID, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFileResponse(file))
}

// MoveFile moves a file to another folder; null folder_id unfiles it.
func MoveFile(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	var req dto.MoveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	file, err := service.MoveFile(fileID, req.FolderID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFileResponse(file))
}

// UpdateFile applies partial metadata edits.
func UpdateFile(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	var req dto.UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	file, err := service.UpdateFileMetadata(fileID, req.Description, req.IsPublic, req.TagIDs)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFileResponse(file))
}

// DeleteFile removes a file, its versions, permissions and preview.
func DeleteFile(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	if err := service.DeleteFile(c.Request.Context(), fileID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateFile copies a file, optionally into another folder.
func DuplicateFile(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	var req dto.DuplicateFileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, err)
			return
		}
	}
	clone, err := service.DuplicateFile(c.Request.Context(), fileID, actorID(c), req.FolderID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Created(c, dto.NewFileResponse(clone))
}

// DownloadFile streams the current file content.
func DownloadFile(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	reader, file, err := service.DownloadFile(c.Request.Context(), fileID)
	if err != nil {
		fail(c, err)
		return
	}
	defer reader.Close()

	filename := utils.SanitizeHeaderFilename(file.Name)
	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	}
	c.DataFromReader(http.StatusOK, file.Size, file.ContentType, reader, extraHeaders)
}

// ListFilesByTag lists files carrying a tag.
func ListFilesByTag(c *gin.Context) {
	tagID, ok := pathID(c, "tagID")
	if !ok {
		return
	}
	files, err := service.ListFilesByTag([]uint64{tagID})
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFileListResponse(files))
}
