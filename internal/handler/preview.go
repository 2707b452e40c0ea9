package handler

import (
	"FileVault/internal/dto"
	"FileVault/internal/service"
	"FileVault/internal/task"
	"FileVault/utils"

	"github.com/gin-gonic/gin"
)

// GetPreview returns the cached preview for a file, with a presigned
// thumbnail URL when one exists.
func GetPreview(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	preview, thumbnailURL, err := service.GetPreview(c.Request.Context(), fileID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.PreviewResponse{
		FileID:       preview.FileID,
		ThumbnailURL: thumbnailURL,
		PreviewData:  preview.PreviewData,
		GeneratedAt:  preview.GeneratedAt,
	})
}

// RegeneratePreview queues a fresh preview build for a file.
func RegeneratePreview(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	if _, err := service.GetFile(fileID); err != nil {
		fail(c, err)
		return
	}
	if err := task.EnqueuePreviewTask(fileID); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, gin.H{"queued": fileID})
}
