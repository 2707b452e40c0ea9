package service

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertPreview records generated preview artifacts for a file. One
// cache entry exists per file; regeneration overwrites it.
func UpsertPreview(fileID uint64, thumbnailBucket, thumbnailObject, previewData string) (*model.FilePreview, error) {
	if _, err := GetFile(fileID); err != nil {
		return nil, err
	}
	preview := &model.FilePreview{
		FileID:          fileID,
		ThumbnailBucket: thumbnailBucket,
		ThumbnailObject: thumbnailObject,
		PreviewData:     previewData,
		GeneratedAt:     time.Now(),
	}
	err := repo.Db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "file_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"thumbnail_bucket", "thumbnail_object", "preview_data", "generated_at",
		}),
	}).Create(preview).Error
	if err != nil {
		return nil, newError(KindInternal, "save preview failed", err)
	}
	var saved model.FilePreview
	if err := repo.Db.Where("file_id = ?", fileID).First(&saved).Error; err != nil {
		return nil, newError(KindInternal, "load preview failed", err)
	}
	return &saved, nil
}

// GetPreview returns the cached preview for a file plus a presigned
// thumbnail URL when a thumbnail blob exists. NotFound means the
// preview has not been generated yet.
func GetPreview(ctx context.Context, fileID uint64) (*model.FilePreview, string, error) {
	if _, err := GetFile(fileID); err != nil {
		return nil, "", err
	}
	var preview model.FilePreview
	if err := repo.Db.Where("file_id = ?", fileID).First(&preview).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", newError(KindNotFound, "preview not generated", nil)
		}
		return nil, "", newError(KindInternal, "load preview failed", err)
	}

	thumbnailURL := ""
	if preview.ThumbnailObject != "" && storage.Default != nil {
		url, err := storage.Default.PresignedGetObjectWithResponse(
			ctx, preview.ThumbnailBucket, preview.ThumbnailObject,
			config.AppConfig.PresignedURLExpiry, nil)
		if err == nil {
			thumbnailURL = url
		}
	}
	return &preview, thumbnailURL, nil
}

// RemovePreview drops a file's cache entry and thumbnail blob. Absence
// is not an error; regeneration will recreate both.
func RemovePreview(ctx context.Context, fileID uint64) error {
	var preview model.FilePreview
	if err := repo.Db.Where("file_id = ?", fileID).First(&preview).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return newError(KindInternal, "load preview failed", err)
	}
	removeBlob(ctx, preview.ThumbnailBucket, preview.ThumbnailObject)
	if err := repo.Db.Delete(&preview).Error; err != nil {
		return newError(KindInternal, "delete preview failed", err)
	}
	return nil
}
