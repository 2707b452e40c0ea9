package service

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/model"
	"context"
	"errors"
	"io"

	"gorm.io/gorm"
)

// AddVersion appends a content snapshot to a file's version ledger.
// The version number is always the current maximum plus one, assigned
// inside a transaction; numbers are never reused even after deletions.
func AddVersion(
	ctx context.Context,
	fileID uint64,
	actorID uint64,
	reader io.Reader,
	size int64,
	changeDescription string,
) (*model.FileVersion, error) {
	file, err := GetFile(fileID)
	if err != nil {
		return nil, err
	}
	if storage.Default == nil {
		return nil, newError(KindStorageFault, "storage not initialized", nil)
	}

	bucket := config.AppConfig.BucketName
	objectName := BuildObjectName(actorID)
	if err := storage.Default.PutObject(ctx, bucket, objectName, reader, size, storage.PutOptions{ContentType: file.ContentType}); err != nil {
		return nil, newError(KindStorageFault, "store version content failed", err)
	}

	version := &model.FileVersion{
		FileID:            file.ID,
		BucketName:        bucket,
		ObjectName:        objectName,
		Size:              size,
		ChangeDescription: changeDescription,
		CreatedByID:       actorID,
	}
	err = repo.Db.Transaction(func(tx *gorm.DB) error {
		var maxVersion int64
		if err := tx.Model(&model.FileVersion{}).
			Where("file_id = ?", file.ID).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}
		version.VersionNumber = int(maxVersion) + 1
		return tx.Create(version).Error
	})
	if err != nil {
		removeBlob(ctx, bucket, objectName)
		if isDuplicateKey(err) {
			// Two writers raced to the same number; the unique index on
			// (file_id, version_number) rejected one of them.
			return nil, newError(KindNameConflict, "concurrent version write, retry the upload", err)
		}
		return nil, newError(KindInternal, "create version failed", err)
	}
	return version, nil
}

// ListVersions returns a file's versions, newest first.
func ListVersions(fileID uint64) ([]model.FileVersion, error) {
	if _, err := GetFile(fileID); err != nil {
		return nil, err
	}
	var versions []model.FileVersion
	if err := repo.Db.Where("file_id = ?", fileID).
		Order("version_number DESC").
		Find(&versions).Error; err != nil {
		return nil, newError(KindInternal, "list versions failed", err)
	}
	return versions, nil
}

// GetVersion loads one version of a file by its number.
func GetVersion(fileID uint64, versionNumber int) (*model.FileVersion, error) {
	var version model.FileVersion
	err := repo.Db.Where("file_id = ? AND version_number = ?", fileID, versionNumber).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "version not found", nil)
		}
		return nil, newError(KindInternal, "load version failed", err)
	}
	return &version, nil
}

// LatestVersion returns the highest-numbered version, or NotFound when
// the ledger is empty.
func LatestVersion(fileID uint64) (*model.FileVersion, error) {
	var version model.FileVersion
	err := repo.Db.Where("file_id = ?", fileID).
		Order("version_number DESC").
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "file has no versions", nil)
		}
		return nil, newError(KindInternal, "load version failed", err)
	}
	return &version, nil
}

// CountVersions counts ledger entries for a file.
func CountVersions(fileID uint64) (int64, error) {
	var count int64
	if err := repo.Db.Model(&model.FileVersion{}).
		Where("file_id = ?", fileID).
		Count(&count).Error; err != nil {
		return 0, newError(KindInternal, "count versions failed", err)
	}
	return count, nil
}

// DeleteVersion removes one ledger entry and its blob. Remaining
// versions keep their numbers, so the ledger can have gaps.
func DeleteVersion(ctx context.Context, fileID uint64, versionNumber int) error {
	version, err := GetVersion(fileID, versionNumber)
	if err != nil {
		return err
	}
	removeBlob(ctx, version.BucketName, version.ObjectName)
	if err := repo.Db.Delete(&model.FileVersion{}, version.ID).Error; err != nil {
		return newError(KindInternal, "delete version failed", err)
	}
	return nil
}

// DownloadVersion opens a version snapshot for streaming.
func DownloadVersion(ctx context.Context, fileID uint64, versionNumber int) (io.ReadCloser, *model.FileVersion, error) {
	version, err := GetVersion(fileID, versionNumber)
	if err != nil {
		return nil, nil, err
	}
	if storage.Default == nil {
		return nil, nil, newError(KindStorageFault, "storage not initialized", nil)
	}
	reader, _, err := storage.Default.GetObject(ctx, version.BucketName, version.ObjectName)
	if err != nil {
		return nil, nil, newError(KindNotFound, "version content not found in storage", err)
	}
	return reader, version, nil
}
