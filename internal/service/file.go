package service

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/model"
	"FileVault/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"path"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConflictPolicy is the closed set of strategies for a name collision
// on upload. The API accepts exactly one policy field; there are no
// boolean combinations to reconcile.
type ConflictPolicy string

const (
	ConflictReject    ConflictPolicy = "reject"
	ConflictReplace   ConflictPolicy = "replace"
	ConflictDuplicate ConflictPolicy = "duplicate"
)

// ParseConflictPolicy maps the request field to a policy; empty means
// reject.
func ParseConflictPolicy(raw string) (ConflictPolicy, error) {
	switch ConflictPolicy(strings.TrimSpace(strings.ToLower(raw))) {
	case "", ConflictReject:
		return ConflictReject, nil
	case ConflictReplace:
		return ConflictReplace, nil
	case ConflictDuplicate:
		return ConflictDuplicate, nil
	}
	return "", newError(KindValidation, fmt.Sprintf("unknown conflict policy %q", raw), nil)
}

// BuildObjectName builds the opaque storage path for a new blob. The
// display name never appears in it, so duplicate display names across
// folders map to distinct objects.
func BuildObjectName(ownerID uint64) string {
	return fmt.Sprintf("files/%d/%s", ownerID, utils.GetToken())
}

func invalidateFileListCache(folderID *uint64) {
	_ = utils.InvalidateFileListCache(context.Background(), refKey(folderID))
}

// removeBlob deletes a blob best-effort. Storage-layer absence or
// failure is logged and swallowed: a dangling blob is a recoverable
// leak, a dangling metadata row is not, so metadata cleanup must not
// depend on this succeeding.
func removeBlob(ctx context.Context, bucket, object string) {
	if storage.Default == nil || object == "" {
		return
	}
	if err := storage.Default.RemoveObject(ctx, bucket, object); err != nil {
		log.Printf("blob delete %s/%s failed: %v", bucket, object, err)
	}
}

// GetFile loads a file by ID.
func GetFile(fileID uint64) (*model.File, error) {
	var file model.File
	if err := repo.Db.Preload("Tags").First(&file, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "file not found", nil)
		}
		return nil, newError(KindInternal, "load file failed", err)
	}
	return &file, nil
}

func findFileByName(folderID *uint64, name string) (*model.File, error) {
	var file model.File
	err := repo.Db.Where("folder_key = ? AND name = ?", refKey(folderID), name).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, newError(KindInternal, "check file name failed", err)
	}
	return &file, nil
}

func fileNameExists(folderID *uint64, name string, excludeID uint64) (bool, error) {
	var count int64
	err := repo.Db.Model(&model.File{}).
		Where("folder_key = ? AND name = ? AND id != ?", refKey(folderID), name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, newError(KindInternal, "check file name failed", err)
	}
	return count > 0, nil
}

func detectContentType(name, provided string) string {
	if provided != "" && provided != "application/octet-stream" {
		return provided
	}
	if byExt := mime.TypeByExtension(path.Ext(name)); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// UploadFile stores a blob and creates (or replaces) its file entry.
// The returned bool is true when an existing entry was replaced in
// place. Size and content type are derived here, never taken from
// client metadata fields.
func UploadFile(
	ctx context.Context,
	ownerID uint64,
	folderID *uint64,
	name string,
	reader io.Reader,
	size int64,
	contentType string,
	policy ConflictPolicy,
) (*model.File, bool, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, false, err
	}
	if _, err := resolveParent(folderID); err != nil {
		return nil, false, err
	}
	if storage.Default == nil {
		return nil, false, newError(KindStorageFault, "storage not initialized", nil)
	}
	contentType = detectContentType(name, contentType)

	existing, err := findFileByName(folderID, name)
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		switch policy {
		case ConflictReplace:
			return replaceFile(ctx, existing, ownerID, reader, size, contentType)
		case ConflictDuplicate:
			name, err = nextFreeName(
				func(n int) string { return numberedName(name, n) },
				func(candidate string) (bool, error) { return fileNameExists(folderID, candidate, 0) },
			)
			if err != nil {
				return nil, false, err
			}
		default:
			return nil, false, newErrorWithData(KindNameConflict,
				"a file with this name already exists in this folder",
				map[string]interface{}{
					"options": []string{string(ConflictReplace), string(ConflictDuplicate)},
				}, nil)
		}
	}

	bucket := config.AppConfig.BucketName
	objectName := BuildObjectName(ownerID)
	if err := storage.Default.PutObject(ctx, bucket, objectName, reader, size, storage.PutOptions{ContentType: contentType}); err != nil {
		return nil, false, newError(KindStorageFault, "store file content failed", err)
	}

	file := &model.File{
		Name:        name,
		BucketName:  bucket,
		ObjectName:  objectName,
		Size:        size,
		ContentType: contentType,
		OwnerID:     ownerID,
	}
	file.SetFolder(folderID)
	if err := repo.Db.Create(file).Error; err != nil {
		// Lost a race on the unique index; the blob is orphaned, so
		// collect it before reporting the conflict.
		removeBlob(ctx, bucket, objectName)
		if isDuplicateKey(err) {
			return nil, false, newError(KindNameConflict, "a file with this name already exists in this folder", err)
		}
		return nil, false, newError(KindInternal, "create file failed", err)
	}
	invalidateFileListCache(folderID)
	return file, false, nil
}

// replaceFile overwrites an existing entry's blob and metadata in
// place. The old blob goes first, best-effort; a failed new write is
// fatal and leaves the metadata row pointing at the fresh object name
// only after the write succeeded.
func replaceFile(ctx context.Context, existing *model.File, actorID uint64, reader io.Reader, size int64, contentType string) (*model.File, bool, error) {
	removeBlob(ctx, existing.BucketName, existing.ObjectName)

	bucket := config.AppConfig.BucketName
	objectName := BuildObjectName(actorID)
	if err := storage.Default.PutObject(ctx, bucket, objectName, reader, size, storage.PutOptions{ContentType: contentType}); err != nil {
		return nil, false, newError(KindStorageFault, "store file content failed", err)
	}

	updates := map[string]interface{}{
		"bucket_name":  bucket,
		"object_name":  objectName,
		"size":         size,
		"content_type": contentType,
		"owner_id":     actorID,
	}
	if err := repo.Db.Model(existing).Updates(updates).Error; err != nil {
		removeBlob(ctx, bucket, objectName)
		return nil, false, newError(KindInternal, "replace file failed", err)
	}
	existing.BucketName = bucket
	existing.ObjectName = objectName
	existing.Size = size
	existing.ContentType = contentType
	existing.OwnerID = actorID
	invalidateFileListCache(existing.FolderID)
	return existing, true, nil
}

// ListFiles returns the files directly inside a folder; nil lists the
// "no folder" bucket.
func ListFiles(folderID *uint64) ([]model.File, error) {
	if cached, ok := utils.GetFileListFromCache(context.Background(), refKey(folderID)); ok {
		return cached, nil
	}
	var files []model.File
	if err := repo.Db.Preload("Tags").
		Where("folder_key = ?", refKey(folderID)).
		Order("name ASC").
		Find(&files).Error; err != nil {
		return nil, newError(KindInternal, "list files failed", err)
	}
	_ = utils.SetFileListToCache(context.Background(), refKey(folderID), files, config.AppConfig.ListCacheExpiration)
	return files, nil
}

// RenameFile renames a file within its folder.
func RenameFile(fileID uint64, newName string) (*model.File, error) {
	newName = strings.TrimSpace(newName)
	if err := ValidateName(newName); err != nil {
		return nil, err
	}
	file, err := GetFile(fileID)
	if err != nil {
		return nil, err
	}
	exists, err := fileNameExists(file.FolderID, newName, file.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newError(KindNameConflict, "a file with this name already exists in this folder", nil)
	}
	if err := repo.Db.Model(file).Update("name", newName).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, newError(KindNameConflict, "a file with this name already exists in this folder", err)
		}
		return nil, newError(KindInternal, "rename file failed", err)
	}
	file.Name = newName
	invalidateFileListCache(file.FolderID)
	return file, nil
}

// MoveFile moves a file to another folder (nil means the "no folder"
// bucket). Files cannot be ancestors, so no cycle check applies.
func MoveFile(fileID uint64, targetFolderID *uint64) (*model.File, error) {
	file, err := GetFile(fileID)
	if err != nil {
		return nil, err
	}
	if _, err := resolveParent(targetFolderID); err != nil {
		return nil, err
	}
	exists, err := fileNameExists(targetFolderID, file.Name, file.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newError(KindNameConflict, "a file with this name already exists in the target folder", nil)
	}

	oldFolderID := file.FolderID
	file.SetFolder(targetFolderID)
	if err := repo.Db.Model(file).
		Updates(map[string]interface{}{"folder_id": file.FolderID, "folder_key": file.FolderKey}).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, newError(KindNameConflict, "a file with this name already exists in the target folder", err)
		}
		return nil, newError(KindInternal, "move file failed", err)
	}
	invalidateFileListCache(oldFolderID)
	invalidateFileListCache(targetFolderID)
	return file, nil
}

// UpdateFileMetadata applies partial edits: description, visibility and
// tag set. Nil fields stay untouched.
func UpdateFileMetadata(fileID uint64, description *string, isPublic *bool, tagIDs *[]uint64) (*model.File, error) {
	file, err := GetFile(fileID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if description != nil {
		updates["description"] = *description
	}
	if isPublic != nil {
		updates["is_public"] = *isPublic
	}
	if len(updates) > 0 {
		if err := repo.Db.Model(file).Updates(updates).Error; err != nil {
			return nil, newError(KindInternal, "update file failed", err)
		}
	}
	if tagIDs != nil {
		var tags []model.FileTag
		if len(*tagIDs) > 0 {
			if err := repo.Db.Where("id IN ?", *tagIDs).Find(&tags).Error; err != nil {
				return nil, newError(KindInternal, "load tags failed", err)
			}
			if len(tags) != len(*tagIDs) {
				return nil, newError(KindNotFound, "tag not found", nil)
			}
		}
		if err := repo.Db.Model(file).Association("Tags").Replace(tags); err != nil {
			return nil, newError(KindInternal, "update tags failed", err)
		}
	}
	invalidateFileListCache(file.FolderID)
	return GetFile(fileID)
}

// DeleteFile removes a file and everything it owns: versions first,
// then permissions, preview, the file blob, and finally the row. Blob
// deletions are best-effort; metadata deletion always proceeds.
func DeleteFile(ctx context.Context, fileID uint64) error {
	file, err := GetFile(fileID)
	if err != nil {
		return err
	}

	var versions []model.FileVersion
	if err := repo.Db.Where("file_id = ?", file.ID).Find(&versions).Error; err != nil {
		return newError(KindInternal, "list versions failed", err)
	}
	for _, version := range versions {
		removeBlob(ctx, version.BucketName, version.ObjectName)
	}
	if err := repo.Db.Where("file_id = ?", file.ID).Delete(&model.FileVersion{}).Error; err != nil {
		return newError(KindInternal, "delete versions failed", err)
	}

	if err := repo.Db.Where("file_id = ?", file.ID).Delete(&model.FilePermission{}).Error; err != nil {
		return newError(KindInternal, "delete permissions failed", err)
	}

	var preview model.FilePreview
	if err := repo.Db.Where("file_id = ?", file.ID).First(&preview).Error; err == nil {
		removeBlob(ctx, preview.ThumbnailBucket, preview.ThumbnailObject)
		if err := repo.Db.Delete(&preview).Error; err != nil {
			return newError(KindInternal, "delete preview failed", err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(KindInternal, "load preview failed", err)
	}

	if err := repo.Db.Model(file).Association("Tags").Clear(); err != nil {
		return newError(KindInternal, "detach tags failed", err)
	}

	removeBlob(ctx, file.BucketName, file.ObjectName)

	if err := repo.Db.Delete(&model.File{}, file.ID).Error; err != nil {
		return newError(KindInternal, "delete file failed", err)
	}
	invalidateFileListCache(file.FolderID)
	return nil
}

// DuplicateFile copies a file into the target folder (nil keeps it next
// to the original) under a " (Copy)" name. The blob is copied at the
// storage level so the two entries never share an object; tags carry
// over, versions, permissions and previews do not.
func DuplicateFile(ctx context.Context, fileID, actorID uint64, targetFolderID *uint64) (*model.File, error) {
	original, err := GetFile(fileID)
	if err != nil {
		return nil, err
	}
	folderID := original.FolderID
	if targetFolderID != nil {
		if _, err := resolveParent(targetFolderID); err != nil {
			return nil, err
		}
		folderID = targetFolderID
	}

	newName, err := nextFreeName(
		func(n int) string { return copyName(original.Name, n) },
		func(candidate string) (bool, error) { return fileNameExists(folderID, candidate, 0) },
	)
	if err != nil {
		return nil, err
	}
	return copyFileRecord(ctx, original, folderID, actorID, newName)
}

// copyFileRecord clones one file entry, copying the blob to a fresh
// object name. A missing source blob does not abort the copy: the
// clone's metadata is created anyway and the gap surfaces later the
// same way any metadata/blob inconsistency does.
func copyFileRecord(ctx context.Context, src *model.File, folderID *uint64, actorID uint64, name string) (*model.File, error) {
	bucket := config.AppConfig.BucketName
	objectName := BuildObjectName(actorID)

	if storage.Default != nil && src.ObjectName != "" {
		reader, info, err := storage.Default.GetObject(ctx, src.BucketName, src.ObjectName)
		if err != nil {
			log.Printf("duplicate: source blob %s/%s unreadable: %v", src.BucketName, src.ObjectName, err)
		} else {
			putErr := storage.Default.PutObject(ctx, bucket, objectName, reader, info.Size, storage.PutOptions{ContentType: src.ContentType})
			_ = reader.Close()
			if putErr != nil {
				return nil, newError(KindStorageFault, "copy file content failed", putErr)
			}
		}
	}

	clone := &model.File{
		Name:        name,
		BucketName:  bucket,
		ObjectName:  objectName,
		Size:        src.Size,
		ContentType: src.ContentType,
		Description: src.Description,
		IsPublic:    src.IsPublic,
		OwnerID:     actorID,
	}
	clone.SetFolder(folderID)
	if err := repo.Db.Create(clone).Error; err != nil {
		removeBlob(ctx, bucket, objectName)
		if isDuplicateKey(err) {
			return nil, newError(KindNameConflict, "a file with this name already exists in the target folder", err)
		}
		return nil, newError(KindInternal, "duplicate file failed", err)
	}

	if len(src.Tags) > 0 {
		tags := make([]model.FileTag, len(src.Tags))
		copy(tags, src.Tags)
		if err := repo.Db.Model(clone).Association("Tags").Append(tags); err != nil {
			return nil, newError(KindInternal, "copy tags failed", err)
		}
	}
	invalidateFileListCache(folderID)
	return GetFile(clone.ID)
}

// DownloadFile opens the blob for streaming. A missing blob is a
// NotFound for the caller: the metadata row alone is not downloadable.
func DownloadFile(ctx context.Context, fileID uint64) (io.ReadCloser, *model.File, error) {
	file, err := GetFile(fileID)
	if err != nil {
		return nil, nil, err
	}
	if storage.Default == nil {
		return nil, nil, newError(KindStorageFault, "storage not initialized", nil)
	}
	reader, _, err := storage.Default.GetObject(ctx, file.BucketName, file.ObjectName)
	if err != nil {
		return nil, nil, newError(KindNotFound, "file content not found in storage", err)
	}
	return reader, file, nil
}

// SearchFiles matches name and description, ranking name hits first.
// Relevance beyond that ordering belongs to an external search index.
func SearchFiles(query string, limit int) ([]model.File, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newError(KindValidation, "search query is required", nil)
	}
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + query + "%"
	var files []model.File
	err := repo.Db.Preload("Tags").
		Where("name LIKE ? OR description LIKE ?", pattern, pattern).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:                "CASE WHEN name LIKE ? THEN 0 ELSE 1 END, name ASC",
				Vars:               []interface{}{pattern},
				WithoutParentheses: true,
			},
		}).
		Limit(limit).
		Find(&files).Error
	if err != nil {
		return nil, newError(KindInternal, "search files failed", err)
	}
	return files, nil
}

// ListFilesByTag returns the distinct files carrying any of the given
// tags.
func ListFilesByTag(tagIDs []uint64) ([]model.File, error) {
	if len(tagIDs) == 0 {
		return nil, newError(KindValidation, "at least one tag is required", nil)
	}
	var files []model.File
	err := repo.Db.Preload("Tags").
		Distinct("file.*").
		Joins("JOIN file_tag_link ON file_tag_link.file_id = file.id").
		Where("file_tag_link.file_tag_id IN ?", tagIDs).
		Find(&files).Error
	if err != nil {
		return nil, newError(KindInternal, "list files by tag failed", err)
	}
	return files, nil
}
