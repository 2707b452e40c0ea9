package service

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"FileVault/model"
	"FileVault/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

func refKey(id *uint64) uint64 {
	if id == nil {
		return 0
	}
	return *id
}

// invalidateFolderListCache clears the cached listing for one parent.
func invalidateFolderListCache(parentID *uint64) {
	_ = utils.InvalidateFolderListCache(context.Background(), refKey(parentID))
}

// GetFolder loads a folder by ID.
func GetFolder(folderID uint64) (*model.Folder, error) {
	var folder model.Folder
	if err := repo.Db.First(&folder, folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "folder not found", nil)
		}
		return nil, newError(KindInternal, "load folder failed", err)
	}
	return &folder, nil
}

// resolveParent checks that the requested parent exists.
func resolveParent(parentID *uint64) (*model.Folder, error) {
	if parentID == nil {
		return nil, nil
	}
	return GetFolder(*parentID)
}

func siblingFolderExists(parentID *uint64, name string, excludeID uint64) (bool, error) {
	var count int64
	err := repo.Db.Model(&model.Folder{}).
		Where("parent_key = ? AND name = ? AND id != ?", refKey(parentID), name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, newError(KindInternal, "check folder name failed", err)
	}
	return count > 0, nil
}

// CreateFolder creates a folder under the given parent. Name validation
// and the sibling-conflict check run before the insert; the unique
// index on (parent_key, name) backs the check against concurrent
// writers.
func CreateFolder(ownerID uint64, parentID *uint64, name, description string) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if _, err := resolveParent(parentID); err != nil {
		return nil, err
	}
	exists, err := siblingFolderExists(parentID, name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newError(KindNameConflict, "a folder with this name already exists in this location", nil)
	}

	folder := &model.Folder{
		Name:        name,
		Description: description,
		CreatedByID: ownerID,
	}
	folder.SetParent(parentID)
	if err := repo.Db.Create(folder).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, newError(KindNameConflict, "a folder with this name already exists in this location", err)
		}
		return nil, newError(KindInternal, "create folder failed", err)
	}
	invalidateFolderListCache(parentID)
	return folder, nil
}

// ListFolders returns direct child folders of the given parent
// (nil parent lists roots).
func ListFolders(parentID *uint64) ([]model.Folder, error) {
	if cached, ok := utils.GetFolderListFromCache(context.Background(), refKey(parentID)); ok {
		return cached, nil
	}
	var folders []model.Folder
	if err := repo.Db.
		Where("parent_key = ?", refKey(parentID)).
		Order("name ASC").
		Find(&folders).Error; err != nil {
		return nil, newError(KindInternal, "list folders failed", err)
	}
	_ = utils.SetFolderListToCache(context.Background(), refKey(parentID), folders, config.AppConfig.ListCacheExpiration)
	return folders, nil
}

// RenameFolder renames a folder in place. A validation failure leaves
// the folder untouched.
func RenameFolder(folderID uint64, newName string) (*model.Folder, error) {
	newName = strings.TrimSpace(newName)
	if err := ValidateName(newName); err != nil {
		return nil, err
	}
	folder, err := GetFolder(folderID)
	if err != nil {
		return nil, err
	}
	exists, err := siblingFolderExists(folder.ParentID, newName, folder.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newError(KindNameConflict, "a folder with this name already exists in this location", nil)
	}
	if err := repo.Db.Model(folder).Update("name", newName).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, newError(KindNameConflict, "a folder with this name already exists in this location", err)
		}
		return nil, newError(KindInternal, "rename folder failed", err)
	}
	folder.Name = newName
	invalidateFolderListCache(folder.ParentID)
	return folder, nil
}

// UpdateFolderDescription updates the free-form description only.
func UpdateFolderDescription(folderID uint64, description string) (*model.Folder, error) {
	folder, err := GetFolder(folderID)
	if err != nil {
		return nil, err
	}
	if err := repo.Db.Model(folder).Update("description", description).Error; err != nil {
		return nil, newError(KindInternal, "update folder failed", err)
	}
	folder.Description = description
	return folder, nil
}

// isDescendantFolder reports whether candidate sits anywhere below
// ancestor, walking parent pointers with a depth guard so a corrupted
// tree cannot loop forever.
func isDescendantFolder(candidateID, ancestorID uint64) (bool, error) {
	current := candidateID
	for depth := 0; depth < config.AppConfig.TreeDepthLimit; depth++ {
		var folder model.Folder
		if err := repo.Db.Select("id", "parent_id").First(&folder, current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, newError(KindInternal, "walk folder ancestors failed", err)
		}
		if folder.ParentID == nil {
			return false, nil
		}
		if *folder.ParentID == ancestorID {
			return true, nil
		}
		current = *folder.ParentID
	}
	return false, newError(KindInternal, "folder tree exceeds depth limit", nil)
}

// MoveFolder reparents a folder. Moving a folder into itself or any of
// its descendants is rejected before anything is written.
func MoveFolder(folderID uint64, newParentID *uint64) (*model.Folder, error) {
	folder, err := GetFolder(folderID)
	if err != nil {
		return nil, err
	}
	if newParentID != nil {
		if *newParentID == folderID {
			return nil, newError(KindCycleDetected, "cannot move a folder into itself", nil)
		}
		if _, err := resolveParent(newParentID); err != nil {
			return nil, err
		}
		descendant, err := isDescendantFolder(*newParentID, folderID)
		if err != nil {
			return nil, err
		}
		if descendant {
			return nil, newError(KindCycleDetected, "cannot move a folder into its own subtree", nil)
		}
	}
	exists, err := siblingFolderExists(newParentID, folder.Name, folder.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newError(KindNameConflict, "a folder with this name already exists in the target location", nil)
	}

	oldParentID := folder.ParentID
	folder.SetParent(newParentID)
	if err := repo.Db.Model(folder).
		Updates(map[string]interface{}{"parent_id": folder.ParentID, "parent_key": folder.ParentKey}).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, newError(KindNameConflict, "a folder with this name already exists in the target location", err)
		}
		return nil, newError(KindInternal, "move folder failed", err)
	}
	invalidateFolderListCache(oldParentID)
	invalidateFolderListCache(newParentID)
	return folder, nil
}

// FolderFullPath builds "root/.../name" by walking ancestors; used for
// archive entry naming.
func FolderFullPath(folderID uint64) (string, error) {
	segments := make([]string, 0, 8)
	current := folderID
	for depth := 0; depth < config.AppConfig.TreeDepthLimit; depth++ {
		folder, err := GetFolder(current)
		if err != nil {
			return "", err
		}
		segments = append(segments, folder.Name)
		if folder.ParentID == nil {
			for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
				segments[i], segments[j] = segments[j], segments[i]
			}
			return strings.Join(segments, "/"), nil
		}
		current = *folder.ParentID
	}
	return "", newError(KindInternal, "folder tree exceeds depth limit", nil)
}

// DeleteFolderRecursive deletes a folder subtree: files before child
// folders, children before parents. Individual file failures are
// collected rather than aborting the walk; the caller gets a single
// PartialFailure listing everything that survived.
func DeleteFolderRecursive(ctx context.Context, folderID uint64) error {
	root, err := GetFolder(folderID)
	if err != nil {
		return err
	}

	var failures []string
	deleteContents(ctx, root.ID, &failures, 0)

	if err := repo.Db.Delete(&model.Folder{}, root.ID).Error; err != nil {
		failures = append(failures, fmt.Sprintf("folder %d: %v", root.ID, err))
	}
	invalidateFolderListCache(root.ParentID)

	if len(failures) > 0 {
		return newErrorWithData(KindPartialFailure,
			fmt.Sprintf("folder delete finished with %d failed items", len(failures)),
			failures, nil)
	}
	return nil
}

// deleteContents removes every file and child folder below folderID,
// depth-first, accumulating per-item failures.
func deleteContents(ctx context.Context, folderID uint64, failures *[]string, depth int) {
	if depth >= config.AppConfig.TreeDepthLimit {
		*failures = append(*failures, fmt.Sprintf("folder %d: depth limit reached", folderID))
		return
	}

	var files []model.File
	if err := repo.Db.Where("folder_key = ?", folderID).Find(&files).Error; err != nil {
		*failures = append(*failures, fmt.Sprintf("folder %d: list files: %v", folderID, err))
	} else {
		for _, file := range files {
			if err := DeleteFile(ctx, file.ID); err != nil {
				log.Printf("recursive delete: file %d (%s): %v", file.ID, file.Name, err)
				*failures = append(*failures, fmt.Sprintf("file %s: %v", file.Name, err))
			}
		}
	}

	var children []model.Folder
	if err := repo.Db.Where("parent_key = ?", folderID).Find(&children).Error; err != nil {
		*failures = append(*failures, fmt.Sprintf("folder %d: list children: %v", folderID, err))
		return
	}
	for _, child := range children {
		deleteContents(ctx, child.ID, failures, depth+1)
		if err := repo.Db.Delete(&model.Folder{}, child.ID).Error; err != nil {
			*failures = append(*failures, fmt.Sprintf("folder %s: %v", child.Name, err))
		}
	}
}

// DuplicateFolder copies a folder next to itself under a " (Copy)"
// name. The whole subtree is copied: direct files and nested subfolders
// alike, matching what archive export walks. File blobs are copied to
// fresh objects; versions, permissions and previews stay behind.
func DuplicateFolder(ctx context.Context, folderID, actorID uint64) (*model.Folder, error) {
	original, err := GetFolder(folderID)
	if err != nil {
		return nil, err
	}

	newName, err := nextFreeName(
		func(n int) string { return copyName(original.Name, n) },
		func(name string) (bool, error) { return siblingFolderExists(original.ParentID, name, 0) },
	)
	if err != nil {
		return nil, err
	}

	clone, err := CreateFolder(actorID, original.ParentID, newName, original.Description)
	if err != nil {
		return nil, err
	}
	if err := duplicateFolderContents(ctx, original.ID, clone.ID, actorID, 0); err != nil {
		return nil, err
	}
	return clone, nil
}

func duplicateFolderContents(ctx context.Context, srcFolderID, dstFolderID, actorID uint64, depth int) error {
	if depth >= config.AppConfig.TreeDepthLimit {
		return newError(KindInternal, "folder tree exceeds depth limit", nil)
	}

	var files []model.File
	if err := repo.Db.Preload("Tags").Where("folder_key = ?", srcFolderID).Find(&files).Error; err != nil {
		return newError(KindInternal, "list files failed", err)
	}
	for _, file := range files {
		if _, err := copyFileRecord(ctx, &file, &dstFolderID, actorID, file.Name); err != nil {
			return err
		}
	}

	var children []model.Folder
	if err := repo.Db.Where("parent_key = ?", srcFolderID).Find(&children).Error; err != nil {
		return newError(KindInternal, "list folders failed", err)
	}
	for _, child := range children {
		clone, err := CreateFolder(actorID, &dstFolderID, child.Name, child.Description)
		if err != nil {
			return err
		}
		if err := duplicateFolderContents(ctx, child.ID, clone.ID, actorID, depth+1); err != nil {
			return err
		}
	}
	return nil
}
