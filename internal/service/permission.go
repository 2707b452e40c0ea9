package service

import (
	"FileVault/internal/repo"
	"FileVault/model"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrantPermission grants or re-grants a user access to a file. One row
// exists per (file, user): granting again overwrites the permission
// type, grantor and expiry instead of stacking rows. The returned bool
// is true when a new grant was created rather than updated.
func GrantPermission(
	fileID uint64,
	userID uint64,
	grantedByID uint64,
	permissionType string,
	expiresAt *time.Time,
) (*model.FilePermission, bool, error) {
	if !model.ValidPermissionType(permissionType) {
		return nil, false, newError(KindValidation,
			fmt.Sprintf("unknown permission type %q", permissionType), nil)
	}
	if _, err := GetFile(fileID); err != nil {
		return nil, false, err
	}
	var user model.User
	if err := repo.Db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, newError(KindNotFound, "user not found", nil)
		}
		return nil, false, newError(KindInternal, "load user failed", err)
	}

	var existing int64
	if err := repo.Db.Model(&model.FilePermission{}).
		Where("file_id = ? AND user_id = ?", fileID, userID).
		Count(&existing).Error; err != nil {
		return nil, false, newError(KindInternal, "check permission failed", err)
	}

	permission := &model.FilePermission{
		FileID:         fileID,
		UserID:         userID,
		PermissionType: permissionType,
		GrantedByID:    grantedByID,
		GrantedAt:      time.Now(),
		ExpiresAt:      expiresAt,
	}
	err := repo.Db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "file_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"permission_type", "granted_by", "granted_at", "expires_at",
		}),
	}).Create(permission).Error
	if err != nil {
		return nil, false, newError(KindInternal, "grant permission failed", err)
	}

	var saved model.FilePermission
	if err := repo.Db.Where("file_id = ? AND user_id = ?", fileID, userID).
		First(&saved).Error; err != nil {
		return nil, false, newError(KindInternal, "load permission failed", err)
	}
	return &saved, existing == 0, nil
}

// ListPermissions returns all grants on a file, including expired ones;
// expiry is reported, not hidden, so an admin can see stale grants.
func ListPermissions(fileID uint64) ([]model.FilePermission, error) {
	if _, err := GetFile(fileID); err != nil {
		return nil, err
	}
	var permissions []model.FilePermission
	if err := repo.Db.Where("file_id = ?", fileID).
		Order("granted_at DESC").
		Find(&permissions).Error; err != nil {
		return nil, newError(KindInternal, "list permissions failed", err)
	}
	return permissions, nil
}

// RevokePermission removes a user's grant on a file.
func RevokePermission(fileID, userID uint64) error {
	result := repo.Db.Where("file_id = ? AND user_id = ?", fileID, userID).
		Delete(&model.FilePermission{})
	if result.Error != nil {
		return newError(KindInternal, "revoke permission failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return newError(KindNotFound, "permission not found", nil)
	}
	return nil
}

// permissionRank orders permission types by strength, so a Write grant
// also satisfies a Read check.
func permissionRank(permissionType string) int {
	switch permissionType {
	case model.PermissionRead:
		return 1
	case model.PermissionWrite:
		return 2
	case model.PermissionAdmin:
		return 3
	}
	return 0
}

// HasActivePermission reports whether a user may act on a file with at
// least the required permission type. The owner always may; a public
// file grants Read to everyone; otherwise an unexpired grant of equal
// or higher rank is required.
func HasActivePermission(fileID, userID uint64, required string) (bool, error) {
	if !model.ValidPermissionType(required) {
		return false, newError(KindValidation,
			fmt.Sprintf("unknown permission type %q", required), nil)
	}
	file, err := GetFile(fileID)
	if err != nil {
		return false, err
	}
	if file.OwnerID == userID {
		return true, nil
	}
	if file.IsPublic && required == model.PermissionRead {
		return true, nil
	}

	var permission model.FilePermission
	err = repo.Db.Where("file_id = ? AND user_id = ?", fileID, userID).
		First(&permission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, newError(KindInternal, "load permission failed", err)
	}
	if !permission.IsActive(time.Now()) {
		return false, nil
	}
	return permissionRank(permission.PermissionType) >= permissionRank(required), nil
}
