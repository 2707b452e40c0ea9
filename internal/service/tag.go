package service

import (
	"FileVault/internal/repo"
	"FileVault/model"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const defaultTagColor = "#808080"

func validateTagColor(color string) (string, error) {
	if color == "" {
		return defaultTagColor, nil
	}
	if !hexColorPattern.MatchString(color) {
		return "", newError(KindValidation, "color must be a #RRGGBB value", nil)
	}
	return strings.ToLower(color), nil
}

// CreateTag registers a tag. Tag names are unique across the system,
// not per user.
func CreateTag(actorID uint64, name, color string) (*model.FileTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(KindValidation, "tag name is required", nil)
	}
	color, err := validateTagColor(color)
	if err != nil {
		return nil, err
	}
	tag := &model.FileTag{
		Name:        name,
		Color:       color,
		CreatedByID: actorID,
	}
	if err := repo.Db.Create(tag).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, newError(KindNameConflict, "a tag with this name already exists", err)
		}
		return nil, newError(KindInternal, "create tag failed", err)
	}
	return tag, nil
}

// GetTag loads a tag by ID.
func GetTag(tagID uint64) (*model.FileTag, error) {
	var tag model.FileTag
	if err := repo.Db.First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "tag not found", nil)
		}
		return nil, newError(KindInternal, "load tag failed", err)
	}
	return &tag, nil
}

// ListTags returns every registered tag ordered by name.
func ListTags() ([]model.FileTag, error) {
	var tags []model.FileTag
	if err := repo.Db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, newError(KindInternal, "list tags failed", err)
	}
	return tags, nil
}

// UpdateTag renames or recolors a tag. Nil fields stay untouched.
func UpdateTag(tagID uint64, name *string, color *string) (*model.FileTag, error) {
	tag, err := GetTag(tagID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, newError(KindValidation, "tag name is required", nil)
		}
		updates["name"] = trimmed
	}
	if color != nil {
		valid, err := validateTagColor(*color)
		if err != nil {
			return nil, err
		}
		updates["color"] = valid
	}
	if len(updates) == 0 {
		return tag, nil
	}
	if err := repo.Db.Model(tag).Updates(updates).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, newError(KindNameConflict, "a tag with this name already exists", err)
		}
		return nil, newError(KindInternal, "update tag failed", err)
	}
	return GetTag(tagID)
}

// DeleteTag removes a tag and detaches it from every file. Files keep
// their other tags.
func DeleteTag(tagID uint64) error {
	tag, err := GetTag(tagID)
	if err != nil {
		return err
	}
	return repo.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM file_tag_link WHERE file_tag_id = ?", tag.ID).Error; err != nil {
			return newError(KindInternal, "detach tag failed", err)
		}
		if err := tx.Delete(&model.FileTag{}, tag.ID).Error; err != nil {
			return newError(KindInternal, "delete tag failed", err)
		}
		return nil
	})
}
