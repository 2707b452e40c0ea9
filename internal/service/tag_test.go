package service

import (
	"FileVault/internal/repo"
	"testing"
)

func TestCreateTagDefaultsAndConflicts(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "tag_create")

	tag, err := CreateTag(user.ID, "urgent", "")
	if err != nil {
		t.Fatal(err)
	}
	if tag.Color != "#808080" {
		t.Fatalf("default color = %q", tag.Color)
	}

	if _, err := CreateTag(user.ID, "urgent", "#ff0000"); !IsKind(err, KindNameConflict) {
		t.Fatalf("duplicate tag: kind = %v, want name_conflict", ErrKind(err))
	}
	if _, err := CreateTag(user.ID, "styled", "red"); !IsKind(err, KindValidation) {
		t.Fatalf("bad color: kind = %v, want validation_failure", ErrKind(err))
	}
}

func TestUpdateTag(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "tag_update")

	tag, err := CreateTag(user.ID, "draft", "#AABBCC")
	if err != nil {
		t.Fatal(err)
	}
	if tag.Color != "#aabbcc" {
		t.Fatalf("color should be normalized, got %q", tag.Color)
	}

	newName := "final"
	updated, err := UpdateTag(tag.ID, &newName, nil)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "final" || updated.Color != "#aabbcc" {
		t.Fatalf("updated tag = %+v", updated)
	}
}

func TestDeleteTagDetachesFiles(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "tag_delete")

	file := mustUploadFile(t, user.ID, nil, "tagged.txt", "data")
	keep, err := CreateTag(user.ID, "keep", "")
	if err != nil {
		t.Fatal(err)
	}
	drop, err := CreateTag(user.ID, "drop", "")
	if err != nil {
		t.Fatal(err)
	}
	tagIDs := []uint64{keep.ID, drop.ID}
	if _, err := UpdateFileMetadata(file.ID, nil, nil, &tagIDs); err != nil {
		t.Fatal(err)
	}

	if err := DeleteTag(drop.ID); err != nil {
		t.Fatal(err)
	}

	reloaded, err := GetFile(file.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Tags) != 1 || reloaded.Tags[0].ID != keep.ID {
		t.Fatalf("file tags after delete = %+v, want only %q", reloaded.Tags, keep.Name)
	}

	var links int64
	repo.Db.Table("file_tag_link").Where("file_tag_id = ?", drop.ID).Count(&links)
	if links != 0 {
		t.Fatalf("dangling tag links = %d", links)
	}
}

func TestListFilesByTag(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "tag_list")

	tagged := mustUploadFile(t, user.ID, nil, "tagged.txt", "data")
	mustUploadFile(t, user.ID, nil, "plain.txt", "data")
	tag, err := CreateTag(user.ID, "special", "")
	if err != nil {
		t.Fatal(err)
	}
	tagIDs := []uint64{tag.ID}
	if _, err := UpdateFileMetadata(tagged.ID, nil, nil, &tagIDs); err != nil {
		t.Fatal(err)
	}

	files, err := ListFilesByTag([]uint64{tag.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].ID != tagged.ID {
		t.Fatalf("files by tag = %+v, want only the tagged file", files)
	}
}
