package service

import (
	"FileVault/internal/repo"
	"FileVault/model"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

func TestParseConflictPolicy(t *testing.T) {
	cases := map[string]ConflictPolicy{
		"":            ConflictReject,
		"reject":      ConflictReject,
		"REPLACE":     ConflictReplace,
		" duplicate ": ConflictDuplicate,
	}
	for raw, want := range cases {
		got, err := ParseConflictPolicy(raw)
		if err != nil {
			t.Fatalf("ParseConflictPolicy(%q) failed: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseConflictPolicy(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParseConflictPolicy("merge"); !IsKind(err, KindValidation) {
		t.Fatalf("unknown policy: kind = %v, want validation_failure", ErrKind(err))
	}
}

func uploadString(ownerID uint64, folderID *uint64, name, content string, policy ConflictPolicy) (*model.File, bool, error) {
	return UploadFile(
		context.Background(),
		ownerID,
		folderID,
		name,
		bytes.NewReader([]byte(content)),
		int64(len(content)),
		"text/plain",
		policy,
	)
}

func readBlob(t *testing.T, file *model.File) string {
	t.Helper()
	reader, _, err := DownloadFile(context.Background(), file.ID)
	if err != nil {
		t.Fatalf("download %q failed: %v", file.Name, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestUploadRejectPolicy(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "upload_reject")

	mustUploadFile(t, user.ID, nil, "report.pdf", "v1")
	_, _, err := uploadString(user.ID, nil, "report.pdf", "v2", ConflictReject)
	if !IsKind(err, KindNameConflict) {
		t.Fatalf("reject policy: kind = %v, want name_conflict", ErrKind(err))
	}

	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Data == nil {
		t.Fatal("conflict error should carry the available policies")
	}
}

func TestUploadReplacePolicy(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "upload_replace")
	other := createTestUser(t, "upload_replace_other")

	original := mustUploadFile(t, user.ID, nil, "notes.txt", "old content")
	replaced, wasReplaced, err := uploadString(other.ID, nil, "notes.txt", "new content", ConflictReplace)
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if !wasReplaced {
		t.Fatal("replace should report an in-place overwrite")
	}
	if replaced.ID != original.ID {
		t.Fatalf("replace created a new entry: id %d != %d", replaced.ID, original.ID)
	}
	if got := readBlob(t, replaced); got != "new content" {
		t.Fatalf("blob after replace = %q", got)
	}

	var count int64
	repo.Db.Model(&model.File{}).Where("folder_key = 0").Count(&count)
	if count != 1 {
		t.Fatalf("file rows = %d, want 1", count)
	}
}

func TestUploadDuplicatePolicyNumbersNames(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "upload_duplicate")

	mustUploadFile(t, user.ID, nil, "report.pdf", "v1")

	first, _, err := uploadString(user.ID, nil, "report.pdf", "v2", ConflictDuplicate)
	if err != nil {
		t.Fatal(err)
	}
	if first.Name != "report (1).pdf" {
		t.Fatalf("first duplicate name = %q, want %q", first.Name, "report (1).pdf")
	}

	second, _, err := uploadString(user.ID, nil, "report.pdf", "v3", ConflictDuplicate)
	if err != nil {
		t.Fatal(err)
	}
	if second.Name != "report (2).pdf" {
		t.Fatalf("second duplicate name = %q, want %q", second.Name, "report (2).pdf")
	}
}

func TestRenameFileConflict(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "file_rename")

	mustUploadFile(t, user.ID, nil, "a.txt", "a")
	b := mustUploadFile(t, user.ID, nil, "b.txt", "b")

	if _, err := RenameFile(b.ID, "a.txt"); !IsKind(err, KindNameConflict) {
		t.Fatalf("rename onto sibling: kind = %v, want name_conflict", ErrKind(err))
	}
	renamed, err := RenameFile(b.ID, "c.txt")
	if err != nil {
		t.Fatal(err)
	}
	if renamed.Name != "c.txt" {
		t.Fatalf("renamed name = %q", renamed.Name)
	}
	// The blob is untouched by a metadata rename.
	if got := readBlob(t, renamed); got != "b" {
		t.Fatalf("blob after rename = %q", got)
	}
}

func TestMoveFileBetweenFolders(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "file_move")

	src := mustCreateFolder(t, user.ID, nil, "Src")
	dst := mustCreateFolder(t, user.ID, nil, "Dst")
	mustUploadFile(t, user.ID, &dst.ID, "doc.txt", "already there")
	file := mustUploadFile(t, user.ID, &src.ID, "doc.txt", "moving")

	if _, err := MoveFile(file.ID, &dst.ID); !IsKind(err, KindNameConflict) {
		t.Fatalf("move onto conflict: kind = %v, want name_conflict", ErrKind(err))
	}

	moved, err := MoveFile(file.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if moved.FolderID != nil {
		t.Fatalf("moved file folder = %v, want nil", moved.FolderID)
	}
}

func TestDeleteFileCascades(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "file_delete")
	grantee := createTestUser(t, "file_delete_grantee")

	file := mustUploadFile(t, user.ID, nil, "doomed.txt", "payload")
	if _, err := AddVersion(context.Background(), file.ID, user.ID, bytes.NewReader([]byte("snap")), 4, "snapshot"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := GrantPermission(file.ID, grantee.ID, user.ID, model.PermissionRead, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := UpsertPreview(file.ID, "", "", `{"kind":"text"}`); err != nil {
		t.Fatal(err)
	}

	if err := DeleteFile(context.Background(), file.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := GetFile(file.ID); !IsKind(err, KindNotFound) {
		t.Fatal("file row survived delete")
	}
	var versions, permissions, previews int64
	repo.Db.Model(&model.FileVersion{}).Where("file_id = ?", file.ID).Count(&versions)
	repo.Db.Model(&model.FilePermission{}).Where("file_id = ?", file.ID).Count(&permissions)
	repo.Db.Model(&model.FilePreview{}).Where("file_id = ?", file.ID).Count(&previews)
	if versions+permissions+previews != 0 {
		t.Fatalf("leftovers after delete: versions=%d permissions=%d previews=%d", versions, permissions, previews)
	}
	if testStore.Len() != 0 {
		t.Fatalf("%d blobs survived delete", testStore.Len())
	}
}

func TestDuplicateFileCopiesTagsNotHistory(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "file_dup")
	grantee := createTestUser(t, "file_dup_grantee")

	file := mustUploadFile(t, user.ID, nil, "design.png", "pixels")
	tag, err := CreateTag(user.ID, "artwork", "")
	if err != nil {
		t.Fatal(err)
	}
	tagIDs := []uint64{tag.ID}
	if _, err := UpdateFileMetadata(file.ID, nil, nil, &tagIDs); err != nil {
		t.Fatal(err)
	}
	if _, err := AddVersion(context.Background(), file.ID, user.ID, bytes.NewReader([]byte("old")), 3, "old"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := GrantPermission(file.ID, grantee.ID, user.ID, model.PermissionWrite, nil); err != nil {
		t.Fatal(err)
	}

	clone, err := DuplicateFile(context.Background(), file.ID, user.ID, nil)
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if clone.Name != "design (Copy).png" {
		t.Fatalf("clone name = %q, want %q", clone.Name, "design (Copy).png")
	}
	if clone.ObjectName == file.ObjectName {
		t.Fatal("clone shares the original blob")
	}
	if got := readBlob(t, clone); got != "pixels" {
		t.Fatalf("clone blob = %q", got)
	}
	if len(clone.Tags) != 1 || clone.Tags[0].ID != tag.ID {
		t.Fatalf("clone tags = %+v, want the original tag", clone.Tags)
	}

	var versions, permissions int64
	repo.Db.Model(&model.FileVersion{}).Where("file_id = ?", clone.ID).Count(&versions)
	repo.Db.Model(&model.FilePermission{}).Where("file_id = ?", clone.ID).Count(&permissions)
	if versions != 0 || permissions != 0 {
		t.Fatalf("clone inherited history: versions=%d permissions=%d", versions, permissions)
	}
}

func TestDownloadMissingBlobIsNotFound(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "file_missing_blob")

	file := mustUploadFile(t, user.ID, nil, "ghost.txt", "soon gone")
	if err := testStore.RemoveObject(context.Background(), file.BucketName, file.ObjectName); err != nil {
		t.Fatal(err)
	}

	_, _, err := DownloadFile(context.Background(), file.ID)
	if !IsKind(err, KindNotFound) {
		t.Fatalf("missing blob download: kind = %v, want not_found", ErrKind(err))
	}
	// The metadata row still exists and is still listable.
	if _, err := GetFile(file.ID); err != nil {
		t.Fatalf("metadata row should survive a missing blob: %v", err)
	}
}

func TestSearchFilesRanksNameMatchesFirst(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "file_search")

	budget := mustUploadFile(t, user.ID, nil, "budget.xlsx", "numbers")
	about := mustUploadFile(t, user.ID, nil, "about.txt", "nothing")
	desc := "annual budget overview"
	if _, err := UpdateFileMetadata(about.ID, &desc, nil, nil); err != nil {
		t.Fatal(err)
	}

	results, err := SearchFiles("budget", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("search results = %d, want 2", len(results))
	}
	if results[0].ID != budget.ID {
		t.Fatalf("name match should rank first, got %q", results[0].Name)
	}
}
