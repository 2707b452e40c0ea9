package service

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func buildArchive(t *testing.T, folderID uint64) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if err := BuildFolderArchive(context.Background(), folderID, zw); err != nil {
		t.Fatalf("build archive failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	return reader
}

func archiveEntryContent(t *testing.T, reader *zip.Reader, name string) (string, bool) {
	t.Helper()
	for _, entry := range reader.File {
		if entry.Name != name {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(data), true
	}
	return "", false
}

func TestFolderArchiveMirrorsTree(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "archive_tree")

	a := mustCreateFolder(t, user.ID, nil, "A")
	b := mustCreateFolder(t, user.ID, &a.ID, "B")
	mustUploadFile(t, user.ID, &a.ID, "top.txt", "top content")
	mustUploadFile(t, user.ID, &b.ID, "deep.txt", "deep content")

	reader := buildArchive(t, a.ID)

	if content, ok := archiveEntryContent(t, reader, "A/top.txt"); !ok || content != "top content" {
		t.Fatalf("A/top.txt = %q, ok=%v", content, ok)
	}
	if content, ok := archiveEntryContent(t, reader, "A/B/deep.txt"); !ok || content != "deep content" {
		t.Fatalf("A/B/deep.txt = %q, ok=%v", content, ok)
	}
}

func TestFolderArchiveMissingBlobPlaceholder(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "archive_missing")

	a := mustCreateFolder(t, user.ID, nil, "A")
	healthy := mustUploadFile(t, user.ID, &a.ID, "ok.txt", "fine")
	ghost := mustUploadFile(t, user.ID, &a.ID, "lost.pdf", "gone soon")
	if err := testStore.RemoveObject(context.Background(), ghost.BucketName, ghost.ObjectName); err != nil {
		t.Fatal(err)
	}

	reader := buildArchive(t, a.ID)

	if content, ok := archiveEntryContent(t, reader, "A/ok.txt"); !ok || content != "fine" {
		t.Fatalf("healthy entry = %q, ok=%v", content, ok)
	}
	placeholder, ok := archiveEntryContent(t, reader, "A/MISSING_lost.pdf.txt")
	if !ok {
		t.Fatal("expected a MISSING_ placeholder for the lost blob")
	}
	if !strings.Contains(placeholder, "lost.pdf") {
		t.Fatalf("placeholder does not name the file: %q", placeholder)
	}
	if _, ok := archiveEntryContent(t, reader, "A/lost.pdf"); ok {
		t.Fatal("lost file should not appear under its own name")
	}
	// The export never deletes metadata.
	if _, err := GetFile(healthy.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := GetFile(ghost.ID); err != nil {
		t.Fatal(err)
	}
}

func TestFolderArchiveEmptyFolderHasDirEntry(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "archive_empty")

	a := mustCreateFolder(t, user.ID, nil, "A")
	mustCreateFolder(t, user.ID, &a.ID, "Empty")

	reader := buildArchive(t, a.ID)
	found := false
	for _, entry := range reader.File {
		if entry.Name == "A/Empty/" {
			found = true
		}
	}
	if !found {
		t.Fatal("empty folder should still appear in the archive")
	}
}
