package service

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/model"
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testStore *storage.MemoryStore

func TestMain(m *testing.M) {
	config.InitConfig()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("open test database: %v", err)
	}
	repo.AutoMigrateAll(db)
	repo.Db = db

	os.Exit(m.Run())
}

func cleanTables(t *testing.T) {
	t.Helper()
	tables := []string{
		"file_tag_link", "file_preview", "file_permission", "file_version",
		"file", "file_tag", "folder", "user_db",
	}
	for _, table := range tables {
		if err := repo.Db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s failed: %v", table, err)
		}
	}
	testStore = storage.NewMemoryStore()
	storage.Default = testStore
}

func createTestUser(t *testing.T, prefix string) *model.User {
	t.Helper()
	suffix := time.Now().UnixNano()
	user := &model.User{
		UserName: fmt.Sprintf("%s_%d", prefix, suffix),
		Email:    fmt.Sprintf("%s_%d@test.com", prefix, suffix),
		IsActive: true,
	}
	if err := repo.Db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func mustCreateFolder(t *testing.T, ownerID uint64, parentID *uint64, name string) *model.Folder {
	t.Helper()
	folder, err := CreateFolder(ownerID, parentID, name, "")
	if err != nil {
		t.Fatalf("create folder %q failed: %v", name, err)
	}
	return folder
}

func mustUploadFile(t *testing.T, ownerID uint64, folderID *uint64, name, content string) *model.File {
	t.Helper()
	file, replaced, err := UploadFile(
		context.Background(),
		ownerID,
		folderID,
		name,
		bytes.NewReader([]byte(content)),
		int64(len(content)),
		"text/plain",
		ConflictReject,
	)
	if err != nil {
		t.Fatalf("upload %q failed: %v", name, err)
	}
	if replaced {
		t.Fatalf("upload %q unexpectedly replaced an existing file", name)
	}
	return file
}
