package service

import (
	"FileVault/internal/repo"
	"FileVault/model"
	"testing"
	"time"
)

func TestGrantPermissionUpserts(t *testing.T) {
	cleanTables(t)
	owner := createTestUser(t, "perm_owner")
	grantee := createTestUser(t, "perm_grantee")
	file := mustUploadFile(t, owner.ID, nil, "shared.txt", "data")

	first, created, err := GrantPermission(file.ID, grantee.ID, owner.ID, model.PermissionRead, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("first grant should be reported as created")
	}
	if first.PermissionType != model.PermissionRead {
		t.Fatalf("grant type = %q", first.PermissionType)
	}

	second, created, err := GrantPermission(file.ID, grantee.ID, owner.ID, model.PermissionWrite, nil)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("re-grant should be reported as updated")
	}
	if second.PermissionType != model.PermissionWrite {
		t.Fatalf("updated type = %q, want write", second.PermissionType)
	}

	var count int64
	repo.Db.Model(&model.FilePermission{}).
		Where("file_id = ? AND user_id = ?", file.ID, grantee.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("permission rows = %d, want 1", count)
	}
}

func TestGrantPermissionValidation(t *testing.T) {
	cleanTables(t)
	owner := createTestUser(t, "perm_validation")
	file := mustUploadFile(t, owner.ID, nil, "shared.txt", "data")

	if _, _, err := GrantPermission(file.ID, owner.ID, owner.ID, "superuser", nil); !IsKind(err, KindValidation) {
		t.Fatalf("bad type: kind = %v, want validation_failure", ErrKind(err))
	}
	if _, _, err := GrantPermission(file.ID, 999999, owner.ID, model.PermissionRead, nil); !IsKind(err, KindNotFound) {
		t.Fatalf("missing user: kind = %v, want not_found", ErrKind(err))
	}
}

func TestExpiredGrantIsInactiveButListed(t *testing.T) {
	cleanTables(t)
	owner := createTestUser(t, "perm_expiry")
	grantee := createTestUser(t, "perm_expiry_grantee")
	file := mustUploadFile(t, owner.ID, nil, "shared.txt", "data")

	past := time.Now().Add(-time.Hour)
	if _, _, err := GrantPermission(file.ID, grantee.ID, owner.ID, model.PermissionRead, &past); err != nil {
		t.Fatal(err)
	}

	active, err := HasActivePermission(file.ID, grantee.ID, model.PermissionRead)
	if err != nil {
		t.Fatal(err)
	}
	if active {
		t.Fatal("expired grant should not authorize")
	}

	listed, err := ListPermissions(file.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed grants = %d, want 1 (expired rows stay visible)", len(listed))
	}
	if !listed[0].IsExpired(time.Now()) {
		t.Fatal("listed grant should report as expired")
	}
}

func TestPermissionRanking(t *testing.T) {
	cleanTables(t)
	owner := createTestUser(t, "perm_rank")
	grantee := createTestUser(t, "perm_rank_grantee")
	file := mustUploadFile(t, owner.ID, nil, "shared.txt", "data")

	if _, _, err := GrantPermission(file.ID, grantee.ID, owner.ID, model.PermissionWrite, nil); err != nil {
		t.Fatal(err)
	}

	canRead, err := HasActivePermission(file.ID, grantee.ID, model.PermissionRead)
	if err != nil {
		t.Fatal(err)
	}
	if !canRead {
		t.Fatal("write grant should satisfy a read check")
	}
	canAdmin, err := HasActivePermission(file.ID, grantee.ID, model.PermissionAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if canAdmin {
		t.Fatal("write grant should not satisfy an admin check")
	}
}

func TestOwnerAndPublicAccess(t *testing.T) {
	cleanTables(t)
	owner := createTestUser(t, "perm_owner_access")
	stranger := createTestUser(t, "perm_stranger")
	file := mustUploadFile(t, owner.ID, nil, "shared.txt", "data")

	canAdmin, err := HasActivePermission(file.ID, owner.ID, model.PermissionAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if !canAdmin {
		t.Fatal("owner should always pass")
	}

	canRead, err := HasActivePermission(file.ID, stranger.ID, model.PermissionRead)
	if err != nil {
		t.Fatal(err)
	}
	if canRead {
		t.Fatal("stranger should not read a private file")
	}

	public := true
	if _, err := UpdateFileMetadata(file.ID, nil, &public, nil); err != nil {
		t.Fatal(err)
	}
	canRead, err = HasActivePermission(file.ID, stranger.ID, model.PermissionRead)
	if err != nil {
		t.Fatal(err)
	}
	if !canRead {
		t.Fatal("public file should grant read to everyone")
	}
	canWrite, err := HasActivePermission(file.ID, stranger.ID, model.PermissionWrite)
	if err != nil {
		t.Fatal(err)
	}
	if canWrite {
		t.Fatal("public visibility must not grant write")
	}
}

func TestRevokePermission(t *testing.T) {
	cleanTables(t)
	owner := createTestUser(t, "perm_revoke")
	grantee := createTestUser(t, "perm_revoke_grantee")
	file := mustUploadFile(t, owner.ID, nil, "shared.txt", "data")

	if _, _, err := GrantPermission(file.ID, grantee.ID, owner.ID, model.PermissionRead, nil); err != nil {
		t.Fatal(err)
	}
	if err := RevokePermission(file.ID, grantee.ID); err != nil {
		t.Fatal(err)
	}
	if err := RevokePermission(file.ID, grantee.ID); !IsKind(err, KindNotFound) {
		t.Fatalf("double revoke: kind = %v, want not_found", ErrKind(err))
	}
}
