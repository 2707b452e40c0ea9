package service

import (
	"context"
	"testing"
)

func TestCreateFolderRejectsSiblingConflict(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "folder_conflict")

	mustCreateFolder(t, user.ID, nil, "Docs")
	_, err := CreateFolder(user.ID, nil, "Docs", "")
	if !IsKind(err, KindNameConflict) {
		t.Fatalf("duplicate root folder: kind = %v, want name_conflict", ErrKind(err))
	}

	// The same name is fine under a different parent.
	parent := mustCreateFolder(t, user.ID, nil, "Other")
	if _, err := CreateFolder(user.ID, &parent.ID, "Docs", ""); err != nil {
		t.Fatalf("same name under different parent failed: %v", err)
	}
}

func TestCreateFolderMissingParent(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "folder_missing_parent")

	missing := uint64(424242)
	_, err := CreateFolder(user.ID, &missing, "Orphan", "")
	if !IsKind(err, KindNotFound) {
		t.Fatalf("missing parent: kind = %v, want not_found", ErrKind(err))
	}
}

func TestRenameFolderConflictLeavesNameUntouched(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "folder_rename")

	mustCreateFolder(t, user.ID, nil, "A")
	b := mustCreateFolder(t, user.ID, nil, "B")

	if _, err := RenameFolder(b.ID, "A"); !IsKind(err, KindNameConflict) {
		t.Fatalf("rename onto sibling: kind = %v, want name_conflict", ErrKind(err))
	}
	if _, err := RenameFolder(b.ID, "B/2"); !IsKind(err, KindInvalidName) {
		t.Fatalf("rename to invalid: kind = %v, want invalid_name", ErrKind(err))
	}

	reloaded, err := GetFolder(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Name != "B" {
		t.Fatalf("failed rename mutated the folder: name = %q", reloaded.Name)
	}
}

func TestMoveFolderCycleRejected(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "folder_cycle")

	a := mustCreateFolder(t, user.ID, nil, "A")
	b := mustCreateFolder(t, user.ID, &a.ID, "B")
	c := mustCreateFolder(t, user.ID, &b.ID, "C")

	if _, err := MoveFolder(a.ID, &a.ID); !IsKind(err, KindCycleDetected) {
		t.Fatalf("move into self: kind = %v, want cycle_detected", ErrKind(err))
	}
	if _, err := MoveFolder(a.ID, &c.ID); !IsKind(err, KindCycleDetected) {
		t.Fatalf("move into own subtree: kind = %v, want cycle_detected", ErrKind(err))
	}

	// A legal reparent still works afterwards.
	if _, err := MoveFolder(c.ID, &a.ID); err != nil {
		t.Fatalf("legal move failed: %v", err)
	}
	moved, err := GetFolder(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if moved.ParentID == nil || *moved.ParentID != a.ID {
		t.Fatalf("folder C parent = %v, want %d", moved.ParentID, a.ID)
	}
}

func TestMoveFolderToRootConflicts(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "folder_move_root")

	a := mustCreateFolder(t, user.ID, nil, "Shared")
	nested := mustCreateFolder(t, user.ID, &a.ID, "Shared")

	if _, err := MoveFolder(nested.ID, nil); !IsKind(err, KindNameConflict) {
		t.Fatalf("move to conflicting root: kind = %v, want name_conflict", ErrKind(err))
	}
}

func TestFolderFullPath(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "folder_path")

	a := mustCreateFolder(t, user.ID, nil, "A")
	b := mustCreateFolder(t, user.ID, &a.ID, "B")
	c := mustCreateFolder(t, user.ID, &b.ID, "C")

	path, err := FolderFullPath(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if path != "A/B/C" {
		t.Fatalf("full path = %q, want %q", path, "A/B/C")
	}
}

func TestDeleteFolderRecursive(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "folder_delete")

	root := mustCreateFolder(t, user.ID, nil, "Root")
	child := mustCreateFolder(t, user.ID, &root.ID, "Child")
	rootFile := mustUploadFile(t, user.ID, &root.ID, "top.txt", "top")
	childFile := mustUploadFile(t, user.ID, &child.ID, "deep.txt", "deep")

	if err := DeleteFolderRecursive(context.Background(), root.ID); err != nil {
		t.Fatalf("recursive delete failed: %v", err)
	}

	for _, id := range []uint64{root.ID, child.ID} {
		if _, err := GetFolder(id); !IsKind(err, KindNotFound) {
			t.Fatalf("folder %d survived delete", id)
		}
	}
	for _, id := range []uint64{rootFile.ID, childFile.ID} {
		if _, err := GetFile(id); !IsKind(err, KindNotFound) {
			t.Fatalf("file %d survived delete", id)
		}
	}
	if testStore.Len() != 0 {
		t.Fatalf("%d blobs survived delete", testStore.Len())
	}
}

func TestDuplicateFolderDeepCopy(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "folder_duplicate")

	a := mustCreateFolder(t, user.ID, nil, "A")
	b := mustCreateFolder(t, user.ID, &a.ID, "B")
	mustUploadFile(t, user.ID, &a.ID, "top.txt", "top")
	mustUploadFile(t, user.ID, &b.ID, "x.txt", "nested")

	clone, err := DuplicateFolder(context.Background(), a.ID, user.ID)
	if err != nil {
		t.Fatalf("duplicate folder failed: %v", err)
	}
	if clone.Name != "A (Copy)" {
		t.Fatalf("clone name = %q, want %q", clone.Name, "A (Copy)")
	}

	cloneFiles, err := ListFiles(&clone.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cloneFiles) != 1 || cloneFiles[0].Name != "top.txt" {
		t.Fatalf("clone files = %+v, want one top.txt", cloneFiles)
	}

	children, err := ListFolders(&clone.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 1 || children[0].Name != "B" {
		t.Fatalf("clone children = %+v, want one B", children)
	}
	nested, err := ListFiles(&children[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(nested) != 1 || nested[0].Name != "x.txt" {
		t.Fatalf("nested clone files = %+v, want one x.txt", nested)
	}

	// Duplicating again picks the next copy name.
	second, err := DuplicateFolder(context.Background(), a.ID, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if second.Name != "A (Copy 2)" {
		t.Fatalf("second clone name = %q, want %q", second.Name, "A (Copy 2)")
	}
}
