package service

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/model"
	"archive/zip"
	"fmt"
	"io"
	"log"

	"golang.org/x/net/context"
)

// archiveEntry pairs a folder with its path inside the archive.
type archiveEntry struct {
	folderID uint64
	path     string
	depth    int
}

// BuildFolderArchive streams a folder subtree into a ZIP writer. Entry
// paths are rooted at the folder's own name. A file whose blob cannot
// be read becomes a MISSING_<name>.txt placeholder instead of aborting
// the export, so one lost blob never sinks the whole archive.
func BuildFolderArchive(ctx context.Context, folderID uint64, zw *zip.Writer) error {
	root, err := GetFolder(folderID)
	if err != nil {
		return err
	}
	if storage.Default == nil {
		return newError(KindStorageFault, "storage not initialized", nil)
	}

	queue := []archiveEntry{{folderID: root.ID, path: root.Name, depth: 0}}
	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		if entry.depth >= config.AppConfig.TreeDepthLimit {
			return newError(KindInternal, "folder tree exceeds depth limit", nil)
		}
		if _, err := zw.Create(entry.path + "/"); err != nil {
			return newError(KindInternal, "write archive entry failed", err)
		}

		var files []model.File
		if err := repo.Db.Where("folder_key = ?", entry.folderID).
			Order("name ASC").
			Find(&files).Error; err != nil {
			return newError(KindInternal, "list files failed", err)
		}
		for _, file := range files {
			if err := writeArchiveFile(ctx, zw, entry.path, &file); err != nil {
				return err
			}
		}

		var children []model.Folder
		if err := repo.Db.Where("parent_key = ?", entry.folderID).
			Order("name ASC").
			Find(&children).Error; err != nil {
			return newError(KindInternal, "list folders failed", err)
		}
		for _, child := range children {
			queue = append(queue, archiveEntry{
				folderID: child.ID,
				path:     entry.path + "/" + child.Name,
				depth:    entry.depth + 1,
			})
		}
	}
	return nil
}

func writeArchiveFile(ctx context.Context, zw *zip.Writer, dir string, file *model.File) error {
	reader, _, err := storage.Default.GetObject(ctx, file.BucketName, file.ObjectName)
	if err != nil {
		log.Printf("archive: blob %s/%s for file %d unreadable: %v",
			file.BucketName, file.ObjectName, file.ID, err)
		placeholder, createErr := zw.Create(dir + "/MISSING_" + file.Name + ".txt")
		if createErr != nil {
			return newError(KindInternal, "write archive entry failed", createErr)
		}
		_, writeErr := fmt.Fprintf(placeholder,
			"The content of %q could not be read from storage and was left out of this archive.\n",
			file.Name)
		if writeErr != nil {
			return newError(KindInternal, "write archive entry failed", writeErr)
		}
		return nil
	}
	defer reader.Close()

	writer, err := zw.Create(dir + "/" + file.Name)
	if err != nil {
		return newError(KindInternal, "write archive entry failed", err)
	}
	if _, err := io.Copy(writer, reader); err != nil {
		return newError(KindInternal, "write archive entry failed", err)
	}
	return nil
}
