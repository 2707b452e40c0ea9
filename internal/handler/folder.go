package handler

import (
	"FileVault/internal/dto"
	"FileVault/internal/service"
	"FileVault/utils"
	"archive/zip"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateFolder creates a folder under an optional parent.
func CreateFolder(c *gin.Context) {
	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	folder, err := service.CreateFolder(actorID(c), req.ParentID, req.Name, req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Created(c, dto.NewFolderResponse(folder))
}

// ListFolders lists child folders; omit parent_id for roots.
func ListFolders(c *gin.Context) {
	parentID, ok := optionalQueryID(c, "parent_id")
	if !ok {
		return
	}
	folders, err := service.ListFolders(parentID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFolderListResponse(folders))
}

// GetFolder returns one folder with its full path.
func GetFolder(c *gin.Context) {
	folderID, ok := pathID(c, "folderID")
	if !ok {
		return
	}
	folder, err := service.GetFolder(folderID)
	if err != nil {
		fail(c, err)
		return
	}
	path, err := service.FolderFullPath(folderID)
	if err != nil {
		fail(c, err)
		return
	}
	resp := dto.NewFolderResponse(folder)
	utils.Success(c, gin.H{"folder": resp, "path": path})
}

// RenameFolder renames a folder in place.
func RenameFolder(c *gin.Context) {
	folderID, ok := pathID(c, "folderID")
	if !ok {
		return
	}
	var req dto.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	folder, err := service.RenameFolder(folderID, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFolderResponse(folder))
}

// UpdateFolder updates the folder description.
func UpdateFolder(c *gin.Context) {
	folderID, ok := pathID(c, "folderID")
	if !ok {
		return
	}
	var req dto.UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	if req.Description == nil {
		c.JSON(400, gin.H{"code": -1, "msg": "description is required"})
		return
	}
	folder, err := service.UpdateFolderDescription(folderID, *req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFolderResponse(folder))
}

// MoveFolder reparents a folder; null parent_id moves it to the root.
func MoveFolder(c *gin.Context) {
	folderID, ok := pathID(c, "folderID")
	if !ok {
		return
	}
	var req dto.MoveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	folder, err := service.MoveFolder(folderID, req.ParentID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewFolderResponse(folder))
}

// DeleteFolder deletes a folder and everything below it.
func DeleteFolder(c *gin.Context) {
	folderID, ok := pathID(c, "folderID")
	if !ok {
		return
	}
	if err := service.DeleteFolderRecursive(c.Request.Context(), folderID); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, gin.H{"deleted": folderID})
}

// DuplicateFolder copies a folder subtree next to the original.
func DuplicateFolder(c *gin.Context) {
	folderID, ok := pathID(c, "folderID")
	if !ok {
		return
	}
	clone, err := service.DuplicateFolder(c.Request.Context(), folderID, actorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	utils.Created(c, dto.NewFolderResponse(clone))
}

// DownloadFolderArchive streams a folder subtree as a ZIP archive.
func DownloadFolderArchive(c *gin.Context) {
	folderID, ok := pathID(c, "folderID")
	if !ok {
		return
	}
	folder, err := service.GetFolder(folderID)
	if err != nil {
		fail(c, err)
		return
	}

	filename := utils.SanitizeHeaderFilename(folder.Name) + ".zip"
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	zw := zip.NewWriter(c.Writer)
	if err := service.BuildFolderArchive(c.Request.Context(), folderID, zw); err != nil {
		// Headers are already on the wire; all that is left is to stop
		// writing and leave the archive truncated.
		_ = zw.Close()
		c.Abort()
		return
	}
	if err := zw.Close(); err != nil {
		c.Abort()
	}
}
