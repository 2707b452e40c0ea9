package handler

import (
	"FileVault/config"
	"FileVault/internal/dto"
	"FileVault/internal/service"
	"FileVault/utils"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func pathVersionNumber(c *gin.Context) (int, bool) {
	number, err := strconv.Atoi(c.Param("versionNumber"))
	if err != nil || number <= 0 {
		c.JSON(400, gin.H{"code": -1, "msg": "invalid versionNumber"})
		return 0, false
	}
	return number, true
}

// AddVersion appends a content snapshot to a file's ledger. Multipart
// fields: file (required), change_description.
func AddVersion(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"code": -1, "msg": "file field is required"})
		return
	}
	if header.Size > config.AppConfig.MaxUploadSizeBytes {
		c.JSON(400, gin.H{"code": -1, "msg": "file exceeds the maximum upload size", "kind": "validation_failure"})
		return
	}
	src, err := header.Open()
	if err != nil {
		c.JSON(400, gin.H{"code": -1, "msg": "unreadable upload"})
		return
	}
	defer src.Close()

	version, err := service.AddVersion(
		c.Request.Context(),
		fileID,
		actorID(c),
		src,
		header.Size,
		c.PostForm("change_description"),
	)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Created(c, dto.NewVersionResponse(version))
}

// ListVersions lists a file's versions, newest first.
func ListVersions(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	versions, err := service.ListVersions(fileID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewVersionListResponse(versions))
}

// DeleteVersion removes one version; the rest keep their numbers.
func DeleteVersion(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	number, ok := pathVersionNumber(c)
	if !ok {
		return
	}
	if err := service.DeleteVersion(c.Request.Context(), fileID, number); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, gin.H{"deleted": number})
}

// DownloadVersion streams one version snapshot.
func DownloadVersion(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	number, ok := pathVersionNumber(c)
	if !ok {
		return
	}
	reader, version, err := service.DownloadVersion(c.Request.Context(), fileID, number)
	if err != nil {
		fail(c, err)
		return
	}
	defer reader.Close()

	file, err := service.GetFile(fileID)
	if err != nil {
		fail(c, err)
		return
	}
	filename := utils.SanitizeHeaderFilename(fmt.Sprintf("v%d_%s", version.VersionNumber, file.Name))
	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	}
	c.DataFromReader(http.StatusOK, version.Size, file.ContentType, reader, extraHeaders)
}
