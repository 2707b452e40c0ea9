package router

import (
	"FileVault/config"
	"FileVault/internal/handler"
	"FileVault/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	api := r.Group("/api")
	{
		auth := api.Group("")
		auth.Use(utils.AuthMiddleware())

		uploadLimited := utils.RateLimitMiddleware("upload", config.AppConfig.UploadRateLimit)
		downloadLimited := utils.RateLimitMiddleware("download", config.AppConfig.DownloadRateLimit)

		folders := auth.Group("/folders")
		{
			folders.POST("", handler.CreateFolder)
			folders.GET("", handler.ListFolders)
			folders.GET("/:folderID", handler.GetFolder)
			folders.PATCH("/:folderID", handler.UpdateFolder)
			folders.PATCH("/:folderID/rename", handler.RenameFolder)
			folders.POST("/:folderID/move", handler.MoveFolder)
			folders.POST("/:folderID/duplicate", handler.DuplicateFolder)
			folders.DELETE("/:folderID", handler.DeleteFolder)
			folders.GET("/:folderID/archive", downloadLimited, handler.DownloadFolderArchive)
		}

		files := auth.Group("/files")
		{
			files.POST("", uploadLimited, handler.UploadFile)
			files.GET("", handler.ListFiles)
			files.GET("/search", handler.SearchFiles)
			files.GET("/:fileID", handler.GetFile)
			files.PATCH("/:fileID", handler.UpdateFile)
			files.PATCH("/:fileID/rename", handler.RenameFile)
			files.POST("/:fileID/move", handler.MoveFile)
			files.POST("/:fileID/duplicate", handler.DuplicateFile)
			files.DELETE("/:fileID", handler.DeleteFile)
			files.GET("/:fileID/download", downloadLimited, handler.DownloadFile)

			files.POST("/:fileID/versions", uploadLimited, handler.AddVersion)
			files.GET("/:fileID/versions", handler.ListVersions)
			files.GET("/:fileID/versions/:versionNumber/download", downloadLimited, handler.DownloadVersion)
			files.DELETE("/:fileID/versions/:versionNumber", handler.DeleteVersion)

			files.POST("/:fileID/permissions", handler.GrantPermission)
			files.GET("/:fileID/permissions", handler.ListPermissions)
			files.DELETE("/:fileID/permissions/:userID", handler.RevokePermission)

			files.GET("/:fileID/preview", handler.GetPreview)
			files.POST("/:fileID/preview", handler.RegeneratePreview)
		}

		tags := auth.Group("/tags")
		{
			tags.POST("", handler.CreateTag)
			tags.GET("", handler.ListTags)
			tags.PATCH("/:tagID", handler.UpdateTag)
			tags.DELETE("/:tagID", handler.DeleteTag)
			tags.GET("/:tagID/files", handler.ListFilesByTag)
		}
	}
	return r
}
