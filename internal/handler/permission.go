package handler

import (
	"FileVault/internal/dto"
	"FileVault/internal/service"
	"FileVault/utils"
	"time"

	"github.com/gin-gonic/gin"
)

// GrantPermission grants or refreshes a user's access to a file.
// Responds 201 for a new grant and 200 when an existing grant was
// updated in place.
func GrantPermission(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	var req dto.GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	var expiresAt *time.Time
	if req.ExpiresInHours != nil {
		if *req.ExpiresInHours <= 0 {
			c.JSON(400, gin.H{"code": -1, "msg": "expires_in_hours must be positive"})
			return
		}
		at := time.Now().Add(time.Duration(*req.ExpiresInHours) * time.Hour)
		expiresAt = &at
	}
	permission, created, err := service.GrantPermission(fileID, req.UserID, actorID(c), req.PermissionType, expiresAt)
	if err != nil {
		fail(c, err)
		return
	}
	resp := dto.NewPermissionResponse(permission, time.Now())
	if created {
		utils.Created(c, resp)
		return
	}
	utils.Success(c, resp)
}

// ListPermissions lists all grants on a file, expired ones included.
func ListPermissions(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	permissions, err := service.ListPermissions(fileID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewPermissionListResponse(permissions, time.Now()))
}

// RevokePermission removes a user's grant on a file.
func RevokePermission(c *gin.Context) {
	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	if err := service.RevokePermission(fileID, userID); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, gin.H{"revoked": userID})
}
