package handler

import (
	"FileVault/internal/dto"
	"FileVault/internal/service"
	"FileVault/utils"

	"github.com/gin-gonic/gin"
)

// CreateTag registers a new tag.
func CreateTag(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	tag, err := service.CreateTag(actorID(c), req.Name, req.Color)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Created(c, dto.NewTagResponse(tag))
}

// ListTags lists every tag.
func ListTags(c *gin.Context) {
	tags, err := service.ListTags()
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]dto.TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, dto.NewTagResponse(&tags[i]))
	}
	utils.Success(c, out)
}

// UpdateTag renames or recolors a tag.
func UpdateTag(c *gin.Context) {
	tagID, ok := pathID(c, "tagID")
	if !ok {
		return
	}
	var req dto.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	tag, err := service.UpdateTag(tagID, req.Name, req.Color)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, dto.NewTagResponse(tag))
}

// DeleteTag removes a tag and detaches it from every file.
func DeleteTag(c *gin.Context) {
	tagID, ok := pathID(c, "tagID")
	if !ok {
		return
	}
	if err := service.DeleteTag(tagID); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, gin.H{"deleted": tagID})
}
