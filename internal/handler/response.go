package handler

import (
	"FileVault/internal/service"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// fail renders a service error. The status comes from the error kind;
// structured detail (conflict options, partial-failure item lists)
// rides along in the data field.
func fail(c *gin.Context, err error) {
	body := gin.H{
		"code": -1,
		"msg":  err.Error(),
		"kind": string(service.ErrKind(err)),
	}
	var svcErr *service.Error
	if errors.As(err, &svcErr) && svcErr.Data != nil {
		body["data"] = svcErr.Data
	}
	c.JSON(service.HTTPStatus(err), body)
}

// actorID returns the authenticated user set by AuthMiddleware.
func actorID(c *gin.Context) uint64 {
	return c.MustGet("user_id").(uint64)
}

// pathID parses a numeric path parameter; a second return of false
// means the 400 was already written.
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(400, gin.H{"code": -1, "msg": "invalid " + name})
		return 0, false
	}
	return id, true
}

// optionalQueryID parses an optional numeric query parameter; nil means
// the parameter was absent.
func optionalQueryID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(400, gin.H{"code": -1, "msg": "invalid " + name})
		return nil, false
	}
	return &id, true
}
