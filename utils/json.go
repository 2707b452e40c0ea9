package utils

import "github.com/gin-gonic/gin"

// Success writes a success JSON response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{
		"code": 0,
		"msg":  "ok",
		"data": data,
	})
}

// Created writes a success JSON response with a 201 status.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, gin.H{
		"code": 0,
		"msg":  "ok",
		"data": data,
	})
}

// BadRequest writes a plain 400 for malformed requests that never
// reached the service layer.
func BadRequest(c *gin.Context, err error) {
	c.JSON(400, gin.H{
		"code": -1,
		"msg":  err.Error(),
	})
}
