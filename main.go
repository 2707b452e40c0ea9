package main

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/router"
	"FileVault/utils"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()
	utils.InitCacheManager()

	router := router.InitRouter()

	router.Run(":8000")
}
