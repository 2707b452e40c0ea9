package main

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/internal/worker"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("preview worker started")
	if err := worker.RunPreviewWorker(ctx); err != nil {
		log.Fatalf("preview worker stopped: %v", err)
	}
}
