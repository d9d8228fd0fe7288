// cmd/worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/config"
	"kinex-backend/pkg/container"
	"kinex-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("[Config] Failed to load")
	}
	logger.Init(appCfg.App.Environment, appCfg.LogLevel)

	// Load configuration
	cfg := loadConfig(appCfg)

	// Database để kiểm tra lại tham chiếu trước khi xóa object
	c, err := container.Build(context.Background(), appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()
	if c.Storage == nil {
		log.Fatal().Msg("[Storage] Worker requires S3 configuration")
	}

	// Initialize handlers
	handlers := initializeHandlers(c.Storage, c.ProjectRepo)

	// Setup Asynq server
	srv := setupAsynqServer(cfg, handlers)

	// Health checks + health endpoint
	if err := startServices(cfg); err != nil {
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	// Wait for shutdown signal
	waitForShutdown(srv)
}

func waitForShutdown(srv *asynqServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping...")
	srv.Shutdown()
	log.Info().Msg("[Shutdown] Stopped")
}
