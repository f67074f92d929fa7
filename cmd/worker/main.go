// cmd/worker/main.go
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bookreview-backend/internal/config"
	"bookreview-backend/pkg/container"
	"bookreview-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] No .env file found, using system environment variables")
	}

	// Load configuration
	catalogCfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("[Config] Failed to load: %v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}

	logger.Init(catalogCfg.App.Environment, catalogCfg.App.LogLevel)

	// The worker consumes the queue and applies index writes itself
	catalogCfg.Queue.Enabled = true
	catalogCfg.Search.Async = false

	// Initialize container
	c, err := container.NewContainer(catalogCfg)
	if err != nil {
		log.Fatalf("[Container] Failed to initialize: %v", err)
	}
	defer c.Cleanup()

	// Initialize handlers
	handlers := initializeHandlers(c)

	// Perform health checks before taking tasks
	if err := startServices(c, cfg); err != nil {
		log.Fatalf("[Startup] Health check failed: %v", err)
	}

	// Setup Asynq server
	srv := setupAsynqServer(catalogCfg, cfg, handlers)

	// Setup scheduler
	var scheduler *asynqScheduler
	if cfg.SchedulerEnabled {
		scheduler = setupScheduler(catalogCfg)
	}

	// Wait for shutdown signal
	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("[Shutdown] Gracefully stopping...")
	if scheduler != nil {
		scheduler.Shutdown()
	}
	srv.Shutdown()
	log.Println("[Shutdown] ✓ Stopped")
}
