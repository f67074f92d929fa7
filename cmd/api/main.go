package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookreview-backend/internal/config"
	"bookreview-backend/pkg/logger"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is for local runs, deployments set real variables
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	// ========================================
	// LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Printf("🌍 Environment: %s", cfg.App.Environment)

	// ========================================
	// START SERVER
	// ========================================
	Serve(cfg)
}
