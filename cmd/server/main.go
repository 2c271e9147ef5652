package main

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/project-management-api/internal/config"
	"github.com/taskhive/project-management-api/internal/database"
	"github.com/taskhive/project-management-api/internal/handlers"
	"github.com/taskhive/project-management-api/internal/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	log := logger.New(cfg.GinMode)
	defer log.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(database.GetDB()); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	r := handlers.SetupRouter(database.GetDB(), cfg, log)

	log.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
