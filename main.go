// main.go
package main

import (
	"context"
	"log"

	"medroute/cmd"
	"medroute/internal/data/repository"
	"medroute/internal/wire"
	"medroute/pkg/database"
	"medroute/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("store", config.Store.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	// Pick the data-access driver
	var repos *repository.Repository
	switch config.Store.Driver {
	case "memory":
		repos = repository.NewMemoryRepository()
		if err := repository.SeedDemo(context.Background(), repos); err != nil {
			logger.Fatal("Failed to seed demo data", zap.Error(err))
		}
		logger.Info("In-memory store ready with demo data")

	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := database.EnsureSchema(context.Background(), db); err != nil {
			logger.Fatal("Failed to ensure schema", zap.Error(err))
		}

		logger.Info("Database connected successfully")
		repos = repository.NewRepository(db, logger)
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	// Start server
	cmd.APIServer(app.Router, config.App.Port, logger)
}
