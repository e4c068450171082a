// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"theater-booking/cmd"
	"theater-booking/internal/data/memory"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/wire"
	"theater-booking/pkg/database"
	"theater-booking/pkg/utils"

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
		zap.String("storage", config.App.Storage),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	txConfig := database.TxConfig{
		LockTimeout: config.Database.LockTimeout,
		MaxRetries:  config.Database.MaxRetries,
	}

	// Initialize all repositories
	var repos *repository.Repository
	switch config.App.Storage {
	case utils.StorageDriverMemory:
		repos = memory.NewStore(txConfig, logger).Repository()
		logger.Info("Using in-memory storage")
	default:
		connStr := database.ConnString(config.Database)
		if config.Database.Migrate {
			if err := database.Migrate(connStr); err != nil {
				logger.Fatal("Failed to migrate database", zap.Error(err))
			}
			logger.Info("Database migrations applied")
		}

		db, err := database.Connect(ctx, connStr, config.Database.MaxConns)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Database connected successfully")
		repos = repository.NewRepository(db, txConfig, logger)
	}

	if config.Redis.Addr != "" {
		cache, err := database.ConnectRedis(ctx, config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer cache.Close()

		repos.User = repository.NewCachedUserRepository(repos.User, cache, config.Redis.UserCacheTTL, logger)
		logger.Info("User lookups cached in redis", zap.String("addr", config.Redis.Addr))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	if err := app.Service.User.EnsureAdmin(ctx, config.Admin.Username, config.Admin.Email); err != nil {
		logger.Fatal("Failed to seed admin user", zap.Error(err))
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server stopped")
}
