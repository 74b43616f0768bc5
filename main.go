// main.go
package main

import (
	"context"
	"log"
	"time"

	"room-booking/cmd"
	"room-booking/internal/cache"
	"room-booking/internal/data/repository"
	"room-booking/internal/ratelimit"
	"room-booking/internal/wire"
	"room-booking/pkg/database"
	"room-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
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
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Rate-limit and cache stores. With Redis configured both are shared
	// across replicas; without it they degrade to per-process state.
	var limiterStore ratelimit.Store = ratelimit.NewMemoryStore()
	var cacheStore cache.Cache = cache.NewMemoryCache()

	if config.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()

		limiterStore = ratelimit.NewRedisStore(client)
		cacheStore = cache.NewRedisCache(client)

		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	} else {
		logger.Warn("Redis not configured, using in-process rate limiter and cache")
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, config, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, limiterStore, cacheStore, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
