package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/playtube/account-service/internal/api"
	"github.com/playtube/account-service/internal/core/service"
	mongodb "github.com/playtube/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/playtube/account-service/internal/infrastructure/db/redis"
	"github.com/playtube/account-service/internal/infrastructure/queue"
	"github.com/playtube/account-service/internal/infrastructure/storage/cloudinary"
	"github.com/playtube/account-service/internal/pkg/config"
	"github.com/playtube/account-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- External connections ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	storage, err := cloudinary.New(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
	if err != nil {
		log.Fatal().Err(err).Msg("cloudinary init failed")
	}

	// --- Dependency injection ---
	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	cleanup := queue.NewCleanupDispatcher(cfg.Cloudinary.Workers, storage, log)
	cleanup.Start(ctx)

	profileCache := redisdb.NewProfileCache(rdb, cfg.Redis.ProfileTTL)

	userService := service.NewUserService(
		userRepo,
		storage,
		profileCache,
		cleanup,
		service.TokenConfig{
			AccessSecret:  cfg.Token.AccessSecret,
			AccessTTL:     cfg.Token.AccessTTL,
			RefreshSecret: cfg.Token.RefreshSecret,
			RefreshTTL:    cfg.Token.RefreshTTL,
		},
		log,
	)

	e := api.NewRouter(userService, db, rdb, cfg.Token.AccessSecret, log)

	// --- Serve ---
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("account service listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
