// @title                      Photo Events API
// @version                    1.0
// @description                Events, photo uploads with per-uploader deduplication, and photo removal.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/photoevents/photo-api/internal/api"
	"github.com/photoevents/photo-api/internal/api/handler"
	"github.com/photoevents/photo-api/internal/core/service"
	"github.com/photoevents/photo-api/internal/infrastructure/db/mongo"
	"github.com/photoevents/photo-api/internal/infrastructure/db/redis"
	"github.com/photoevents/photo-api/internal/infrastructure/storage"
	"github.com/photoevents/photo-api/internal/pkg/config"
	"github.com/photoevents/photo-api/pkg/logger"

	_ "github.com/photoevents/photo-api/docs"
)

const shutdownTimeout = 15 * time.Second

// newBootLogger logs failures that happen before the configured logger exists.
func newBootLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("service", "photo-api").Logger()
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := newBootLogger(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "photo-api",
		Env:     cfg.Env,
	})

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create mongodb indexes")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	checks := []handler.DependencyCheck{
		{Name: "mongodb", Check: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
	}

	// --- Redis (optional) ---
	var rdb *goredis.Client
	var locker service.UploadLocker
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		checks = append(checks, handler.DependencyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		if cfg.UseUploadLock() {
			locker = redis.NewUploadLock(rdb, cfg.Redis.UploadLockTTL, logger.Component("upload-lock"))
		}
		log.Info().Str("addr", cfg.Redis.Addr).Bool("upload_lock", locker != nil).Msg("connected to redis")
	}

	// --- File storage ---
	files, err := storage.New(ctx, storage.Config{
		Driver: cfg.Storage.Driver,
		Dir:    cfg.Storage.Dir,
		S3: storage.S3Config{
			Endpoint:        cfg.Storage.S3Endpoint,
			Region:          cfg.Storage.S3Region,
			Bucket:          cfg.Storage.S3Bucket,
			AccessKeyID:     cfg.Storage.S3AccessKeyID,
			SecretAccessKey: cfg.Storage.S3SecretAccessKey,
			UsePathStyle:    cfg.Storage.S3UsePathStyle,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise file storage")
	}
	if err := files.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("file storage is not reachable")
	}
	checks = append(checks, handler.DependencyCheck{Name: "storage", Check: files.Ping})

	// --- Services ---
	userRepo := mongo.NewUserRepository(db)
	eventRepo := mongo.NewEventRepository(db)
	photoRepo := mongo.NewPhotoRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, logger.Component("auth"))
	eventService := service.NewEventService(eventRepo, photoRepo, logger.Component("events"))
	photoService := service.NewPhotoService(photoRepo, eventRepo, userRepo, files, locker, logger.Component("photos"))

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure admin account")
		}
	}

	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Events:        eventService,
		Photos:        photoService,
		JWTSecret:     cfg.JWTSecret,
		UploadMaxBody: cfg.MaxUploadBody,
		Checks:        checks,
		Log:           logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect")
	}
	log.Info().Msg("stopped")
}
