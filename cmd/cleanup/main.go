package main

import (
	"context"
	"os"
	"time"

	"newznepal/internal/app"
	"newznepal/internal/config"
	"newznepal/internal/database"
	"newznepal/internal/domain/auth"
	"newznepal/internal/domain/cleanup"
	"newznepal/internal/domain/post"
	"newznepal/internal/pkg/logger"
)

// One-shot retention sweep for cron: expired posts with their images, then
// expired admin sessions.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := app.NewStore(ctx, cfg.Storage)
	if err != nil {
		logger.Warn().Err(err).Msg("object store unavailable, images will be left in place")
		store = nil
	}

	res, err := cleanup.NewService(post.NewRepository(db), store, cfg.RetentionDays).Run(ctx, time.Now().UTC())
	if err != nil {
		logger.Error().Err(err).Msg("post cleanup failed")
		os.Exit(1)
	}

	sessions, err := auth.NewService(auth.NewRepository(db), cfg.SessionTTL).PurgeExpired(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("session purge failed")
		os.Exit(1)
	}

	logger.Info().
		Int64("posts_deleted", res.DeletedCount).
		Int("images_deleted", res.ImagesDeleted).
		Int64("sessions_deleted", sessions).
		Int("retention_days", cfg.RetentionDays).
		Msg("cleanup completed")
}
