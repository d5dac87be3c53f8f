package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"newznepal/internal/app"
	"newznepal/internal/config"
	"newznepal/internal/database"
	"newznepal/internal/pkg/logger"
)

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
	if !database.IsPostgres(cfg.DatabaseURL) {
		if err := app.AutoMigrate(db); err != nil {
			logger.Fatal().Err(err).Msg("auto-migrate failed")
		}
	}

	a, err := app.New(cfg, db, app.Deps{})
	if err != nil {
		logger.Fatal().Err(err).Msg("app init failed")
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("env", cfg.AppEnv).
		Str("port", cfg.Port).
		Str("site_url", cfg.SiteURL).
		Msg("starting newznepal api")

	sup := a.Supervisor()
	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("supervisor stopped")
		if report, rerr := sup.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
			logger.Warn().Int("services", len(report)).Msg("services did not stop in time")
		}
		a.Close()
		os.Exit(1)
	}
	logger.Info().Msg("shutdown complete")
}
