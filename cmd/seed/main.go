package main

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"newznepal/internal/app"
	"newznepal/internal/config"
	"newznepal/internal/database"
	"newznepal/internal/domain/auth"
	"newznepal/internal/domain/post"
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		logger.Fatal().Msg("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}
	if err := seedAdmin(ctx, auth.NewService(auth.NewRepository(db), cfg.SessionTTL), username, password); err != nil {
		logger.Fatal().Err(err).Msg("seeding admin failed")
	}

	if on, _ := strconv.ParseBool(os.Getenv("SEED_POSTS")); on {
		n, err := seedPosts(ctx, db, post.NewRepository(db), time.Now().UTC())
		if err != nil {
			logger.Fatal().Err(err).Msg("seeding posts failed")
		}
		logger.Info().Int("created", n).Int("samples", len(samplePosts)).Msg("sample posts seeded")
	}
}

func seedAdmin(ctx context.Context, svc *auth.Service, username, password string) error {
	user, err := svc.CreateAdmin(ctx, username, password)
	if errors.Is(err, auth.ErrUsernameTaken) {
		logger.Info().Str("username", username).Msg("admin already exists, leaving password unchanged")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info().Str("username", user.Username).Str("id", user.ID).Msg("admin created")
	return nil
}

// seedPosts inserts the samples whose title is not already present. Each
// sample is an hour older than the previous one so listings have a stable
// order.
func seedPosts(ctx context.Context, db *gorm.DB, repo post.Repository, now time.Time) (int, error) {
	created := 0
	for i, s := range samplePosts {
		var n int64
		if err := db.WithContext(ctx).Model(&post.Post{}).Where("title = ?", s.Title).Count(&n).Error; err != nil {
			return created, err
		}
		if n > 0 {
			continue
		}

		at := now.Add(-time.Duration(i) * time.Hour)
		p := &post.Post{
			Title:     s.Title,
			Summary:   s.Summary,
			Content:   s.Content,
			Category:  s.Category,
			CreatedAt: at,
			UpdatedAt: at,
		}
		if s.ImageURL != "" {
			img := s.ImageURL
			p.ImageURL = &img
		}
		if err := repo.Create(ctx, p); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
