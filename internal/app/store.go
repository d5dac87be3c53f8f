package app

import (
	"context"
	"time"

	"newznepal/internal/config"
	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/storage"
)

// NewStore picks the object store named by STORAGE_DRIVER.
func NewStore(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStore, error) {
	if cfg.Driver != "s3" {
		logger.Info().Str("dir", cfg.UploadDir).Str("base_url", cfg.BaseURL).Msg("image storage: local disk")
		return storage.NewLocalStore(cfg.UploadDir, cfg.BaseURL)
	}

	s3, err := storage.NewS3Store(cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s3.EnsureBucket(ctx); err != nil {
		// uploads fail loudly later; the API still serves reads
		logger.Warn().Err(err).Str("bucket", cfg.Bucket).Msg("bucket check failed")
	}
	logger.Info().Str("bucket", cfg.Bucket).Msg("image storage: s3")
	return s3, nil
}
