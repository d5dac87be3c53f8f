// Package cleanup enforces post retention: posts older than the retention
// window are deleted together with their images.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newznepal/internal/domain/post"
	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/metrics"
	"newznepal/internal/pkg/storage"
)

type Result struct {
	DeletedCount  int64  `json:"deletedCount"`
	ImagesDeleted int    `json:"imagesDeleted"`
	Message       string `json:"message"`
}

type Service struct {
	posts         post.Repository
	store         storage.ObjectStore
	retentionDays int
	now           func() time.Time
}

// NewService builds the sweeper. store may be nil, in which case images are
// left alone.
func NewService(posts post.Repository, store storage.ObjectStore, retentionDays int) *Service {
	if retentionDays <= 0 {
		retentionDays = post.DefaultRetentionDays
	}
	return &Service{
		posts:         posts,
		store:         store,
		retentionDays: retentionDays,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Run deletes every post created before now minus the retention window.
// Image removal is best effort; a store failure never keeps a row alive.
func (s *Service) Run(ctx context.Context, now time.Time) (*Result, error) {
	cutoff := now.UTC().AddDate(0, 0, -s.retentionDays)

	expired, err := s.posts.CreatedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find expired posts: %w", err)
	}
	if len(expired) == 0 {
		logger.Debug().Time("cutoff", cutoff).Msg("no expired posts")
		return &Result{Message: "No expired posts to delete"}, nil
	}

	ids := make([]string, 0, len(expired))
	images := 0
	for _, p := range expired {
		ids = append(ids, p.ID)
		if s.deleteImage(ctx, p) {
			images++
		}
	}

	deleted, err := s.posts.DeleteByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("delete expired posts: %w", err)
	}
	metrics.CleanupDeleted.Add(float64(deleted))

	logger.Info().
		Int64("deleted", deleted).
		Int("images", images).
		Time("cutoff", cutoff).
		Msg("retention sweep finished")

	return &Result{
		DeletedCount:  deleted,
		ImagesDeleted: images,
		Message:       fmt.Sprintf("Deleted %d posts older than %d days", deleted, s.retentionDays),
	}, nil
}

// Sweep runs with the current time. It lets the post service queue a sweep.
func (s *Service) Sweep(ctx context.Context) error {
	_, err := s.Run(ctx, s.now())
	return err
}

func (s *Service) deleteImage(ctx context.Context, p post.Post) bool {
	if s.store == nil || p.ImageURL == nil || *p.ImageURL == "" {
		return false
	}
	key, ok := s.store.KeyFromURL(*p.ImageURL)
	if !ok {
		logger.Debug().Str("post_id", p.ID).Str("url", *p.ImageURL).Msg("image url not in managed storage")
		return false
	}
	err := s.store.Delete(ctx, key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn().Err(err).Str("post_id", p.ID).Str("key", key).Msg("image could not be deleted")
		return false
	}
	return err == nil
}
