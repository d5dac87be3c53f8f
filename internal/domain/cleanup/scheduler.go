package cleanup

import (
	"context"
	"time"

	"newznepal/internal/pkg/logger"
)

// SessionPurger drops expired admin sessions. auth.Service satisfies it.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler runs the retention sweep on a fixed interval. It is a suture
// service: Serve blocks until ctx is cancelled.
type Scheduler struct {
	cleanup  *Service
	sessions SessionPurger
	interval time.Duration
}

func NewScheduler(cleanup *Service, sessions SessionPurger, interval time.Duration) *Scheduler {
	return &Scheduler{cleanup: cleanup, sessions: sessions, interval: interval}
}

func (s *Scheduler) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		logger.Info().Msg("scheduled cleanup is disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	logger.Info().Dur("interval", s.interval).Msg("scheduled cleanup started")

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			logger.Info().Msg("scheduled cleanup stopped")
			return ctx.Err()
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()
	if err := s.cleanup.Sweep(ctx); err != nil {
		logger.Warn().Err(err).Msg("scheduled post cleanup failed")
	}
	if s.sessions != nil {
		n, err := s.sessions.PurgeExpired(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("scheduled session purge failed")
		} else if n > 0 {
			logger.Info().Int64("sessions", n).Msg("expired sessions purged")
		}
	}
	logger.Debug().Dur("took", time.Since(start)).Msg("scheduled cleanup tick done")
}

func (s *Scheduler) String() string { return "cleanup-scheduler" }
