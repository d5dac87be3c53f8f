package post

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"newznepal/internal/pkg/logger"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	TaskNewsletter = "newsletter.dispatch"
	TaskCleanup    = "cleanup.opportunistic"
	EventCreated   = "post.created"
	EventDeleted   = "post.deleted"
)

// Enqueuer runs work off the request path. tasks.Queue satisfies it.
type Enqueuer interface {
	Enqueue(name string, fn func(ctx context.Context) error) error
}

// Notifier sends the new-post email to subscribers.
type Notifier interface {
	NotifySubscribers(ctx context.Context, p *Post) error
}

// Sweeper removes expired posts.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

// Broadcaster pushes post events to live clients.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// Options wires the optional side effects. Nil fields are skipped.
type Options struct {
	Tasks              Enqueuer
	Notifier           Notifier
	Sweeper            Sweeper
	Live               Broadcaster
	RetentionDays      int
	CleanupProbability float64
}

type Service struct {
	repo Repository
	opts Options
	now  func() time.Time
	roll func() float64
}

func NewService(repo Repository, opts Options) *Service {
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = DefaultRetentionDays
	}
	return &Service{
		repo: repo,
		opts: opts,
		now:  func() time.Time { return time.Now().UTC() },
		roll: rand.Float64,
	}
}

func (s *Service) RetentionDays() int {
	return s.opts.RetentionDays
}

func (s *Service) Now() time.Time {
	return s.now()
}

type ListResult struct {
	Posts []Post
	Total int64
	Page  int
	Limit int
}

// List returns one page of posts, newest first. Now and then it also queues a
// retention sweep; that never affects the listing.
func (s *Service) List(ctx context.Context, category Category, page, limit int) (*ListResult, error) {
	if category != "" && category != CategoryAll && !category.Valid() {
		return nil, ErrInvalidCategory
	}
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	posts, total, err := s.repo.List(ctx, ListFilter{
		Category: category,
		Offset:   page * limit,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	s.maybeSweep()

	return &ListResult{Posts: posts, Total: total, Page: page, Limit: limit}, nil
}

func (s *Service) maybeSweep() {
	if s.opts.Sweeper == nil || s.opts.Tasks == nil || s.opts.CleanupProbability <= 0 {
		return
	}
	if s.roll() >= s.opts.CleanupProbability {
		return
	}
	if err := s.opts.Tasks.Enqueue(TaskCleanup, s.opts.Sweeper.Sweep); err != nil {
		logger.Warn().Err(err).Msg("opportunistic cleanup not queued")
	}
}

func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

type Input struct {
	Title    string
	Summary  string
	Content  string
	Category Category
	ImageURL string
}

func (in Input) apply(p *Post) {
	p.Title = strings.TrimSpace(in.Title)
	p.Summary = strings.TrimSpace(in.Summary)
	p.Content = in.Content
	p.Category = in.Category
	p.ImageURL = nil
	if url := strings.TrimSpace(in.ImageURL); url != "" {
		p.ImageURL = &url
	}
}

// Create stores the post and queues the subscriber email. It returns as soon
// as the row is written.
func (s *Service) Create(ctx context.Context, in Input) (*Post, error) {
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	now := s.now()
	p := &Post{CreatedAt: now, UpdatedAt: now}
	in.apply(p)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info().Str("post_id", p.ID).Str("category", string(p.Category)).Msg("post created")

	if s.opts.Tasks != nil && s.opts.Notifier != nil {
		created := *p
		err := s.opts.Tasks.Enqueue(TaskNewsletter, func(ctx context.Context) error {
			return s.opts.Notifier.NotifySubscribers(ctx, &created)
		})
		if err != nil {
			logger.Warn().Err(err).Str("post_id", p.ID).Msg("newsletter dispatch not queued")
		}
	}
	if s.opts.Live != nil {
		s.opts.Live.Broadcast(EventCreated, p)
	}

	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*Post, error) {
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.opts.Live != nil {
		s.opts.Live.Broadcast(EventDeleted, map[string]string{"id": id})
	}
	return nil
}
