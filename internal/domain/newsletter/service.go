package newsletter

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"newznepal/internal/domain/post"
	"newznepal/internal/pkg/jwt"
	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/mailer"
)

const (
	// UnsubscribeTTL bounds how long a link in an old email keeps working.
	UnsubscribeTTL     = 180 * 24 * time.Hour
	unsubscribePurpose = "newsletter-unsubscribe"
)

// PostReader loads a post for the manual send endpoint.
type PostReader interface {
	Get(ctx context.Context, id string) (*post.Post, error)
}

type DispatchConfig struct {
	Mailer     mailer.Mailer
	BatchSize  int
	BatchDelay time.Duration
}

type Service struct {
	repo       Repository
	posts      PostReader
	tokens     *jwt.Service
	siteURL    string
	dispatcher *Dispatcher
	now        func() time.Time
}

// NewService wires the subscriber store and the dispatcher. Unsubscribe links
// in outgoing mail are signed by tokens.
func NewService(repo Repository, posts PostReader, tokens *jwt.Service, siteURL string, dc DispatchConfig) *Service {
	s := &Service{
		repo:    repo,
		posts:   posts,
		tokens:  tokens,
		siteURL: strings.TrimRight(siteURL, "/"),
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.dispatcher = NewDispatcher(dc.Mailer, s.siteURL, dc.BatchSize, dc.BatchDelay, s.UnsubscribeURL)
	return s
}

// NormalizeEmail trims and lowercases, and rejects anything that is not a
// bare address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Subscribe adds email, or reactivates a previously unsubscribed address.
func (s *Service) Subscribe(ctx context.Context, raw string) (*Subscriber, error) {
	email, err := NormalizeEmail(raw)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.Active:
		return nil, ErrAlreadySubscribed
	case err == nil:
		if _, err := s.repo.SetActive(ctx, email, true, s.now()); err != nil {
			return nil, err
		}
		existing.Active = true
		logger.Info().Str("email", email).Msg("newsletter subscription reactivated")
		return existing, nil
	case !errors.Is(err, ErrNotSubscribed):
		return nil, err
	}

	now := s.now()
	sub := &Subscriber{Email: email, SubscribedAt: now, Active: true}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	logger.Info().Str("email", email).Msg("newsletter subscriber added")
	return sub, nil
}

func (s *Service) ListActive(ctx context.Context) ([]Subscriber, error) {
	return s.repo.ListActive(ctx)
}

// UnsubscribeURL returns the signed one-click link placed in every email.
func (s *Service) UnsubscribeURL(email string) (string, error) {
	token, err := s.tokens.GenerateToken(email, unsubscribePurpose)
	if err != nil {
		return "", err
	}
	return s.siteURL + "/api/newsletter/unsubscribe?token=" + url.QueryEscape(token), nil
}

// Unsubscribe deactivates the address named by a signed token.
func (s *Service) Unsubscribe(ctx context.Context, token string) (string, error) {
	email, err := s.tokens.ValidateToken(token, unsubscribePurpose)
	if err != nil {
		return "", ErrInvalidToken
	}
	n, err := s.repo.SetActive(ctx, email, false, s.now())
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrNotSubscribed
	}
	logger.Info().Str("email", email).Msg("newsletter unsubscribed")
	return email, nil
}

// SendForPost delivers the post to every active subscriber and waits for the
// result.
func (s *Service) SendForPost(ctx context.Context, postID string) (Result, error) {
	p, err := s.posts.Get(ctx, postID)
	if err != nil {
		return Result{}, err
	}
	return s.send(ctx, p)
}

// NotifySubscribers is the background variant run after a post is created.
// Having no subscribers is not an error here.
func (s *Service) NotifySubscribers(ctx context.Context, p *post.Post) error {
	_, err := s.send(ctx, p)
	if errors.Is(err, ErrNoSubscribers) {
		logger.Debug().Str("post_id", p.ID).Msg("no subscribers to notify")
		return nil
	}
	return err
}

func (s *Service) send(ctx context.Context, p *post.Post) (Result, error) {
	subs, err := s.repo.ListActive(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(subs) == 0 {
		return Result{}, ErrNoSubscribers
	}

	recipients := make([]string, len(subs))
	for i, sub := range subs {
		recipients[i] = sub.Email
	}
	return s.dispatcher.Send(ctx, p, recipients)
}
