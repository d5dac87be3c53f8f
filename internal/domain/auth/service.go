package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"newznepal/internal/pkg/logger"
)

// dummyHash keeps login timing the same for unknown usernames.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("newznepal-dummy-password"), bcrypt.DefaultCost)

type Service struct {
	repo       Repository
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(repo Repository, sessionTTL time.Duration) *Service {
	return &Service{
		repo:       repo,
		sessionTTL: sessionTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *AdminUser
}

// Login checks the password and opens a new session. No session row is
// written when the credentials are wrong.
func (s *Service) Login(ctx context.Context, username, password, deviceID string) (*LoginResult, error) {
	username = strings.TrimSpace(username)

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &AdminSession{
		SessionToken: uuid.NewString(),
		UserID:       user.ID,
		ExpiresAt:    now.Add(s.sessionTTL),
		CreatedAt:    now,
		LastActivity: now,
	}
	if deviceID = strings.TrimSpace(deviceID); deviceID != "" {
		session.DeviceID = &deviceID
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	logger.Info().Str("admin", user.Username).Msg("admin logged in")

	return &LoginResult{Token: session.SessionToken, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// Verify resolves a session token to an identity. Expired rows are deleted
// when they are seen.
func (s *Service) Verify(ctx context.Context, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrSessionInvalid
	}

	session, err := s.repo.GetSessionByToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}

	now := s.now()
	if !session.ExpiresAt.After(now) {
		if _, err := s.repo.DeleteSessionByToken(ctx, token); err != nil {
			logger.Warn().Err(err).Msg("failed to delete expired session")
		}
		return nil, ErrSessionInvalid
	}

	if err := s.repo.TouchSession(ctx, session.ID, now); err != nil {
		logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to update last_activity")
	}

	return &Identity{
		UserID:    session.User.ID,
		Username:  session.User.Username,
		SessionID: session.ID,
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	_, err := s.repo.DeleteSessionByToken(ctx, token)
	return err
}

func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now())
}

// CreateAdmin hashes password with bcrypt and stores a new admin user.
func (s *Service) CreateAdmin(ctx context.Context, username, password string) (*AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &AdminUser{Username: username, PasswordHash: string(hash)}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
