package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CreateUser(ctx context.Context, u *AdminUser) error
	GetUserByUsername(ctx context.Context, username string) (*AdminUser, error)
	CreateSession(ctx context.Context, s *AdminSession) error
	// GetSessionByToken returns the session with its User loaded.
	GetSessionByToken(ctx context.Context, token string) (*AdminSession, error)
	TouchSession(ctx context.Context, id string, at time.Time) error
	DeleteSessionByToken(ctx context.Context, token string) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateUser(ctx context.Context, u *AdminUser) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (*AdminUser, error) {
	var u AdminUser
	if err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) CreateSession(ctx context.Context, s *AdminSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) GetSessionByToken(ctx context.Context, token string) (*AdminSession, error) {
	var s AdminSession
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&s, "session_token = ?", token).Error
	if err != nil {
		return nil, err
	}
	if s.User == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *repository) TouchSession(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&AdminSession{}).
		Where("id = ?", id).
		Update("last_activity", at).Error
}

func (r *repository) DeleteSessionByToken(ctx context.Context, token string) (int64, error) {
	res := r.db.WithContext(ctx).Where("session_token = ?", token).Delete(&AdminSession{})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&AdminSession{})
	return res.RowsAffected, res.Error
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
