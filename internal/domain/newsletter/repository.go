package newsletter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Subscriber, error)
	Create(ctx context.Context, s *Subscriber) error
	SetActive(ctx context.Context, email string, active bool, at time.Time) (int64, error)
	// ListActive returns active subscribers, newest first.
	ListActive(ctx context.Context) ([]Subscriber, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Subscriber, error) {
	var s Subscriber
	err := r.db.WithContext(ctx).First(&s, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotSubscribed
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create maps a unique-key race on email to ErrAlreadySubscribed.
func (r *repository) Create(ctx context.Context, s *Subscriber) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if isUniqueViolation(err) {
		return ErrAlreadySubscribed
	}
	return err
}

func (r *repository) SetActive(ctx context.Context, email string, active bool, at time.Time) (int64, error) {
	updates := map[string]any{"active": active, "updated_at": at}
	if active {
		updates["subscribed_at"] = at
	}
	res := r.db.WithContext(ctx).
		Model(&Subscriber{}).
		Where("email = ?", email).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) ListActive(ctx context.Context) ([]Subscriber, error) {
	var subs []Subscriber
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("subscribed_at DESC").
		Find(&subs).Error
	return subs, err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite reports constraint failures as plain text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
