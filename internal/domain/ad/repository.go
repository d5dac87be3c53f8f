package ad

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	Placement Placement
	Status    Status
}

// EventRow is the slice of an event the aggregations need.
type EventRow struct {
	AdID      string
	EventType EventType
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, a *Advertisement) error
	GetByID(ctx context.Context, id string) (*Advertisement, error)
	GetByIDs(ctx context.Context, ids []string) ([]Advertisement, error)
	// List orders by priority, then newest first.
	List(ctx context.Context, f ListFilter) ([]Advertisement, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete removes the ad together with its events.
	Delete(ctx context.Context, id string) error
	CreateEvent(ctx context.Context, e *AdEvent) error
	// Events returns events newest first, optionally for one ad and after since.
	Events(ctx context.Context, adID string, since *time.Time) ([]EventRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Advertisement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// validID guards the UUID-typed id columns; Postgres rejects a malformed
// literal with an error instead of returning no rows.
func validID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Advertisement, error) {
	if !validID(id) {
		return nil, ErrAdNotFound
	}
	var a Advertisement
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []string) ([]Advertisement, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ads []Advertisement
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ads).Error
	return ads, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Advertisement, error) {
	q := r.db.WithContext(ctx).Model(&Advertisement{})
	if f.Placement != "" {
		q = q.Where("placement = ?", f.Placement)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var ads []Advertisement
	err := q.Order("priority DESC").Order("created_at DESC").Find(&ads).Error
	return ads, err
}

func (r *repository) Update(ctx context.Context, id string, fields map[string]any) error {
	if !validID(id) {
		return ErrAdNotFound
	}
	res := r.db.WithContext(ctx).Model(&Advertisement{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAdNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrAdNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ad_id = ?", id).Delete(&AdEvent{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Advertisement{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAdNotFound
		}
		return nil
	})
}

func (r *repository) CreateEvent(ctx context.Context, e *AdEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) Events(ctx context.Context, adID string, since *time.Time) ([]EventRow, error) {
	if adID != "" && !validID(adID) {
		return nil, nil
	}
	q := r.db.WithContext(ctx).Model(&AdEvent{}).Select("ad_id", "event_type", "created_at")
	if adID != "" {
		q = q.Where("ad_id = ?", adID)
	}
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var rows []EventRow
	err := q.Order("created_at DESC").Scan(&rows).Error
	return rows, err
}
