package post

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	Category Category
	Offset   int
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, f ListFilter) ([]Post, int64, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
	// Latest returns up to limit posts ordered by the given column, newest first.
	Latest(ctx context.Context, orderBy string, limit int) ([]Post, error)
	CreatedBefore(ctx context.Context, cutoff time.Time) ([]Post, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Ids are UUID columns in Postgres, where a malformed id is a query error
// rather than a miss, so they are checked before any query.
func validID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Post, error) {
	if !validID(id) {
		return nil, ErrPostNotFound
	}
	var p Post
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&Post{})
	if f.Category != "" && f.Category != CategoryAll {
		q = q.Where("category = ?", f.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []Post
	err := q.Order("created_at DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&posts).Error
	return posts, total, err
}

// Update overwrites every editable column. Concurrent edits are last-write-wins.
func (r *repository) Update(ctx context.Context, p *Post) error {
	if !validID(p.ID) {
		return ErrPostNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&Post{}).
		Where("id = ?", p.ID).
		Select("title", "summary", "content", "category", "image_url", "updated_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrPostNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *repository) Latest(ctx context.Context, orderBy string, limit int) ([]Post, error) {
	if orderBy != "updated_at" {
		orderBy = "created_at"
	}
	var posts []Post
	err := r.db.WithContext(ctx).
		Order(orderBy + " DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *repository) CreatedBefore(ctx context.Context, cutoff time.Time) ([]Post, error) {
	var posts []Post
	err := r.db.WithContext(ctx).
		Select("id", "image_url", "created_at").
		Where("created_at < ?", cutoff).
		Find(&posts).Error
	return posts, err
}

func (r *repository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Post{})
	return res.RowsAffected, res.Error
}
