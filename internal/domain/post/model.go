package post

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"newznepal/internal/pkg/validator"
)

// DefaultRetentionDays is how long a post stays live before cleanup removes it.
const DefaultRetentionDays = 30

type Category string

const (
	CategoryLatest        Category = "latest"
	CategoryBreaking      Category = "breaking"
	CategoryPolitics      Category = "politics"
	CategorySports        Category = "sports"
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"

	// CategoryAll is a list filter, never stored on a post.
	CategoryAll Category = "all"
)

// Categories is the display order used by the category menu.
var Categories = []Category{
	CategoryLatest,
	CategoryBreaking,
	CategoryPolitics,
	CategorySports,
	CategoryBusiness,
	CategoryEntertainment,
}

var labelsNe = map[Category]string{
	CategoryAll:           "सबै समाचार",
	CategoryLatest:        "ताजा समाचार",
	CategoryBreaking:      "ब्रेकिङ न्यूज",
	CategoryPolitics:      "राजनीति",
	CategorySports:        "खेलकुद",
	CategoryBusiness:      "व्यापार",
	CategoryEntertainment: "मनोरञ्जन",
}

var labelsEn = map[Category]string{
	CategoryAll:           "All News",
	CategoryLatest:        "Latest",
	CategoryBreaking:      "Breaking News",
	CategoryPolitics:      "Politics",
	CategorySports:        "Sports",
	CategoryBusiness:      "Business",
	CategoryEntertainment: "Entertainment",
}

func init() {
	values := make([]string, len(Categories))
	for i, c := range Categories {
		values[i] = string(c)
	}
	validator.RegisterEnum("category", values...)
}

func (c Category) Valid() bool {
	_, ok := labelsNe[c]
	return ok && c != CategoryAll
}

// LabelNe returns the Nepali label, falling back to the raw value.
func (c Category) LabelNe() string {
	if l, ok := labelsNe[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) LabelEn() string {
	if l, ok := labelsEn[c]; ok {
		return l
	}
	return string(c)
}

type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" gorm:"not null"`
	Summary   string    `json:"summary" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Category  Category  `json:"category" gorm:"size:32;index;not null"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

func (Post) TableName() string {
	return "news_posts"
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// AgeInDays counts whole days between createdAt and now.
func AgeInDays(createdAt, now time.Time) int {
	d := now.Sub(createdAt)
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}

func IsExpired(createdAt, now time.Time, retentionDays int) bool {
	return AgeInDays(createdAt, now) >= retentionDays
}

func DaysUntilExpiration(createdAt, now time.Time, retentionDays int) int {
	left := retentionDays - AgeInDays(createdAt, now)
	if left < 0 {
		return 0
	}
	return left
}

// View is a post as returned by the API, with its expiry countdown.
type View struct {
	*Post
	AgeDays             int    `json:"age_days"`
	DaysUntilExpiration int    `json:"days_until_expiration"`
	CategoryLabel       string `json:"category_label"`
}

func NewView(p *Post, now time.Time, retentionDays int) View {
	return View{
		Post:                p,
		AgeDays:             AgeInDays(p.CreatedAt, now),
		DaysUntilExpiration: DaysUntilExpiration(p.CreatedAt, now, retentionDays),
		CategoryLabel:       p.Category.LabelNe(),
	}
}
