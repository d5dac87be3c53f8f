package ad

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"newznepal/internal/pkg/validator"
)

// Placement is one of the fixed page slots an ad can render in.
type Placement string

const (
	PlacementHeader     Placement = "header"
	PlacementSidebarTop Placement = "sidebar_top"
	PlacementInContent  Placement = "in_content"
	PlacementSidebarMid Placement = "sidebar_mid"
	PlacementFooter     Placement = "footer"
)

var Placements = []Placement{
	PlacementHeader,
	PlacementSidebarTop,
	PlacementInContent,
	PlacementSidebarMid,
	PlacementFooter,
}

func (p Placement) Valid() bool {
	for _, v := range Placements {
		if v == p {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusActive  Status = "active"
	StatusPaused  Status = "paused"
	StatusExpired Status = "expired"
	StatusDraft   Status = "draft"
)

type EventType string

const (
	EventImpression EventType = "impression"
	EventClick      EventType = "click"
)

func init() {
	placements := make([]string, len(Placements))
	for i, p := range Placements {
		placements[i] = string(p)
	}
	validator.RegisterEnum("placement", placements...)
	validator.RegisterEnum("adstatus", string(StatusActive), string(StatusPaused), string(StatusExpired), string(StatusDraft))
	validator.RegisterEnum("eventtype", string(EventImpression), string(EventClick))
}

type Advertisement struct {
	ID                string     `json:"id" gorm:"primaryKey;size:36"`
	Title             string     `json:"title" gorm:"not null"`
	Description       *string    `json:"description"`
	ImageURL          string     `json:"image_url" gorm:"not null"`
	ClickURL          string     `json:"click_url" gorm:"not null"`
	Placement         Placement  `json:"placement" gorm:"size:32;index;not null"`
	Status            Status     `json:"status" gorm:"size:16;index;not null;default:active"`
	Priority          int        `json:"priority" gorm:"not null;default:1"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	TargetImpressions int        `json:"target_impressions" gorm:"not null;default:0"`
	TargetClicks      int        `json:"target_clicks" gorm:"not null;default:0"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Advertisement) TableName() string {
	return "advertisements"
}

func (a *Advertisement) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// IsServable reports whether the ad may be shown to the public at now.
func IsServable(a *Advertisement, now time.Time) bool {
	return servability(a, now) == nil
}

func servability(a *Advertisement, now time.Time) error {
	if a.Status != StatusActive {
		return ErrAdNotActive
	}
	if a.StartDate != nil && a.StartDate.After(now) {
		return ErrAdNotStarted
	}
	if a.EndDate != nil && a.EndDate.Before(now) {
		return ErrAdExpired
	}
	return nil
}

// AdEvent is an append-only impression or click record.
type AdEvent struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	AdID      string         `json:"ad_id" gorm:"size:36;index;not null"`
	Ad        *Advertisement `json:"-" gorm:"foreignKey:AdID;constraint:OnDelete:CASCADE"`
	EventType EventType      `json:"event_type" gorm:"size:16;index;not null"`
	UserIP    string         `json:"user_ip"`
	UserAgent string         `json:"user_agent"`
	Referrer  *string        `json:"referrer"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}

func (AdEvent) TableName() string {
	return "ad_analytics"
}

func (e *AdEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// CTR is clicks per hundred impressions rounded to two decimals, 0 without
// impressions.
func CTR(impressions, clicks int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return math.Round(float64(clicks)/float64(impressions)*100*100) / 100
}

type Range string

const (
	Range1d  Range = "1d"
	Range7d  Range = "7d"
	Range30d Range = "30d"
	RangeAll Range = "all"
)

// Since returns the lower bound for the range, nil for "all".
func (r Range) Since(now time.Time) (*time.Time, error) {
	var d time.Duration
	switch r {
	case Range1d:
		d = 24 * time.Hour
	case Range7d, "":
		d = 7 * 24 * time.Hour
	case Range30d:
		d = 30 * 24 * time.Hour
	case RangeAll:
		return nil, nil
	default:
		return nil, ErrInvalidRange
	}
	since := now.Add(-d)
	return &since, nil
}

// AdSummary is the per-ad aggregate returned by the analytics endpoint.
type AdSummary struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Placement      Placement  `json:"placement"`
	Impressions    int64      `json:"impressions"`
	Clicks         int64      `json:"clicks"`
	CTR            float64    `json:"ctr"`
	LatestActivity *time.Time `json:"latest_activity"`
}

// WithAnalytics is an ad plus its lifetime totals, for the admin list.
type WithAnalytics struct {
	*Advertisement
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
	CTRPercentage    float64 `json:"ctr_percentage"`
}
