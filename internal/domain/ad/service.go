package ad

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/metrics"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type ListQuery struct {
	Placement Placement
	Status    Status
	// Admin lifts the servability filter and honours Status.
	Admin     bool
	Analytics bool
}

// List returns ads by priority then recency. Public callers only ever see
// servable ads; admins see everything.
func (s *Service) List(ctx context.Context, q ListQuery) ([]WithAnalytics, error) {
	if q.Placement != "" && !q.Placement.Valid() {
		return nil, ErrInvalidPlacement
	}

	filter := ListFilter{Placement: q.Placement, Status: q.Status}
	if !q.Admin {
		filter.Status = StatusActive
	}

	ads, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]WithAnalytics, 0, len(ads))
	for i := range ads {
		if !q.Admin && !IsServable(&ads[i], now) {
			continue
		}
		out = append(out, WithAnalytics{Advertisement: &ads[i]})
	}

	if q.Admin && q.Analytics {
		summaries, _, err := s.summarize(ctx, "", nil)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]AdSummary, len(summaries))
		for _, sum := range summaries {
			byID[sum.ID] = sum
		}
		for i := range out {
			if sum, ok := byID[out[i].ID]; ok {
				out[i].TotalImpressions = sum.Impressions
				out[i].TotalClicks = sum.Clicks
				out[i].CTRPercentage = sum.CTR
			}
		}
	}
	return out, nil
}

// Serve picks the top servable ad for a slot, or nil when none qualifies.
func (s *Service) Serve(ctx context.Context, placement Placement) (*Advertisement, error) {
	if !placement.Valid() {
		return nil, ErrInvalidPlacement
	}
	ads, err := s.List(ctx, ListQuery{Placement: placement})
	if err != nil {
		return nil, err
	}
	if len(ads) == 0 {
		return nil, nil
	}
	return ads[0].Advertisement, nil
}

type CreateInput struct {
	Title             string
	Description       string
	ImageURL          string
	ClickURL          string
	Placement         Placement
	Status            Status
	Priority          int
	StartDate         *time.Time
	EndDate           *time.Time
	TargetImpressions int
	TargetClicks      int
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Advertisement, error) {
	if !in.Placement.Valid() {
		return nil, ErrInvalidPlacement
	}

	now := s.now()
	a := &Advertisement{
		Title:             strings.TrimSpace(in.Title),
		ImageURL:          in.ImageURL,
		ClickURL:          in.ClickURL,
		Placement:         in.Placement,
		Status:            in.Status,
		Priority:          in.Priority,
		StartDate:         utc(in.StartDate),
		EndDate:           utc(in.EndDate),
		TargetImpressions: in.TargetImpressions,
		TargetClicks:      in.TargetClicks,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		a.Description = &d
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	if a.Priority == 0 {
		a.Priority = 1
	}
	if a.StartDate == nil {
		a.StartDate = &now
	}
	if a.EndDate != nil && a.EndDate.Before(*a.StartDate) {
		return nil, ErrInvalidWindow
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	logger.Info().Str("ad_id", a.ID).Str("placement", string(a.Placement)).Msg("advertisement created")
	return a, nil
}

// OptionalTime tells an absent field apart from an explicit null, which
// clears the column.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// SetTime is an OptionalTime holding t; a nil t clears the column.
func SetTime(t *time.Time) OptionalTime {
	return OptionalTime{Set: true, Value: t}
}

// UpdateInput carries only the fields the caller sent.
type UpdateInput struct {
	Title             *string
	Description       *string
	ImageURL          *string
	ClickURL          *string
	Placement         *Placement
	Status            *Status
	Priority          *int
	StartDate         OptionalTime
	EndDate           OptionalTime
	TargetImpressions *int
	TargetClicks      *int
}

func (in UpdateInput) fields() map[string]any {
	f := map[string]any{}
	if in.Title != nil {
		f["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			f["description"] = d
		} else {
			f["description"] = nil
		}
	}
	if in.ImageURL != nil {
		f["image_url"] = *in.ImageURL
	}
	if in.ClickURL != nil {
		f["click_url"] = *in.ClickURL
	}
	if in.Placement != nil {
		f["placement"] = *in.Placement
	}
	if in.Status != nil {
		f["status"] = *in.Status
	}
	if in.Priority != nil {
		f["priority"] = *in.Priority
	}
	if in.StartDate.Set {
		f["start_date"] = nullable(in.StartDate.Value)
	}
	if in.EndDate.Set {
		f["end_date"] = nullable(in.EndDate.Value)
	}
	if in.TargetImpressions != nil {
		f["target_impressions"] = *in.TargetImpressions
	}
	if in.TargetClicks != nil {
		f["target_clicks"] = *in.TargetClicks
	}
	return f
}

// Update applies a partial update. Concurrent edits are last-write-wins.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Advertisement, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Placement != nil && !in.Placement.Valid() {
		return nil, ErrInvalidPlacement
	}

	start, end := current.StartDate, current.EndDate
	if in.StartDate.Set {
		start = in.StartDate.Value
	}
	if in.EndDate.Set {
		end = in.EndDate.Value
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, ErrInvalidWindow
	}

	fields := in.fields()
	fields["updated_at"] = s.now()
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Str("ad_id", id).Msg("advertisement deleted")
	return nil
}

type TrackInput struct {
	AdID      string
	EventType EventType
	IP        string
	UserAgent string
	Referrer  string
}

// Track records one event for a servable ad and returns the ad, whose
// ClickURL is what a click redirects to.
func (s *Service) Track(ctx context.Context, in TrackInput) (*Advertisement, error) {
	a, err := s.repo.GetByID(ctx, in.AdID)
	if err != nil {
		return nil, err
	}
	if err := servability(a, s.now()); err != nil {
		return nil, err
	}

	e := &AdEvent{
		AdID:      a.ID,
		EventType: in.EventType,
		UserIP:    in.IP,
		UserAgent: in.UserAgent,
		CreatedAt: s.now(),
	}
	if in.Referrer != "" {
		e.Referrer = &in.Referrer
	}
	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return nil, err
	}

	metrics.AdEvents.WithLabelValues(string(in.EventType)).Inc()
	logger.Debug().Str("ad_id", a.ID).Str("event_type", string(in.EventType)).Msg("ad event tracked")
	return a, nil
}

type SummaryResult struct {
	Summary      []AdSummary
	TotalRecords int
	TimeRange    Range
}

// Summary aggregates events into per-ad counts for the trailing range.
func (s *Service) Summary(ctx context.Context, adID string, r Range) (*SummaryResult, error) {
	if r == "" {
		r = Range7d
	}
	since, err := r.Since(s.now())
	if err != nil {
		return nil, err
	}

	summaries, total, err := s.summarize(ctx, adID, since)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Summary: summaries, TotalRecords: total, TimeRange: r}, nil
}

func (s *Service) summarize(ctx context.Context, adID string, since *time.Time) ([]AdSummary, int, error) {
	rows, err := s.repo.Events(ctx, adID, since)
	if err != nil {
		return nil, 0, err
	}

	order := make([]string, 0)
	byID := make(map[string]*AdSummary)
	for _, row := range rows {
		sum, ok := byID[row.AdID]
		if !ok {
			latest := row.CreatedAt
			sum = &AdSummary{ID: row.AdID, LatestActivity: &latest}
			byID[row.AdID] = sum
			order = append(order, row.AdID)
		}
		switch row.EventType {
		case EventImpression:
			sum.Impressions++
		case EventClick:
			sum.Clicks++
		}
	}

	ads, err := s.repo.GetByIDs(ctx, order)
	if err != nil {
		return nil, 0, err
	}
	for _, a := range ads {
		if sum, ok := byID[a.ID]; ok {
			sum.Title = a.Title
			sum.Placement = a.Placement
		}
	}

	out := make([]AdSummary, 0, len(order))
	for _, id := range order {
		sum := byID[id]
		sum.CTR = CTR(sum.Impressions, sum.Clicks)
		out = append(out, *sum)
	}
	return out, len(rows), nil
}

// nullable maps a nil time to an untyped nil so gorm writes NULL.
func nullable(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
