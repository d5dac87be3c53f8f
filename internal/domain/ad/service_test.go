package ad

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"newznepal/internal/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSilent(fmt.Sprintf("file:ad_test_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Advertisement{}, &AdEvent{}))
	return db
}

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(NewRepository(db)), db
}

func baseInput(title string, placement Placement) CreateInput {
	return CreateInput{
		Title:     title,
		ImageURL:  "https://cdn.example.com/banner.png",
		ClickURL:  "https://sponsor.example.com/landing?utm_source=newznepal",
		Placement: placement,
	}
}

func mustCreate(t *testing.T, svc *Service, in CreateInput) *Advertisement {
	t.Helper()
	a, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	return a
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := setupTestService(t)

	a := mustCreate(t, svc, baseInput("Bank", PlacementHeader))
	assert.Equal(t, StatusActive, a.Status)
	assert.Equal(t, 1, a.Priority)
	require.NotNil(t, a.StartDate)
	assert.Nil(t, a.EndDate)

	in := baseInput("Bad", PlacementFooter)
	in.Placement = "popup"
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidPlacement)

	start := time.Now().Add(48 * time.Hour)
	end := time.Now()
	in = baseInput("Window", PlacementFooter)
	in.StartDate, in.EndDate = &start, &end
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestList_PublicSeesOnlyServableAds(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	past := time.Now().Add(-48 * time.Hour)
	yesterday := time.Now().Add(-24 * time.Hour)
	tomorrow := time.Now().Add(24 * time.Hour)

	live := baseInput("live", PlacementSidebarTop)
	live.Priority = 2
	mustCreate(t, svc, live)

	paused := baseInput("paused", PlacementSidebarTop)
	paused.Status = StatusPaused
	paused.Priority = 10
	mustCreate(t, svc, paused)

	future := baseInput("future", PlacementSidebarTop)
	future.StartDate = &tomorrow
	future.Priority = 10
	mustCreate(t, svc, future)

	ended := baseInput("ended", PlacementSidebarTop)
	ended.StartDate, ended.EndDate = &past, &yesterday
	ended.Priority = 10
	mustCreate(t, svc, ended)

	public, err := svc.List(ctx, ListQuery{Placement: PlacementSidebarTop, Status: StatusPaused})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "live", public[0].Title)

	served, err := svc.Serve(ctx, PlacementSidebarTop)
	require.NoError(t, err)
	require.NotNil(t, served)
	assert.Equal(t, "live", served.Title)

	all, err := svc.List(ctx, ListQuery{Admin: true})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	onlyPaused, err := svc.List(ctx, ListQuery{Admin: true, Status: StatusPaused})
	require.NoError(t, err)
	require.Len(t, onlyPaused, 1)
	assert.Equal(t, "paused", onlyPaused[0].Title)

	none, err := svc.Serve(ctx, PlacementFooter)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = svc.Serve(ctx, "popup")
	assert.ErrorIs(t, err, ErrInvalidPlacement)
}

func TestList_OrderByPriorityThenRecency(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	low := mustCreate(t, svc, baseInput("low", PlacementInContent))
	older := baseInput("high-older", PlacementInContent)
	older.Priority = 5
	o := mustCreate(t, svc, older)
	newer := baseInput("high-newer", PlacementInContent)
	newer.Priority = 5
	n := mustCreate(t, svc, newer)

	// spread creation times so the tie-break is deterministic
	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&Advertisement{}).Where("id = ?", low.ID).Update("created_at", base.Add(3*time.Minute)).Error)
	require.NoError(t, db.Model(&Advertisement{}).Where("id = ?", o.ID).Update("created_at", base).Error)
	require.NoError(t, db.Model(&Advertisement{}).Where("id = ?", n.ID).Update("created_at", base.Add(time.Minute)).Error)

	ads, err := svc.List(ctx, ListQuery{Placement: PlacementInContent})
	require.NoError(t, err)
	require.Len(t, ads, 3)
	assert.Equal(t, []string{"high-newer", "high-older", "low"}, []string{ads[0].Title, ads[1].Title, ads[2].Title})
}

func TestTrack_ClickReturnsStoredURL(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	in := baseInput("Telecom", PlacementHeader)
	a := mustCreate(t, svc, in)

	got, err := svc.Track(ctx, TrackInput{AdID: a.ID, EventType: EventClick, IP: "10.0.0.1", UserAgent: "ua"})
	require.NoError(t, err)
	assert.Equal(t, in.ClickURL, got.ClickURL)

	var ev AdEvent
	require.NoError(t, db.First(&ev, "ad_id = ?", a.ID).Error)
	assert.Equal(t, EventClick, ev.EventType)
	assert.Equal(t, "10.0.0.1", ev.UserIP)
	assert.Nil(t, ev.Referrer)
}

func TestTrack_RejectsUnservableAds(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	tomorrow := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-48 * time.Hour)
	yesterday := time.Now().Add(-24 * time.Hour)

	paused := baseInput("paused", PlacementFooter)
	paused.Status = StatusPaused
	future := baseInput("future", PlacementFooter)
	future.StartDate = &tomorrow
	ended := baseInput("ended", PlacementFooter)
	ended.StartDate, ended.EndDate = &past, &yesterday

	cases := []struct {
		in   CreateInput
		want error
	}{
		{paused, ErrAdNotActive},
		{future, ErrAdNotStarted},
		{ended, ErrAdExpired},
	}
	for _, tc := range cases {
		a := mustCreate(t, svc, tc.in)
		_, err := svc.Track(ctx, TrackInput{AdID: a.ID, EventType: EventImpression})
		assert.ErrorIs(t, err, tc.want, tc.in.Title)
	}

	_, err := svc.Track(ctx, TrackInput{AdID: "missing", EventType: EventImpression})
	assert.ErrorIs(t, err, ErrAdNotFound)

	var n int64
	require.NoError(t, db.Model(&AdEvent{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSummary(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, baseInput("A", PlacementHeader))
	b := mustCreate(t, svc, baseInput("B", PlacementFooter))

	for i := 0; i < 4; i++ {
		_, err := svc.Track(ctx, TrackInput{AdID: a.ID, EventType: EventImpression})
		require.NoError(t, err)
	}
	_, err := svc.Track(ctx, TrackInput{AdID: a.ID, EventType: EventClick})
	require.NoError(t, err)
	_, err = svc.Track(ctx, TrackInput{AdID: b.ID, EventType: EventClick})
	require.NoError(t, err)

	// an old impression only counts in the unbounded range
	require.NoError(t, db.Create(&AdEvent{
		AdID: b.ID, EventType: EventImpression, CreatedAt: time.Now().UTC().Add(-10 * 24 * time.Hour),
	}).Error)

	res, err := svc.Summary(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, Range7d, res.TimeRange)
	assert.Equal(t, 6, res.TotalRecords)

	byID := map[string]AdSummary{}
	for _, s := range res.Summary {
		byID[s.ID] = s
	}
	assert.Equal(t, int64(4), byID[a.ID].Impressions)
	assert.Equal(t, int64(1), byID[a.ID].Clicks)
	assert.Equal(t, 25.0, byID[a.ID].CTR)
	assert.Equal(t, "A", byID[a.ID].Title)
	assert.Equal(t, PlacementHeader, byID[a.ID].Placement)
	assert.NotNil(t, byID[a.ID].LatestActivity)
	assert.Equal(t, 0.0, byID[b.ID].CTR)

	res, err = svc.Summary(ctx, b.ID, RangeAll)
	require.NoError(t, err)
	require.Len(t, res.Summary, 1)
	assert.Equal(t, int64(1), res.Summary[0].Impressions)
	assert.Equal(t, 100.0, res.Summary[0].CTR)

	_, err = svc.Summary(ctx, "", "90d")
	assert.ErrorIs(t, err, ErrInvalidRange)

	withTotals, err := svc.List(ctx, ListQuery{Admin: true, Analytics: true, Placement: PlacementHeader})
	require.NoError(t, err)
	require.Len(t, withTotals, 1)
	assert.Equal(t, int64(4), withTotals[0].TotalImpressions)
	assert.Equal(t, 25.0, withTotals[0].CTRPercentage)
}

func TestUpdateAndDelete(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	a := mustCreate(t, svc, baseInput("A", PlacementHeader))

	paused := StatusPaused
	title := "A2"
	updated, err := svc.Update(ctx, a.ID, UpdateInput{Status: &paused, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, updated.Status)
	assert.Equal(t, "A2", updated.Title)
	assert.Equal(t, a.ClickURL, updated.ClickURL)

	bad := Placement("popup")
	_, err = svc.Update(ctx, a.ID, UpdateInput{Placement: &bad})
	assert.ErrorIs(t, err, ErrInvalidPlacement)

	_, err = svc.Update(ctx, "missing", UpdateInput{Title: &title})
	assert.ErrorIs(t, err, ErrAdNotFound)

	active := StatusActive
	_, err = svc.Update(ctx, a.ID, UpdateInput{Status: &active})
	require.NoError(t, err)
	_, err = svc.Track(ctx, TrackInput{AdID: a.ID, EventType: EventImpression})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrAdNotFound)

	var n int64
	require.NoError(t, db.Model(&AdEvent{}).Where("ad_id = ?", a.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdate_BlankDescriptionStoresNull(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	in := baseInput("Bank", PlacementHeader)
	in.Description = "Savings week"
	a := mustCreate(t, svc, in)
	require.NotNil(t, a.Description)

	desc := "  Festival savings  "
	updated, err := svc.Update(ctx, a.ID, UpdateInput{Description: &desc})
	require.NoError(t, err)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Festival savings", *updated.Description)

	blank := "   "
	updated, err = svc.Update(ctx, a.ID, UpdateInput{Description: &blank})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)

	plain := mustCreate(t, svc, baseInput("Plain", PlacementFooter))
	assert.Nil(t, plain.Description)
}

func TestUpdate_DateWindow(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	in := baseInput("Festival", PlacementSidebarTop)
	end := time.Now().UTC().Add(48 * time.Hour)
	in.EndDate = &end
	a := mustCreate(t, svc, in)

	before := a.StartDate.Add(-time.Hour)
	_, err := svc.Update(ctx, a.ID, UpdateInput{EndDate: SetTime(&before)})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	updated, err := svc.Update(ctx, a.ID, UpdateInput{EndDate: SetTime(nil)})
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)
	require.NotNil(t, updated.StartDate)

	updated, err = svc.Update(ctx, a.ID, UpdateInput{StartDate: SetTime(nil), EndDate: SetTime(&before)})
	require.NoError(t, err)
	assert.Nil(t, updated.StartDate)
	require.NotNil(t, updated.EndDate)
	assert.WithinDuration(t, before, *updated.EndDate, time.Second)
}
