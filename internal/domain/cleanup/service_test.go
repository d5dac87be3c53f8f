package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"newznepal/internal/database"
	"newznepal/internal/domain/post"
	"newznepal/internal/middleware"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

func (m *mockStore) KeyFromURL(url string) (string, bool) {
	i := strings.LastIndex(url, "/news-images/")
	if i < 0 {
		return "", false
	}
	return url[i+len("/news-images/"):], true
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSilent(fmt.Sprintf("file:cleanup_test_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&post.Post{}))
	return db
}

func seed(t *testing.T, db *gorm.DB, title string, age time.Duration, image string) *post.Post {
	t.Helper()
	p := &post.Post{
		Title: title, Summary: "s", Content: "c", Category: post.CategoryPolitics,
		CreatedAt: now.Add(-age), UpdatedAt: now.Add(-age),
	}
	if image != "" {
		p.ImageURL = &image
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func remaining(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var titles []string
	require.NoError(t, db.Model(&post.Post{}).Order("title").Pluck("title", &titles).Error)
	return titles
}

const day = 24 * time.Hour

func TestRun_DeletesExpiredAndIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	store := &mockStore{}
	store.On("Delete", "old.png").Return(nil)

	seed(t, db, "a-fresh", 2*day, "")
	seed(t, db, "b-edge", 29*day+23*time.Hour, "")
	seed(t, db, "c-old", 31*day, "https://cdn.example/storage/news-images/old.png")
	seed(t, db, "d-ancient", 90*day, "https://elsewhere.example/picture.jpg")

	svc := NewService(post.NewRepository(db), store, 30)

	res, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.DeletedCount)
	assert.Equal(t, 1, res.ImagesDeleted)
	assert.Equal(t, "Deleted 2 posts older than 30 days", res.Message)
	assert.Equal(t, []string{"a-fresh", "b-edge"}, remaining(t, db))
	store.AssertExpectations(t)

	res, err = svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.DeletedCount)
	assert.Equal(t, "No expired posts to delete", res.Message)
	store.AssertNumberOfCalls(t, "Delete", 1)
}

func TestRun_ImageFailureStillDeletesRows(t *testing.T) {
	db := setupTestDB(t)
	store := &mockStore{}
	store.On("Delete", "broken.png").Return(errors.New("bucket unreachable"))

	seed(t, db, "old", 45*day, "/static/news-images/broken.png")

	res, err := NewService(post.NewRepository(db), store, 30).Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)
	assert.Equal(t, 0, res.ImagesDeleted)
	assert.Empty(t, remaining(t, db))
}

func TestRun_WithoutStore(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db, "old", 45*day, "/static/news-images/x.png")

	res, err := NewService(post.NewRepository(db), nil, 0).Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)
}

type purgeCounter struct{ calls int }

func (p *purgeCounter) PurgeExpired(context.Context) (int64, error) {
	p.calls++
	return 3, nil
}

func TestScheduler_TicksUntilCancelled(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db, "old", 400*day, "")

	svc := NewService(post.NewRepository(db), nil, 30)
	purger := &purgeCounter{}
	sched := NewScheduler(svc, purger, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Serve(ctx) }()

	require.Eventually(t, func() bool {
		var n int64
		db.Model(&post.Post{}).Count(&n)
		return n == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Positive(t, purger.calls)
}

func TestHandler_Triggers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	seed(t, db, "old", 45*day, "")

	svc := NewService(post.NewRepository(db), nil, 30)
	svc.now = func() time.Time { return now }

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"),
		func(c *gin.Context) { c.Next() },
		middleware.BearerSecret("cleanup", "cron-secret"))

	req := httptest.NewRequest(http.MethodGet, "/api/cleanup", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/cleanup", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"deletedCount":1`)

	req = httptest.NewRequest(http.MethodPost, "/api/cleanup", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No expired posts to delete")
}
