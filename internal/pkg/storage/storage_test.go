package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newznepal/internal/config"
)

func TestValidateKey(t *testing.T) {
	assert.NoError(t, ValidateKey("1700000000000-abc123.png"))
	for _, bad := range []string{"", "..", "../etc/passwd", "a/b.png", `a\b.png`, "x..y"} {
		assert.ErrorIs(t, ValidateKey(bad), ErrInvalidKey, bad)
	}
}

func TestLocalStore_PutDeleteAndKeyFromURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/static/news-images")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "pic.png", strings.NewReader("data"), 4, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/static/news-images/pic.png", url)

	content, err := os.ReadFile(filepath.Join(dir, "pic.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	key, ok := store.KeyFromURL("https://newznepal.com" + url)
	require.True(t, ok)
	assert.Equal(t, "pic.png", key)

	require.NoError(t, store.Delete(context.Background(), key))
	assert.ErrorIs(t, store.Delete(context.Background(), key), ErrNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/static/news-images")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.png", strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, store.Delete(context.Background(), "../escape.png"), ErrInvalidKey)
}

func TestKeyFromURL_ForeignURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/static/news-images")
	require.NoError(t, err)

	_, ok := store.KeyFromURL("https://cdn.example.com/other/pic.png")
	assert.False(t, ok)

	key, ok := store.KeyFromURL("https://x.supabase.co/storage/v1/object/public/news-images/a.jpg?v=2")
	assert.True(t, ok)
	assert.Equal(t, "a.jpg", key)
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Store_PutAndDelete(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	store, err := NewS3Store(config.StorageConfig{
		Bucket:             "news-images",
		AWSRegion:          "us-east-1",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
		AWSEndpoint:        srv.URL,
		S3UseSSL:           false,
	})
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "photo.jpg", strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/news-images/photo.jpg", url)

	fake.mu.Lock()
	assert.Equal(t, "jpeg-bytes", fake.objects["/news-images/photo.jpg"])
	assert.Equal(t, "image/jpeg", fake.types["/news-images/photo.jpg"])
	fake.mu.Unlock()

	key, ok := store.KeyFromURL(url)
	require.True(t, ok)
	require.NoError(t, store.Delete(context.Background(), key))

	fake.mu.Lock()
	_, exists := fake.objects["/news-images/photo.jpg"]
	fake.mu.Unlock()
	assert.False(t, exists)
}
