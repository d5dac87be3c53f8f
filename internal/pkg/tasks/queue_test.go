package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	results map[string]error
	done    chan string
}

func newRecorder() *recorder {
	return &recorder{results: map[string]error{}, done: make(chan string, 16)}
}

func (r *recorder) onDone(name string, err error) {
	r.mu.Lock()
	r.results[name] = err
	r.mu.Unlock()
	r.done <- name
}

func (r *recorder) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for task %d of %d", i+1, n)
		}
	}
}

func TestQueue_RunsTasksAndRecordsFailures(t *testing.T) {
	rec := newRecorder()
	q := New(Config{Workers: 2, QueueSize: 8, OnDone: rec.onDone})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = q.Serve(ctx) }()

	require.NoError(t, q.Enqueue("ok", func(ctx context.Context) error { return nil }))
	require.NoError(t, q.Enqueue("bad", func(ctx context.Context) error { return errors.New("boom") }))
	require.NoError(t, q.Enqueue("panics", func(ctx context.Context) error { panic("kaboom") }))

	rec.wait(t, 3)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.NoError(t, rec.results["ok"])
	assert.EqualError(t, rec.results["bad"], "boom")
	assert.ErrorContains(t, rec.results["panics"], "kaboom")

	stats := q.Stats()
	assert.Equal(t, int64(3), stats.Enqueued)
	assert.Equal(t, int64(1), stats.Succeeded)
	assert.Equal(t, int64(2), stats.Failed)
}

func TestQueue_EnqueueNeverBlocks(t *testing.T) {
	q := New(Config{Workers: 1, QueueSize: 1})

	require.NoError(t, q.Enqueue("first", func(ctx context.Context) error { return nil }))
	err := q.Enqueue("second", func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, int64(1), q.Stats().Dropped)
	assert.Equal(t, 1, q.Stats().Pending)
}

func TestQueue_TaskContextHasTimeout(t *testing.T) {
	rec := newRecorder()
	q := New(Config{Workers: 1, QueueSize: 1, Timeout: 20 * time.Millisecond, OnDone: rec.onDone})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = q.Serve(ctx) }()

	require.NoError(t, q.Enqueue("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	rec.wait(t, 1)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.ErrorIs(t, rec.results["slow"], context.DeadlineExceeded)
}

func TestQueue_ServeReturnsOnCancel(t *testing.T) {
	q := New(Config{Workers: 3})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- q.Serve(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
