// Package tasks runs fire-and-forget work (newsletter fan-out, opportunistic
// cleanup) on a bounded in-process queue so failures are logged and counted
// instead of disappearing.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/metrics"
)

var ErrQueueFull = errors.New("task queue is full")

type Func = func(ctx context.Context) error

type Config struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
	// OnDone, when set, is called after every task with its result.
	OnDone func(name string, err error)
}

type Stats struct {
	Enqueued  int64
	Succeeded int64
	Failed    int64
	Dropped   int64
	Pending   int
}

type job struct {
	name string
	fn   Func
}

type Queue struct {
	jobs    chan job
	workers int
	timeout time.Duration
	onDone  func(name string, err error)

	enqueued  atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

func New(cfg Config) *Queue {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &Queue{
		jobs:    make(chan job, cfg.QueueSize),
		workers: cfg.Workers,
		timeout: cfg.Timeout,
		onDone:  cfg.OnDone,
	}
}

// Enqueue never blocks. It returns ErrQueueFull when no slot is free.
func (q *Queue) Enqueue(name string, fn Func) error {
	select {
	case q.jobs <- job{name: name, fn: fn}:
		q.enqueued.Add(1)
		metrics.TaskQueueDepth.Set(float64(len(q.jobs)))
		return nil
	default:
		q.dropped.Add(1)
		metrics.Tasks.WithLabelValues(name, "dropped").Inc()
		logger.Warn().Str("task", name).Msg("task dropped: queue full")
		return ErrQueueFull
	}
}

// Serve runs the workers until ctx is cancelled. Tasks still queued at that
// point stay in the buffer and are picked up if Serve is started again.
func (q *Queue) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			q.work(ctx, id)
		}(i)
	}
	logger.Info().Int("workers", q.workers).Msg("task queue started")

	wg.Wait()
	if pending := len(q.jobs); pending > 0 {
		logger.Warn().Int("pending", pending).Msg("task queue stopped with pending tasks")
	}
	return ctx.Err()
}

func (q *Queue) work(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-q.jobs:
			metrics.TaskQueueDepth.Set(float64(len(q.jobs)))
			q.run(ctx, id, j)
		}
	}
}

func (q *Queue) run(parent context.Context, worker int, j job) {
	ctx, cancel := context.WithTimeout(parent, q.timeout)
	defer cancel()

	start := time.Now()
	err := safeCall(ctx, j.fn)

	if err != nil {
		q.failed.Add(1)
		metrics.Tasks.WithLabelValues(j.name, "failure").Inc()
		logger.Error().
			Err(err).
			Str("task", j.name).
			Int("worker", worker).
			Dur("duration", time.Since(start)).
			Msg("task failed")
	} else {
		q.succeeded.Add(1)
		metrics.Tasks.WithLabelValues(j.name, "success").Inc()
		logger.Debug().
			Str("task", j.name).
			Dur("duration", time.Since(start)).
			Msg("task done")
	}

	if q.onDone != nil {
		q.onDone(j.name, err)
	}
}

func safeCall(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn(ctx)
}

func (q *Queue) Stats() Stats {
	return Stats{
		Enqueued:  q.enqueued.Load(),
		Succeeded: q.succeeded.Load(),
		Failed:    q.failed.Load(),
		Dropped:   q.dropped.Load(),
		Pending:   len(q.jobs),
	}
}

func (q *Queue) String() string {
	return "task-queue"
}
