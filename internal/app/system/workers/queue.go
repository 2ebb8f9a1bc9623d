// internal/app/system/workers/queue.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/waffle/pantry/jobs"
	"go.uber.org/zap"
)

// DefaultBuffer is the job buffer used when NewQueue is given a size <= 0.
const DefaultBuffer = 256

// Handler processes one job. Its error is logged, never returned to the
// producer.
type Handler[T any] func(ctx context.Context, job T) error

// Queue is a background worker that runs a Handler for each enqueued job.
// Enqueue never blocks; when the buffer is full the job is dropped and logged.
// A single loop takes jobs from the buffer in order and hands them to a
// bounded pool, so with one worker jobs are handled in enqueue order.
type Queue[T any] struct {
	name    string
	handle  Handler[T]
	log     *zap.Logger
	timeout time.Duration
	workers int
	jobs    chan T
	pool    *jobs.Pool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// mu orders Enqueue against Stop: once stopped is set no job can reach
	// the buffer, so the final drain sees every accepted job.
	mu      sync.Mutex
	stopped bool

	startOnce sync.Once
	stopOnce  sync.Once
	pending   sync.WaitGroup
}

// NewQueue creates a worker.
//
// Parameters:
//   - name: used in log lines (e.g. "notifications")
//   - handle: called once per job with a context bounded by timeout
//   - logger: zap logger for logging
//   - buffer: how many jobs may wait before new ones are dropped
//   - workers: how many jobs may run at once (<= 0 means 1)
//   - timeout: per-job deadline
func NewQueue[T any](name string, handle Handler[T], logger *zap.Logger, buffer, workers int, timeout time.Duration) *Queue[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue[T]{
		name:    name,
		handle:  handle,
		log:     logger,
		timeout: timeout,
		workers: workers,
		jobs:    make(chan T, buffer),
		pool:    jobs.NewPool(workers, logger),
		stopCh:  make(chan struct{}),
	}
}

// Start begins the background loop.
func (q *Queue[T]) Start() {
	q.startOnce.Do(func() {
		q.wg.Add(1)
		go q.run()
		q.log.Info("worker started",
			zap.String("worker", q.name),
			zap.Int("buffer", cap(q.jobs)),
			zap.Int("workers", q.workers))
	})
}

// Stop rejects new jobs, runs the jobs already accepted, and waits for them
// to finish. A queue that was never started handles its buffer here.
func (q *Queue[T]) Stop() {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.stopped = true
		close(q.stopCh)
		q.mu.Unlock()

		q.startOnce.Do(func() {
			q.wg.Add(1)
			go q.run()
		})
		q.wg.Wait()
		q.log.Info("worker stopped", zap.String("worker", q.name))
	})
}

// Enqueue hands job to the worker. It reports whether the job was accepted.
func (q *Queue[T]) Enqueue(job T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		q.log.Warn("worker stopped; job dropped", zap.String("worker", q.name))
		return false
	}

	q.pending.Add(1)
	select {
	case q.jobs <- job:
		return true
	default:
		q.pending.Done()
		q.log.Warn("worker buffer full; job dropped", zap.String("worker", q.name))
		return false
	}
}

// Wait blocks until every accepted job has been handled. The worker must be
// running or stopped.
func (q *Queue[T]) Wait() {
	q.pending.Wait()
}

func (q *Queue[T]) run() {
	defer q.wg.Done()
	defer q.pool.Wait()

	for {
		select {
		case <-q.stopCh:
			q.drain()
			return
		case job := <-q.jobs:
			q.dispatch(job)
		}
	}
}

func (q *Queue[T]) drain() {
	for {
		select {
		case job := <-q.jobs:
			q.dispatch(job)
		default:
			return
		}
	}
}

// dispatch blocks while every worker is busy, which keeps the buffer as the
// only place jobs wait.
func (q *Queue[T]) dispatch(job T) {
	q.pool.Go(func() { q.process(job) })
}

func (q *Queue[T]) process(job T) {
	defer q.pending.Done()

	ctx := context.Background()
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			q.log.Error("worker job panicked", zap.String("worker", q.name), zap.Any("panic", r))
		}
	}()

	if err := q.handle(ctx, job); err != nil {
		q.log.Error("worker job failed", zap.String("worker", q.name), zap.Error(err))
	}
}
