// Package ingest discovers artifact files on disk and feeds them to the
// processing pipeline through a bounded worker queue.
package ingest

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"
)

// Job is the smallest useful unit: one file path to process.
type Job struct {
	Path        string
	SubmittedAt time.Time
	TraceID     string
}

// ProcessFunc handles one discovered file.
type ProcessFunc func(ctx context.Context, path string) error

// Queue drains jobs through a fixed worker pool.
type Queue struct {
	process ProcessFunc
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	prod   sync.WaitGroup
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewQueue(process ProcessFunc, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		process: process,
		logger:  logger,
		workers: 4,
		timeout: 10 * time.Minute,
		ch:      make(chan Job, 256),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("ingest.worker.started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.process(ctx, job.Path)
					cancel()

					if err != nil {
						q.logger.Error("ingest.process.failed",
							"worker_id", workerID, "path", job.Path, "trace_id", job.TraceID, "error", err)
					} else {
						q.logger.Info("ingest.process.ok",
							"worker_id", workerID, "path", job.Path, "trace_id", job.TraceID)
					}
				}

				q.logger.Info("ingest.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue queues a path for processing. Blocks when the buffer is full,
// but never while holding the queue lock, so a full buffer cannot stall
// Shutdown or other producers. A shutdown releases blocked producers.
func (q *Queue) Enqueue(path string) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("ingest.enqueue.rejected", "path", path)
		return
	}
	q.prod.Add(1)
	q.mu.Unlock()
	defer q.prod.Done()

	job := Job{Path: path, SubmittedAt: time.Now(), TraceID: uuid.New().String()}
	select {
	case q.ch <- job:
		return
	default:
	}
	q.logger.Warn("ingest.queue.full", "path", path)
	select {
	case q.ch <- job:
	case <-q.done:
		q.logger.Warn("ingest.enqueue.rejected", "path", path)
	}
}

// Shutdown stops intake and waits for in-flight jobs, or gives up when the
// context expires. The job channel only closes once every producer has
// left Enqueue.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	q.prod.Wait()
	close(q.ch)

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("ingest.shutdown.interrupted")
	case <-done:
		q.logger.Info("ingest.shutdown.complete")
	}
}
