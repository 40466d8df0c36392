package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mjseo/auditor/internal/platform/errs"
)

// Queue is the in-process job queue feeding the audit workers. Jobs are
// buffered; a full buffer rejects new audits rather than blocking the
// request that created them.
type Queue struct {
	jobs   chan Job
	orch   *Orchestrator
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewQueue(orch *Orchestrator, buffer int, logger *slog.Logger) *Queue {
	if buffer < 1 {
		buffer = 64
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Queue{jobs: make(chan Job, buffer), orch: orch, logger: logger}
}

// Start launches workers draining the queue until ctx is canceled. Each
// worker finishes its in-flight audit's persistence before exiting; the
// pipeline checks ctx at its suspension points.
func (q *Queue) Start(ctx context.Context, workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := range workers {
		q.wg.Go(func() {
			q.logger.Debug("audit worker started", "worker", i)
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-q.jobs:
					if !ok {
						return
					}
					if err := q.orch.Process(ctx, job); err != nil {
						q.logger.Warn("audit interrupted", "audit_id", job.AuditID, "error", err)
					}
				}
			}
		})
	}
}

// Enqueue adds a job, failing fast when the queue is saturated or shutting
// down.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return &errs.AppError{Kind: errs.QuotaExceeded, Message: "service is shutting down"}
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return &errs.AppError{Kind: errs.QuotaExceeded, Message: "audit queue is full, try again shortly"}
	}
}

// Shutdown stops accepting jobs and waits for the workers to drain what is
// already queued. The workers' context governs how long in-flight audits may
// keep running.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
