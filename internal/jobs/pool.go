// Package jobs runs fire-and-forget background work with bounded concurrency.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job outcomes recorded in metrics.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusPanic   = "panic"
)

var (
	// jobsTotal counts finished jobs by name and outcome
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phasma_jobs_total",
		Help: "Total background jobs by name and status",
	}, []string{"job", "status"})

	// jobDuration tracks job latency
	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "phasma_job_duration_seconds",
		Help:    "Background job duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
	}, []string{"job"})
)

// Pool runs jobs on at most workers goroutines.
type Pool struct {
	ctx     context.Context
	group   errgroup.Group
	pending sync.WaitGroup
	logger  *zap.Logger
}

var _ contract.JobRunner = &Pool{} // Compile-time check

// NewPool returns a Pool whose jobs receive ctx.
func NewPool(ctx context.Context, workers int, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{ctx: ctx, logger: logger}
	p.group.SetLimit(workers)
	return p
}

// Submit schedules fn without blocking the caller and returns the job id.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) string {
	id := uuid.NewString()
	task := func() error {
		execute(p.ctx, p.logger, id, name, fn)
		return nil
	}
	if p.group.TryGo(task) {
		return id
	}

	// Saturated: queue behind the running jobs.
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		p.group.Go(task)
	}()
	p.logger.Debug("Job queued", zap.String("job", name), zap.String("id", id))
	return id
}

// Wait blocks until every submitted job has finished.
func (p *Pool) Wait() {
	p.pending.Wait()
	_ = p.group.Wait()
}

// execute runs one job, recording its outcome. Errors and panics are logged.
func execute(ctx context.Context, logger *zap.Logger, id, name string, fn func(ctx context.Context) error) {
	start := time.Now()
	status := StatusSuccess
	defer func() {
		if r := recover(); r != nil {
			status = StatusPanic
			logger.Error("Job panicked", zap.String("job", name), zap.String("id", id), zap.Any("panic", r))
		}
		elapsed := time.Since(start)
		jobsTotal.WithLabelValues(name, status).Inc()
		jobDuration.WithLabelValues(name).Observe(elapsed.Seconds())
		if status == StatusSuccess {
			logger.Info("Job finished", zap.String("job", name), zap.String("id", id), zap.Duration("took", elapsed))
		}
	}()

	if err := fn(ctx); err != nil {
		status = StatusError
		logger.Error("Job failed", zap.String("job", name), zap.String("id", id), zap.Error(err))
	}
}

// Inline runs jobs synchronously on Submit. Failures are kept for inspection.
type Inline struct {
	Logger *zap.Logger

	mu   sync.Mutex
	errs []error
}

var _ contract.JobRunner = &Inline{} // Compile-time check

// Submit runs fn immediately.
func (r *Inline) Submit(name string, fn func(ctx context.Context) error) string {
	id := uuid.NewString()
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	wrapped := func(ctx context.Context) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic: %v", rec)
				r.record(name, err)
				panic(rec)
			}
		}()
		if err = fn(ctx); err != nil {
			r.record(name, err)
		}
		return err
	}
	execute(context.Background(), logger, id, name, wrapped)
	return id
}

func (r *Inline) record(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, fmt.Errorf("%s: %w", name, err))
}

// Wait is a no-op since jobs already ran.
func (r *Inline) Wait() {}

// Errors returns the failures of the jobs run so far.
func (r *Inline) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}
