// Package service runs valuation batches: it deduplicates the submitted
// companies, queues them for a worker pool and collects the valuations.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/finmacro/internal/adapters/mq/queue"
	"github.com/okian/finmacro/internal/adapters/mq/worker"
	"github.com/okian/finmacro/internal/adapters/repository"
	"github.com/okian/finmacro/internal/domain/dedupe"
	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/internal/domain/valuation"
	"github.com/okian/finmacro/pkg/logger"
	"github.com/okian/finmacro/pkg/metrics"
)

// Service defaults.
const (
	DefaultQueueSize  = 1024
	DefaultDedupeSize = 10000
)

// Service values batches of companies with a worker pool.
type Service struct {
	mu sync.RWMutex

	// Core components
	valuer    worker.Valuer
	store     repository.Store
	ownsStore bool
	deduper   dedupe.Deduper
	jobs      *queue.InMemoryQueue
	pool      *worker.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int

	// State
	started   bool
	runID     string
	startedAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   DefaultQueueSize,
		dedupeSize:  DefaultDedupeSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.ownsStore = true
	}
	return s
}

// Start begins a new run. Without an injected store every run starts from
// an empty one. Starting a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.valuer == nil {
		return ErrNoValuer
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.runID = uuid.NewString()
	s.startedAt = time.Now()
	if s.ownsStore {
		s.store = repository.NewMemoryStore()
	}
	s.deduper = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.jobs, s.valuer, s.store,
		worker.WithLogger(s.logger.Named("worker")))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "valuation run started",
		logger.String("run_id", s.runID),
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Submit queues c for valuation. It returns false for an empty or repeated
// ticker and when the queue does not accept the job before ctx is done.
func (s *Service) Submit(ctx context.Context, c model.Company) bool { //nolint:gocritic // hugeParam: copied into the job
	s.mu.RLock()
	started, deduper, jobs, runID := s.started, s.deduper, s.jobs, s.runID
	s.mu.RUnlock()

	if !started {
		return false
	}
	key := dedupe.Key(c.Symbol)
	if key == "" {
		s.logger.Warn(ctx, "company without ticker skipped", logger.String("name", c.Name))
		return false
	}
	if deduper.SeenAndRecord(ctx, key) {
		metrics.RecordDuplicateTicker()
		s.logger.Debug(ctx, "duplicate ticker skipped", logger.String("ticker", key))
		return false
	}

	c.Symbol = key
	job := queue.Job{ID: uuid.NewString(), RunID: runID, Company: c}
	if !jobs.Enqueue(ctx, job) {
		deduper.Unrecord(ctx, key)
		s.logger.Warn(ctx, "job not queued", logger.String("ticker", key))
		return false
	}
	metrics.RecordJobSubmitted()
	return true
}

// Wait closes the run to new submissions and blocks until every queued
// company has been processed or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	s.mu.RLock()
	started, pool, runID, startedAt := s.started, s.pool, s.runID, s.startedAt
	s.mu.RUnlock()

	if !started {
		return ErrNotStarted
	}
	err := pool.Shutdown(ctx)
	if err != nil {
		// Workers still running are told to stop after their current job.
		pool.Stop()
	}

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	elapsed := time.Since(startedAt)
	metrics.RecordBatch(elapsed)
	s.logger.Info(ctx, "valuation run finished",
		logger.String("run_id", runID),
		logger.Int("completed", int(pool.Completed())),
		logger.Int("failed", int(pool.Failed())),
		logger.String("elapsed", elapsed.String()),
	)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	return nil
}

// Run values companies in one batch and returns the stored valuations
// ordered by ticker. Companies that fail are logged and left out. When the
// batch does not finish before ctx ends, the valuations completed so far are
// returned together with the error.
func (s *Service) Run(ctx context.Context, companies []model.Company) ([]model.Valuation, error) {
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	for i := range companies {
		if ctx.Err() != nil {
			break
		}
		s.Submit(ctx, companies[i])
	}
	waitErr := s.Wait(ctx)

	vals, err := s.Results(context.WithoutCancel(ctx))
	if err != nil {
		return nil, errors.Join(waitErr, err)
	}
	return vals, waitErr
}

// Results returns the valuations of the latest run ordered by ticker.
func (s *Service) Results(ctx context.Context) ([]model.Valuation, error) {
	store := s.currentStore()
	if store == nil {
		return nil, ErrNotStarted
	}
	return store.List(ctx)
}

// Rank returns the n best tickers of the latest run by upside of method.
func (s *Service) Rank(ctx context.Context, method valuation.Method, n int) ([]repository.Entry, error) {
	store := s.currentStore()
	if store == nil {
		return nil, ErrNotStarted
	}
	return store.TopN(ctx, method, n)
}

func (s *Service) currentStore() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// RunID returns the identifier of the latest run.
func (s *Service) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// Stop abandons the current run without draining the queue.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	_ = s.jobs.Close()
	s.pool.Stop()
	s.started = false
	s.logger.Info(context.Background(), "valuation run stopped", logger.String("run_id", s.runID))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"runID":       s.runID,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.jobs != nil {
		queueLen := s.jobs.Len(ctx)
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
	}
	if s.store != nil {
		stats["stored"] = s.store.Count(ctx)
	}
	if s.pool != nil {
		stats["completed"] = s.pool.Completed()
		stats["failed"] = s.pool.Failed()
	}
	return stats
}
