// Package worker values queued companies concurrently.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/finmacro/internal/adapters/mq/queue"
	"github.com/okian/finmacro/internal/domain/model"
	"github.com/okian/finmacro/pkg/logger"
	"github.com/okian/finmacro/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Valuer values one company.
type Valuer interface {
	Value(ctx context.Context, c model.Company) (model.Valuation, error)
}

// Updater stores a finished valuation.
type Updater interface {
	Put(ctx context.Context, v model.Valuation) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
	Len(ctx context.Context) int
}

// Worker processes jobs using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until the queue drains or ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// counters are shared by the workers of one pool.
type counters struct {
	active    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	valuer  Valuer
	updater Updater
	name    string
	stats   *counters

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, valuer Valuer, updater Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		valuer:   valuer,
		updater:  updater,
		name:     "worker",
		stats:    &counters{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(logger.String("worker", w.name))
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			w.queue.Len(ctx) // refreshes the queue size gauge
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "job failed",
					logger.String("ticker", job.Company.Symbol),
					logger.String("job_id", job.ID),
					logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob values one company and stores the result. Unavailable methods
// are not failures; only fetch and store errors are.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.stats.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.stats.active.Add(-1)))
		metrics.RecordJobLatency(float64(time.Since(start).Milliseconds()))
	}()

	v, err := w.valuer.Value(ctx, job.Company)
	if err != nil {
		w.fail("valuation_error")
		return fmt.Errorf("%w: %s: %w", ErrValuation, job.Company.Symbol, err)
	}
	v.RunID = job.RunID

	if err := w.updater.Put(ctx, v); err != nil {
		w.fail("store_error")
		return fmt.Errorf("%w: %s: %w", ErrStore, job.Company.Symbol, err)
	}

	for _, r := range v.Results() {
		metrics.RecordValuation(string(r.Method), r.Available)
	}
	metrics.RecordJobCompleted()
	w.stats.completed.Add(1)

	w.logger.Info(ctx, "company valued",
		logger.String("ticker", v.Ticker),
		logger.Int("available", v.AvailableCount()),
		logger.String("dfe", v.DFE.String()),
		logger.String("dcf", v.DCF.String()),
		logger.String("price_to_sales", v.PS.String()),
		logger.String("price_to_earnings", v.PE.String()))
	return nil
}

func (w *InMemoryWorker) fail(kind string) {
	w.stats.failed.Add(1)
	metrics.RecordJobFailed()
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", kind)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	stats   *counters
	wg      sync.WaitGroup

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers; less than one means
// runtime.NumCPU(). opts apply to every worker.
func NewPool(workerCount int, q Queue, valuer Valuer, updater Updater, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		stats:   &counters{},
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		w := NewInMemoryWorker(q, valuer, updater,
			append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)...)
		w.stats = pool.stats
		pool.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Completed returns how many jobs were valued and stored.
func (p *Pool) Completed() int64 { return p.stats.completed.Load() }

// Failed returns how many jobs could not be valued or stored.
func (p *Pool) Failed() int64 { return p.stats.failed.Load() }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
	p.logger.Debug(ctx, "workers started", logger.Int("workers", len(p.workers)))
}

// Wait blocks until every worker has returned, which happens once the queue
// is closed and drained, or until ctx is done.
func (p *Pool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for workers: %w", ctx.Err())
	}
}

// Stop stops all workers after their current job, without draining the
// queue.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
}

// Shutdown closes the queue, if it can be closed, and waits for the workers
// to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	return p.Wait(ctx)
}
