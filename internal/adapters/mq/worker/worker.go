// Package worker applies queued activities to person scores.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/alumni/internal/domain/model"
	"github.com/okian/alumni/pkg/logger"
	"github.com/okian/alumni/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Applier awards activity points to a person.
type Applier interface {
	AwardPoints(ctx context.Context, personID string, points int) (model.Person, error)
}

// Queue defines how workers receive activities.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Activity
}

// Worker processes activities until its queue is drained or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker without waiting for the queue to drain.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	applier Applier
	name    string

	processed atomic.Int64

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		applier:  applier,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.OrNop().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop. It returns when ctx is canceled, Shutdown is
// called, or the queue channel is closed.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	// A private context so the dequeue goroutine also stops on Shutdown.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	activities := w.queue.Dequeue(runCtx)
	for {
		select {
		case <-runCtx.Done():
			return
		case <-w.shutdown:
			return
		case a, ok := <-activities:
			if !ok {
				return
			}
			if err := w.process(runCtx, a); err != nil {
				w.logger.Error(runCtx, "error processing activity", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker and waits for its loop to exit.
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

// Processed returns how many activities this worker applied.
func (w *InMemoryWorker) Processed() int64 {
	return w.processed.Load()
}

func (w *InMemoryWorker) process(ctx context.Context, a model.Activity) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	p, err := w.applier.AwardPoints(ctx, a.PersonID, a.Points)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordActivityRejected()
		return fmt.Errorf("apply activity %s: %w", a.EventID, err)
	}

	w.processed.Add(1)
	metrics.RecordActivityProcessed(a.Points)
	w.logger.Debug(ctx, "activity applied",
		logger.String("event_id", a.EventID),
		logger.String("person_id", a.PersonID),
		logger.String("kind", a.Kind),
		logger.Int("points", a.Points),
		logger.Int("score", p.Score),
	)
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	started atomic.Bool
	logger  logger.Logger
}

// NewPool creates a worker pool. A non-positive count defaults to
// twice the CPU count.
func NewPool(workerCount int, queue Queue, applier Applier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.OrNop().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(queue, applier, wopts...)
	}
	return pool
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns how many activities the pool applied.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Processed()
	}
	return n
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerCount(len(p.workers))
}

// Stop signals every worker to exit without draining the queue.
func (p *Pool) Stop(ctx context.Context) {
	if !p.started.Load() {
		return
	}
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker stop timed out", logger.String("worker", w.name))
		}
	}
	metrics.UpdateWorkerCount(0)
}

// Shutdown closes the queue and waits for the workers to drain it. Workers
// still running when ctx (or the pool timeout) expires are stopped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	if !p.started.Load() {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
		}
	}
	if timedOut {
		p.Stop(context.Background())
		return fmt.Errorf("pool shutdown: %w", shutdownCtx.Err())
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
