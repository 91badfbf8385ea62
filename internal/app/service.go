// Package service provides the portal's business facade used by the HTTP API:
// filtered views over the store, badge classification and activity ingestion.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/alumni/internal/adapters/mq/queue"
	workerpool "github.com/okian/alumni/internal/adapters/mq/worker"
	"github.com/okian/alumni/internal/adapters/repository"
	"github.com/okian/alumni/internal/domain/badge"
	"github.com/okian/alumni/internal/domain/dedupe"
	"github.com/okian/alumni/internal/domain/model"
	"github.com/okian/alumni/pkg/logger"
	"github.com/okian/alumni/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = 10_000
	defaultDedupeSize = 50_000
)

// Service implements the API dependencies for the portal.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	classifier *badge.Classifier

	// Activity ingestion, built by Start.
	deduper dedupe.Deduper
	queue   eventqueue.Queue
	pool    *workerpool.Pool

	workerCount int
	queueSize   int
	dedupeSize  int

	started bool
	logger  logger.Logger
}

// New constructs a Service over store. Read views work immediately;
// activity ingestion needs Start.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		classifier:  badge.NewClassifier(),
		workerCount: runtime.NumCPU() * 2,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		logger:      logger.OrNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds and starts the activity pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting portal service...")

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	q := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.queue = q
	s.pool = workerpool.NewPool(s.workerCount, q, s.store, workerpool.WithLogger(s.logger.Named("worker")))
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "portal service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("people", s.store.Count(ctx)),
	)
	return nil
}

// Stop closes the queue and waits for workers to apply what was accepted.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping portal service...")

	err := s.pool.Shutdown(ctx)
	s.started = false
	if err != nil {
		s.logger.Warn(ctx, "activity workers did not drain", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "portal service stopped", logger.Int("activities_applied", int(s.pool.Processed())))
	return nil
}

// SubmitResult reports what happened to a submitted activity.
type SubmitResult struct {
	EventID   string
	Duplicate bool
}

// Submit validates an activity and queues it for a worker. An activity whose
// id was already accepted is acknowledged as a duplicate and dropped. A full
// queue returns ErrBackpressure and forgets the id so the client may retry.
func (s *Service) Submit(ctx context.Context, a model.Activity) (SubmitResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return SubmitResult{}, ErrNotStarted
	}

	a.PersonID = strings.TrimSpace(a.PersonID)
	if a.PersonID == "" {
		return SubmitResult{}, fmt.Errorf("%w: person_id is required", ErrInvalidActivity)
	}
	if a.Points > model.MaxActivityPoints || a.Points < -model.MaxActivityPoints {
		return SubmitResult{}, fmt.Errorf("%w: points %d outside ±%d", ErrInvalidActivity, a.Points, model.MaxActivityPoints)
	}
	if _, err := s.store.Person(ctx, a.PersonID); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrInvalidActivity, err)
	}
	if a.EventID == "" {
		a.EventID = uuid.NewString()
	}
	if a.TS.IsZero() {
		a.TS = time.Now().UTC()
	}

	if s.deduper.SeenAndRecord(ctx, a.EventID) {
		metrics.RecordActivityDuplicate()
		s.logger.Debug(ctx, "duplicate activity dropped", logger.String("event_id", a.EventID))
		return SubmitResult{EventID: a.EventID, Duplicate: true}, nil
	}

	if err := s.queue.Enqueue(ctx, a); err != nil {
		s.deduper.Unrecord(ctx, a.EventID)
		if errors.Is(err, eventqueue.ErrFull) {
			return SubmitResult{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		if errors.Is(err, eventqueue.ErrClosed) {
			return SubmitResult{}, fmt.Errorf("%w: %w", ErrNotStarted, err)
		}
		return SubmitResult{}, err
	}

	s.logger.Debug(ctx, "activity queued",
		logger.String("event_id", a.EventID),
		logger.String("person_id", a.PersonID),
		logger.String("kind", a.Kind),
		logger.Int("points", a.Points),
	)
	return SubmitResult{EventID: a.EventID}, nil
}

// GetStats returns pipeline statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"people":      s.store.Count(ctx),
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		stats["activitiesApplied"] = s.pool.Processed()
	}
	return stats
}
