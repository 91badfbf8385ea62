// Package queue buffers submitted activities until a worker applies them.
package queue

import (
	"context"
	"sync"

	"github.com/okian/alumni/internal/domain/model"
	"github.com/okian/alumni/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Activity is the payload flowing through the queue.
type Activity = model.Activity

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an activity without blocking. It returns ErrFull when the
	// buffer is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, a Activity) error

	// Dequeue returns a channel that receives activities as they become
	// available. The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Activity

	// Len returns the current number of queued activities.
	Len(ctx context.Context) int

	// Close stops accepting activities. Buffered ones are still delivered.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	activities chan Activity
	capacity   int

	mu     sync.RWMutex
	closed bool
}

var _ Queue = (*InMemoryQueue)(nil)

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.activities = make(chan Activity, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, a Activity) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		return err
	}

	select {
	case q.activities <- a:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.activities))
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		return ErrFull
	}
}

func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Activity {
	out := make(chan Activity)
	go func() {
		defer close(out)
		for a := range q.activities {
			select {
			case out <- a:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.activities))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.activities)
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.activities)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
