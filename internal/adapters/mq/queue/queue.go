// Package queue carries character build requests from the HTTP layer to the
// worker pool through a bounded in-memory buffer.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/wardrobe/internal/domain/model"
	"github.com/okian/wardrobe/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Request is the payload flowing through the queue.
type Request = model.BuildRequest

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a request without blocking. It returns ErrFull when the
	// buffer is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, r Request) error

	// Dequeue returns a channel that yields requests until the queue is
	// closed and drained or ctx is done.
	Dequeue(ctx context.Context) <-chan Request

	// Len returns the current number of queued requests.
	Len() int

	// Close stops accepting requests; queued ones are still delivered.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	requests chan Request
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}

	for _, opt := range opts {
		opt(q)
	}

	q.requests = make(chan Request, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.observe()

	return q
}

// Enqueue adds a request to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Request) error { //nolint:gocritic // hugeParam: passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return err
	}

	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}

	select {
	case q.requests <- r:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that will receive requests as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Request {
	out := make(chan Request)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-q.requests:
				if !ok {
					return
				}
				select {
				case out <- r:
					metrics.RecordQueueDequeue()
					metrics.RecordQueueProcessingLatency(float64(time.Since(r.SubmittedAt).Milliseconds()))
					q.observe()
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued requests.
func (q *InMemoryQueue) Len() int {
	return len(q.requests)
}

// Capacity returns the configured capacity.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.requests)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() {
	size := len(q.requests)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
