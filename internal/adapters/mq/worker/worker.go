// Package worker turns queued build requests into stored characters.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/wardrobe/internal/domain/model"
	"github.com/okian/wardrobe/pkg/logger"
	"github.com/okian/wardrobe/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Request is what workers read off the queue.
type Request = model.BuildRequest

// Builder derives an avatar configuration from a free-text description.
type Builder interface {
	BuildAvatarConfiguration(description string) model.AvatarConfiguration
}

// Saver persists built characters.
type Saver interface {
	Save(ctx context.Context, c model.Character) error
}

// Queue defines how workers receive requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Request
}

// FailureHandler is told about requests that could not be stored.
type FailureHandler func(ctx context.Context, r Request, err error)

// Worker processes requests until its queue is drained or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker without waiting for the queue to drain.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	builder   Builder
	saver     Saver
	name      string
	onFailure FailureHandler
	now       func() time.Time

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, builder Builder, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		builder:  builder,
		saver:    saver,
		name:     "worker",
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case r, ok := <-requests:
			if !ok {
				return
			}
			if err := w.process(ctx, r); err != nil {
				w.logger.Error(ctx, "error building character",
					logger.String("request_id", r.RequestID),
					logger.Error(err),
				)
				if w.onFailure != nil {
					w.onFailure(ctx, r, err)
				}
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(ctx context.Context, r Request) error { //nolint:gocritic // hugeParam: passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	id := r.CharacterID
	if id == "" {
		id = uuid.NewString()
	}

	c := model.Character{
		ID:            id,
		Name:          r.Name,
		Description:   r.Description,
		Configuration: w.builder.BuildAvatarConfiguration(r.Description),
		CreatedAt:     w.now().UTC(),
	}

	if err := w.saver.Save(ctx, c); err != nil {
		metrics.RecordCharacterError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "save_failed")
		return fmt.Errorf("save character %s: %w", id, err)
	}

	metrics.RecordCharacterBuilt()
	w.logger.Debug(ctx, "character stored",
		logger.String("character_id", id),
		logger.String("request_id", r.RequestID),
		logger.Int("matches", len(c.Configuration.Matches)),
	)
	return nil
}

// Pool manages multiple workers reading from one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a worker pool. Options apply to every worker.
func NewPool(workerCount int, queue Queue, builder Builder, saver Saver, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{}, opts...)
		workerOpts = append(workerOpts, WithName("worker-"+strconv.Itoa(i)))
		pool.workers[i] = NewInMemoryWorker(queue, builder, saver, workerOpts...)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
}

// Shutdown closes the queue, lets workers drain what is left, and stops any
// worker still running when ctx (or the pool timeout) expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	drainCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var errs []error
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-drainCtx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
			errs = append(errs, w.Shutdown(stopCtx))
			stopCancel()
		}
	}
	metrics.UpdateWorkerActiveCount(0)

	return errors.Join(errs...)
}
