// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	buildqueue "github.com/okian/wardrobe/internal/adapters/mq/queue"
	workerpool "github.com/okian/wardrobe/internal/adapters/mq/worker"
	"github.com/okian/wardrobe/internal/adapters/repository"
	"github.com/okian/wardrobe/internal/domain/catalog"
	"github.com/okian/wardrobe/internal/domain/dedupe"
	"github.com/okian/wardrobe/internal/domain/matcher"
	"github.com/okian/wardrobe/internal/domain/model"
	"github.com/okian/wardrobe/internal/domain/scoring"
	"github.com/okian/wardrobe/pkg/logger"
	"github.com/okian/wardrobe/pkg/metrics"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrQueueFull  = buildqueue.ErrFull
)

// Service matches descriptions against the catalog and builds characters
// asynchronously through a bounded queue and a worker pool.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog *catalog.Catalog
	matcher *matcher.Matcher
	store   repository.Store
	deduper dedupe.Deduper
	queue   *buildqueue.InMemoryQueue
	pool    *workerpool.Pool

	// Configuration
	workerCount  int
	queueSize    int
	dedupeSize   int
	dedupeTTL    time.Duration
	maxResults   int
	scoreWeights map[string]int
	storePath    string
	ownStore     bool

	// State
	started   bool
	startedAt time.Time
	stopPool  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of build workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the build queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the request-id cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDedupeTTL expires request ids after ttl.
func WithDedupeTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.dedupeTTL = ttl
		}
	}
}

// WithMaxResults caps FindAssets results.
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithScoreWeights overrides scorer bucket weights.
func WithScoreWeights(weights map[string]int) Option {
	return func(s *Service) {
		s.scoreWeights = weights
	}
}

// WithStorePath persists characters in a SQLite file at path.
func WithStorePath(path string) Option {
	return func(s *Service) {
		s.storePath = path
	}
}

// WithStore uses an existing store. The caller keeps ownership.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Service over c. Matching works immediately; the build
// pipeline needs Start.
func New(c *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:     c,
		workerCount: runtime.NumCPU(),
		queueSize:   10_000,
		dedupeSize:  50_000,
		maxResults:  10,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.matcher = matcher.New(c,
		matcher.WithMaxResults(s.maxResults),
		matcher.WithScorer(scoring.NewScorer(scoring.WithWeightsFromConfig(s.scoreWeights))),
	)
	metrics.UpdateCatalogEntries(c.Len())

	return s
}

// Start opens the store and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting wardrobe service...")

	if s.store == nil || s.ownStore {
		store, err := s.openStore(ctx)
		if err != nil {
			return err
		}
		s.store = store
		s.ownStore = true
	}

	dedupeOpts := []dedupe.Option{dedupe.WithMaxSize(s.dedupeSize)}
	if s.dedupeTTL > 0 {
		dedupeOpts = append(dedupeOpts, dedupe.WithTTL(s.dedupeTTL))
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupeOpts...)
	s.queue = buildqueue.NewInMemoryQueue(buildqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.matcher, s.store,
		workerpool.WithFailureHandler(s.onBuildFailure),
	)
	// Workers outlive ctx so Stop can drain accepted requests.
	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stopPool = cancel
	s.pool.Start(poolCtx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "wardrobe service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("catalogEntries", s.catalog.Len()),
		logger.String("store", s.storeKind()),
	)

	return nil
}

func (s *Service) openStore(ctx context.Context) (repository.Store, error) {
	if s.storePath == "" {
		return repository.NewTreapStore(), nil
	}
	store, err := repository.OpenSQLite(ctx, s.storePath)
	if err != nil {
		return nil, fmt.Errorf("open character store: %w", err)
	}
	return store, nil
}

func (s *Service) storeKind() string {
	if _, ok := s.store.(*repository.SQLiteStore); ok {
		return "sqlite"
	}
	return "memory"
}

// onBuildFailure forgets the request id so the client may resubmit it.
func (s *Service) onBuildFailure(ctx context.Context, r model.BuildRequest, err error) { //nolint:gocritic // matches worker.FailureHandler
	s.deduper.Unrecord(ctx, r.RequestID)
	metrics.RecordErrorByComponent("service", "build_failed")
	s.logger.Warn(ctx, "character build failed; request id released",
		logger.String("request_id", r.RequestID),
		logger.Error(err),
	)
}

// Stop drains the queue, stops the workers and closes an owned store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping wardrobe service...")

	var errs []error
	if s.pool != nil {
		errs = append(errs, s.pool.Shutdown(ctx))
	}
	drained := errors.Join(errs...) == nil
	if s.stopPool != nil {
		s.stopPool()
		s.stopPool = nil
	}
	if s.ownStore && s.store != nil {
		errs = append(errs, s.store.Close())
	}

	s.started = false
	s.logger.Info(ctx, "wardrobe service stopped",
		logger.Bool("drained", drained),
		logger.Int("queueLength", s.queue.Len()),
	)
	return errors.Join(errs...)
}

// Match builds an avatar configuration for description.
func (s *Service) Match(_ context.Context, description string) model.AvatarConfiguration {
	start := time.Now()
	cfg := s.matcher.BuildAvatarConfiguration(description)
	metrics.RecordQuery(len(cfg.Matches), float64(time.Since(start).Microseconds())/1000)
	return cfg
}

// FindAssets returns the ranked matches for description.
func (s *Service) FindAssets(_ context.Context, description string) []model.AssetMatch {
	start := time.Now()
	matches := s.matcher.FindAssets(description)
	metrics.RecordQuery(len(matches), float64(time.Since(start).Microseconds())/1000)
	return matches
}

// CatalogEntries returns the catalog, optionally filtered by slot.
func (s *Service) CatalogEntries(_ context.Context, slot string) []model.CatalogEntry {
	if slot == "" {
		return s.catalog.Entries()
	}
	return s.catalog.BySlot(slot)
}

// SeenAndRecord atomically checks if a request id was seen and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduperOrNil().SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordCharacterDuplicate()
	}
	return seen
}

// Unrecord removes a request id so it can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduperOrNil().Unrecord(ctx, id)
}

// Size returns the current number of remembered request ids.
func (s *Service) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

func (s *Service) deduperOrNil() dedupe.Deduper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deduper == nil {
		return noopDeduper{}
	}
	return s.deduper
}

// Enqueue submits a build request and returns the id the character will
// be stored under. Returns ErrQueueFull on backpressure.
func (s *Service) Enqueue(ctx context.Context, r model.BuildRequest) (string, error) { //nolint:gocritic // value semantics
	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}

	if r.CharacterID == "" {
		r.CharacterID = uuid.NewString()
	}
	r.SubmittedAt = time.Now()

	if err := q.Enqueue(ctx, r); err != nil {
		return "", err
	}
	s.logger.Debug(ctx, "build request enqueued",
		logger.String("request_id", r.RequestID),
		logger.String("character_id", r.CharacterID),
	)
	return r.CharacterID, nil
}

// Character returns a stored character.
func (s *Service) Character(ctx context.Context, id string) (model.Character, error) {
	store, err := s.activeStore()
	if err != nil {
		return model.Character{}, err
	}
	return store.Get(ctx, id)
}

// Characters lists up to limit characters, newest first.
func (s *Service) Characters(ctx context.Context, limit int) ([]model.Character, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	return store.List(ctx, limit)
}

// DeleteCharacter removes a stored character.
func (s *Service) DeleteCharacter(ctx context.Context, id string) error {
	store, err := s.activeStore()
	if err != nil {
		return err
	}
	return store.Delete(ctx, id)
}

func (s *Service) activeStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"dedupeSize":     s.dedupeSize,
		"maxResults":     s.maxResults,
		"catalogEntries": s.catalog.Len(),
		"catalogSlots":   s.catalog.Slots(),
	}

	if s.started {
		queueLen := s.queue.Len()
		stats["queueLength"] = queueLen
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["dedupeEntries"] = s.deduper.Size()
		stats["store"] = s.storeKind()
		if n, err := s.store.Count(context.Background()); err == nil {
			stats["characters"] = n
			metrics.UpdateCharactersStored(n)
		}
		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}

type noopDeduper struct{}

func (noopDeduper) SeenAndRecord(context.Context, string) bool { return false }
func (noopDeduper) Unrecord(context.Context, string)           {}
func (noopDeduper) Size() int64                                { return 0 }
