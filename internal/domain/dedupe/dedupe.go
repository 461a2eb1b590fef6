// Package dedupe tracks client request ids so repeated submissions are
// accepted at most once.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Default deduper configuration constants.
const (
	defaultMaxSize = 50_000
)

// Deduper records seen request IDs.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets an id so a request that was accepted but could not be
	// queued can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

type seenID struct {
	id     string
	seenAt time.Time
}

// inMemoryDeduper keeps ids in arrival order. When bounded, the oldest id is
// evicted first; when a TTL is set, expired ids are dropped lazily.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List // front = oldest
	maxSize int        // <= 0 means unbounded
	ttl     time.Duration
	now     func() time.Time
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
		now:     time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.expireLocked(now)

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize > 0 {
		for d.order.Len() >= d.maxSize {
			d.removeLocked(d.order.Front())
		}
	}
	d.seen[id] = d.order.PushBack(&seenID{id: id, seenAt: now})
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen list, allowing it to be retried.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[id]; ok {
		d.removeLocked(el)
	}
}

// expireLocked drops ids older than the TTL. Must be called with d.mu held.
func (d *inMemoryDeduper) expireLocked(now time.Time) {
	if d.ttl <= 0 {
		return
	}
	for el := d.order.Front(); el != nil; el = d.order.Front() {
		if now.Sub(el.Value.(*seenID).seenAt) < d.ttl {
			return
		}
		d.removeLocked(el)
	}
}

// removeLocked must be called with d.mu held.
func (d *inMemoryDeduper) removeLocked(el *list.Element) {
	if el == nil {
		return
	}
	s := d.order.Remove(el).(*seenID)
	delete(d.seen, s.id)
	d.size.Add(-1)
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
