package repository

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/wardrobe/internal/domain/model"
	"github.com/okian/wardrobe/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: CreatedAt DESC, then ID ASC (deterministic). "less" means the
// node is listed earlier, so an in-order traversal yields newest first.

// key orders a character inside the treap.
type key struct {
	created int64 // unix nanoseconds
	id      string
}

func keyOf(c *model.Character) key {
	return key{created: c.CreatedAt.UnixNano(), id: c.ID}
}

// treap node
type node struct {
	k     key
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if a should be listed before b.
func less(a, b key) bool {
	if a.created != b.created {
		return a.created > b.created // newer first
	}
	return a.id < b.id
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, k key) *node {
	if n == nil {
		return &node{k: k, prio: rand.Uint64(), size: 1} //nolint:gosec // balancing only
	}
	if less(k, n.k) {
		n.left = insert(n.left, k)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, k)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, k key) *node {
	if n == nil {
		return nil
	}
	if k == n.k {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, k)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, k)
		}
	} else if less(k, n.k) {
		n.left = deleteNode(n.left, k)
	} else {
		n.right = deleteNode(n.right, k)
	}
	fix(n)
	return n
}

// last returns the key listed last (the oldest character).
func last(n *node) (key, bool) {
	if n == nil {
		return key{}, false
	}
	for n.right != nil {
		n = n.right
	}
	return n.k, true
}

// collectN appends up to limit characters in list order.
func collectN(n *node, limit int, byID map[string]model.Character, out *[]model.Character) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectN(n.left, limit, byID, out)
	if len(*out) < limit {
		if c, ok := byID[n.k.id]; ok {
			*out = append(*out, cloneCharacter(c))
		}
	}
	if len(*out) < limit {
		collectN(n.right, limit, byID, out)
	}
}

// TreapStore keeps characters in memory, indexed by ID and ordered by age.
type TreapStore struct {
	mu            sync.RWMutex
	root          *node
	byID          map[string]model.Character
	maxCharacters int
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{byID: make(map[string]model.Character)}

	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateCharactersStored(0)
	return s
}

// Save implements Store.Save in O(log n) expected time.
func (s *TreapStore) Save(_ context.Context, c model.Character) error { //nolint:gocritic // value semantics
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("save", float64(time.Since(start).Milliseconds()))
	}()

	if err := validate(&c); err != nil {
		return err
	}
	c = cloneCharacter(c)

	s.mu.Lock()
	if old, ok := s.byID[c.ID]; ok {
		s.root = deleteNode(s.root, keyOf(&old))
	}
	s.byID[c.ID] = c
	s.root = insert(s.root, keyOf(&c))

	if s.maxCharacters > 0 {
		for len(s.byID) > s.maxCharacters {
			k, ok := last(s.root)
			if !ok {
				break
			}
			s.root = deleteNode(s.root, k)
			delete(s.byID, k.id)
		}
	}
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateCharactersStored(count)
	return nil
}

// Get implements Store.Get.
func (s *TreapStore) Get(_ context.Context, id string) (model.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return model.Character{}, ErrNotFound
	}
	return cloneCharacter(c), nil
}

// List implements Store.List.
func (s *TreapStore) List(_ context.Context, limit int) ([]model.Character, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("list", float64(time.Since(start).Milliseconds()))
	}()

	if limit < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Character, 0, min(limit, len(s.byID)))
	collectN(s.root, limit, s.byID, &out)
	return out, nil
}

// Delete implements Store.Delete.
func (s *TreapStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	c, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.root = deleteNode(s.root, keyOf(&c))
	delete(s.byID, id)
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateCharactersStored(count)
	return nil
}

// Count implements Store.Count.
func (s *TreapStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nsize(s.root), nil
}

// Close implements Store.Close.
func (s *TreapStore) Close() error {
	return nil
}
