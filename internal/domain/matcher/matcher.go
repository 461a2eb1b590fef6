// Package matcher turns free-text avatar descriptions into ranked catalog
// matches and avatar configurations.
package matcher

import (
	"maps"
	"sort"

	"github.com/okian/wardrobe/internal/domain/catalog"
	"github.com/okian/wardrobe/internal/domain/model"
	"github.com/okian/wardrobe/internal/domain/scoring"
	"github.com/okian/wardrobe/internal/domain/terms"
)

// Default matcher configuration constants.
const (
	defaultMaxResults = 10
)

// TermExtractor splits a description into search terms.
type TermExtractor interface {
	Extract(description string) model.SearchTerms
}

// EntryScorer scores one catalog entry against search terms.
type EntryScorer interface {
	Score(entry *model.CatalogEntry, st *model.SearchTerms) int
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithMaxResults caps the number of matches FindAssets returns.
func WithMaxResults(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.maxResults = n
		}
	}
}

// WithScorer replaces the default scorer.
func WithScorer(s EntryScorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.scorer = s
		}
	}
}

// WithExtractor replaces the default term extractor.
func WithExtractor(e TermExtractor) Option {
	return func(m *Matcher) {
		if e != nil {
			m.extractor = e
		}
	}
}

// WithSlotKeys replaces the slot to configuration key table.
func WithSlotKeys(keys map[string]string) Option {
	return func(m *Matcher) {
		if keys != nil {
			m.slotKeys = maps.Clone(keys)
		}
	}
}

// Matcher scores a read-only catalog against descriptions. It keeps no
// per-call state and is safe for concurrent use.
type Matcher struct {
	catalog    *catalog.Catalog
	extractor  TermExtractor
	scorer     EntryScorer
	slotKeys   map[string]string
	maxResults int
}

// New creates a Matcher over a validated catalog.
func New(c *catalog.Catalog, opts ...Option) *Matcher {
	m := &Matcher{
		catalog:    c,
		extractor:  terms.NewExtractor(),
		scorer:     scoring.NewScorer(),
		slotKeys:   DefaultSlotKeys(),
		maxResults: defaultMaxResults,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Catalog returns the catalog the matcher scores against.
func (m *Matcher) Catalog() *catalog.Catalog {
	return m.catalog
}

// FindAssets returns the best scoring entries for description, highest score
// first. Ties keep catalog order. Entries scoring 0 are dropped and the list
// is capped at the configured maximum.
func (m *Matcher) FindAssets(description string) []model.AssetMatch {
	st := m.extractor.Extract(description)
	if len(st.Keywords) == 0 || m.catalog == nil {
		return []model.AssetMatch{}
	}

	matches := make([]model.AssetMatch, 0)
	m.catalog.Range(func(_ int, e *model.CatalogEntry) bool {
		if s := m.scorer.Score(e, &st); s > 0 {
			matches = append(matches, model.AssetMatch{
				ID:                e.ID,
				Name:              e.Name,
				Slot:              e.Slot,
				Score:             s,
				ApplicableGenders: append([]string(nil), e.ApplicableGenders...),
			})
		}
		return true
	})

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > m.maxResults {
		matches = matches[:m.maxResults]
	}
	return matches
}

// BuildAvatarConfiguration infers a gender, keeps the best match per slot
// and maps each kept slot to its configuration key.
func (m *Matcher) BuildAvatarConfiguration(description string) model.AvatarConfiguration {
	cfg := model.AvatarConfiguration{
		InferredGender:    InferGender(description),
		Matches:           []model.AssetMatch{},
		SlotConfiguration: map[string]string{},
	}

	seen := make(map[string]struct{})
	for _, match := range m.FindAssets(description) {
		if _, ok := seen[match.Slot]; ok {
			continue
		}
		seen[match.Slot] = struct{}{}
		cfg.Matches = append(cfg.Matches, match)

		key, ok := m.slotKeys[match.Slot]
		if !ok {
			continue
		}
		// Matches arrive best first, so the first slot to claim a key wins.
		if _, taken := cfg.SlotConfiguration[key]; !taken {
			cfg.SlotConfiguration[key] = match.ID
		}
	}
	return cfg
}
