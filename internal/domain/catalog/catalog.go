// Package catalog holds the validated, read-only set of assets the matcher scores.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/okian/wardrobe/internal/domain/model"
)

// Catalog is an immutable, validated collection of entries in load order.
// All methods are safe for concurrent use.
type Catalog struct {
	entries []model.CatalogEntry
	byID    map[string]int
	slots   []string
}

// New validates entries and builds a Catalog. Tags and genders are trimmed
// and lower-cased; blank ones are dropped. Any malformed record fails the
// whole load so a partial catalog is never produced.
func New(entries []model.CatalogEntry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, NewLoadError(ErrEmptyCatalog)
	}

	c := &Catalog{
		entries: make([]model.CatalogEntry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for i, raw := range entries {
		e, err := normalize(raw)
		if err != nil {
			return nil, &LoadError{Index: i, ID: raw.ID, Err: err}
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, &LoadError{Index: i, ID: e.ID, Err: ErrDuplicateID}
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	c.slots = lo.Uniq(lo.Map(c.entries, func(e model.CatalogEntry, _ int) string { return e.Slot }))
	return c, nil
}

func normalize(e model.CatalogEntry) (model.CatalogEntry, error) {
	e.ID = strings.TrimSpace(e.ID)
	e.Name = strings.TrimSpace(e.Name)
	e.Slot = strings.TrimSpace(e.Slot)
	switch {
	case e.ID == "":
		return e, fmt.Errorf("%w: missing id", ErrInvalidEntry)
	case e.Name == "":
		return e, fmt.Errorf("%w: missing name", ErrInvalidEntry)
	case e.Slot == "":
		return e, fmt.Errorf("%w: missing slot", ErrInvalidEntry)
	}
	e.Tags = cleanWords(e.Tags)
	e.ApplicableGenders = cleanWords(e.ApplicableGenders)
	return e, nil
}

func cleanWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Range calls fn for each entry in load order until fn returns false. The
// entry pointer must not be modified or retained.
func (c *Catalog) Range(fn func(i int, e *model.CatalogEntry) bool) {
	for i := range c.entries {
		if !fn(i, &c.entries[i]) {
			return
		}
	}
}

// Entries returns a copy of all entries in load order.
func (c *Catalog) Entries() []model.CatalogEntry {
	out := make([]model.CatalogEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

// BySlot returns copies of the entries occupying slot, in load order.
func (c *Catalog) BySlot(slot string) []model.CatalogEntry {
	var out []model.CatalogEntry
	for _, e := range c.entries {
		if strings.EqualFold(e.Slot, slot) {
			out = append(out, cloneEntry(e))
		}
	}
	return out
}

// Get returns a copy of the entry with the given id.
func (c *Catalog) Get(id string) (model.CatalogEntry, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.CatalogEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return cloneEntry(c.entries[i]), nil
}

// Slots returns the distinct slots in first-seen order.
func (c *Catalog) Slots() []string {
	return slices.Clone(c.slots)
}

func cloneEntry(e model.CatalogEntry) model.CatalogEntry {
	e.Tags = slices.Clone(e.Tags)
	e.ApplicableGenders = slices.Clone(e.ApplicableGenders)
	return e
}
