// Package repository stores built characters.
package repository

import (
	"context"
	"maps"
	"slices"

	"github.com/okian/wardrobe/internal/domain/model"
)

// Store provides read/write access to built characters.
type Store interface {
	// Save inserts c or replaces the character with the same ID.
	Save(ctx context.Context, c model.Character) error

	// Get returns the character with id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.Character, error)

	// List returns up to limit characters, newest first.
	// Returns ErrInvalidLimit when limit < 1.
	List(ctx context.Context, limit int) ([]model.Character, error)

	// Delete removes the character with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored characters.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}

func validate(c *model.Character) error {
	if c.ID == "" {
		return ErrMissingID
	}
	return nil
}

// cloneCharacter copies the slices and maps reachable from c.
func cloneCharacter(c model.Character) model.Character { //nolint:gocritic // value copy is the point
	cfg := c.Configuration
	cfg.Matches = slices.Clone(cfg.Matches)
	for i := range cfg.Matches {
		cfg.Matches[i].ApplicableGenders = slices.Clone(cfg.Matches[i].ApplicableGenders)
	}
	cfg.SlotConfiguration = maps.Clone(cfg.SlotConfiguration)
	c.Configuration = cfg
	return c
}
