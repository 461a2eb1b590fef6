package catalog

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrCatalogLoad   = errors.New("catalog load failed")
	ErrEmptyCatalog  = errors.New("catalog is empty")
	ErrDuplicateID   = errors.New("duplicate catalog id")
	ErrInvalidEntry  = errors.New("invalid catalog entry")
	ErrEntryNotFound = errors.New("catalog entry not found")
)

// LoadError reports why a catalog could not be constructed. It matches both
// ErrCatalogLoad and its specific cause via errors.Is.
type LoadError struct {
	Index int    // position of the offending record, -1 when not record specific
	ID    string // id of the offending record, if known
	Err   error
}

func (e *LoadError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("%s: %v", ErrCatalogLoad, e.Err)
	case e.ID != "":
		return fmt.Sprintf("%s: record %d (%s): %v", ErrCatalogLoad, e.Index, e.ID, e.Err)
	default:
		return fmt.Sprintf("%s: record %d: %v", ErrCatalogLoad, e.Index, e.Err)
	}
}

func (e *LoadError) Unwrap() []error { return []error{ErrCatalogLoad, e.Err} }

// NewLoadError wraps err as a catalog load failure that is not tied to a record.
func NewLoadError(err error) error {
	return &LoadError{Index: -1, Err: err}
}
