package catalogsource

import "errors"

// Sentinel kinds for catalog source errors. Both are always joined with
// catalog.ErrCatalogLoad.
var (
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrFetch             = errors.New("catalog fetch failed")
)
