// Package catalogsource loads catalogs from the bundled sample, local files
// and paginated HTTP endpoints.
package catalogsource

import (
	_ "embed"

	"github.com/okian/wardrobe/internal/domain/catalog"
)

//go:embed static/catalog.yaml
var embeddedCatalog []byte

// Embedded returns the catalog bundled with the binary.
func Embedded() (*catalog.Catalog, error) {
	entries, err := decode(FormatYAML, embeddedCatalog)
	if err != nil {
		return nil, wrapLoad("embedded catalog", err)
	}
	return catalog.New(entries)
}
