package catalogsource

import (
	"context"
	"net/http"

	"github.com/okian/wardrobe/internal/config"
	"github.com/okian/wardrobe/internal/domain/catalog"
	"github.com/okian/wardrobe/pkg/metrics"
)

// Source names where a catalog came from.
type Source string

// Known sources.
const (
	SourceEmbedded Source = "embedded"
	SourceFile     Source = "file"
	SourceHTTP     Source = "http"
)

// Pick reports which source Load will use for cfg: URL, then path, then the
// bundled catalog.
func Pick(cfg *config.Config) Source {
	switch {
	case cfg.CatalogURL != "":
		return SourceHTTP
	case cfg.CatalogPath != "":
		return SourceFile
	default:
		return SourceEmbedded
	}
}

// Load builds the catalog selected by cfg.
func Load(ctx context.Context, cfg *config.Config) (*catalog.Catalog, Source, error) {
	src := Pick(cfg)

	var (
		c   *catalog.Catalog
		err error
	)
	switch src {
	case SourceHTTP:
		c, err = FromHTTP(ctx, cfg.CatalogURL,
			WithPageSize(cfg.CatalogPageSize),
			WithRetries(cfg.CatalogFetchRetries),
			WithHTTPClient(newClient(cfg)),
		)
	case SourceFile:
		c, err = FromFile(ctx, cfg.CatalogPath)
	default:
		c, err = Embedded()
	}
	if err != nil {
		metrics.RecordCatalogLoadError()
		return nil, src, err
	}

	metrics.RecordCatalogLoad(string(src))
	metrics.UpdateCatalogEntries(c.Len())
	return c, src, nil
}

func newClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.CatalogFetchTimeout}
}
