package catalogsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"github.com/okian/wardrobe/internal/domain/catalog"
	"github.com/okian/wardrobe/internal/domain/model"
)

// Format names a catalog encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// document is the on-disk shape shared by every format. YAML and JSON files
// may also hold a bare list of entries.
type document struct {
	Assets []model.CatalogEntry `json:"assets" yaml:"assets" toml:"assets"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// FromFile reads and validates the catalog at path.
func FromFile(ctx context.Context, path string) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, wrapLoad(path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapLoad(path, err)
	}
	entries, err := decode(format, data)
	if err != nil {
		return nil, wrapLoad(path, err)
	}
	return catalog.New(entries)
}

func decode(format Format, data []byte) ([]model.CatalogEntry, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			var list []model.CatalogEntry
			if listErr := yaml.Unmarshal(data, &list); listErr != nil {
				return nil, fmt.Errorf("decode yaml: %w", err)
			}
			return list, nil
		}
	case FormatJSON:
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
			var list []model.CatalogEntry
			if err := json.Unmarshal(trimmed, &list); err != nil {
				return nil, fmt.Errorf("decode json: %w", err)
			}
			return list, nil
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return doc.Assets, nil
}

// wrapLoad joins err with catalog.ErrCatalogLoad unless it already carries it.
func wrapLoad(source string, err error) error {
	if errors.Is(err, catalog.ErrCatalogLoad) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", catalog.ErrCatalogLoad, source, err)
}
