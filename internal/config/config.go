// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and WARDROBE_ environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a YAML, JSON or TOML catalog file.
	CatalogPath string `koanf:"catalog_path"`

	// CatalogURL points at a paginated HTTP catalog; it wins over CatalogPath.
	CatalogURL string `koanf:"catalog_url"`

	// CatalogPageSize is the page size requested from CatalogURL.
	CatalogPageSize int `koanf:"catalog_page_size"`

	// CatalogFetchRetries bounds retries per page.
	CatalogFetchRetries int `koanf:"catalog_fetch_retries"`

	// CatalogFetchTimeout bounds a single page request.
	CatalogFetchTimeout time.Duration `koanf:"catalog_fetch_timeout"`

	// MaxResults caps findAssets results.
	MaxResults int `koanf:"max_results"`

	// BuildQueueSize bounds the in-memory character build queue.
	BuildQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of character build workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the request-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// DedupeTTL expires request ids; zero keeps them until evicted.
	DedupeTTL time.Duration `koanf:"dedupe_ttl"`

	// StorePath selects the SQLite character store; empty keeps characters in memory.
	StorePath string `koanf:"store_path"`

	// MaxCharacterLimit caps GET /characters?limit.
	MaxCharacterLimit int `koanf:"max_character_limit"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBuckets replaces the default latency histogram buckets (milliseconds).
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// ScoreWeights overrides bucket weights (garment, color, material, style, gender, keyword).
	ScoreWeights map[string]int `koanf:"score_weights"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		CatalogPageSize:     100,
		CatalogFetchRetries: 3,
		CatalogFetchTimeout: 10 * time.Second,
		MaxResults:          10,
		BuildQueueSize:      10_000,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          50_000,
		MaxCharacterLimit:   100,
		MetricsNamespace:    "wardrobe",
		MetricsSubsystem:    "matcher",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxResults <= 0:
		return fmt.Errorf("%w: max_results must be positive, got %d", ErrInvalidConfig, c.MaxResults)
	case c.CatalogPageSize <= 0:
		return fmt.Errorf("%w: catalog_page_size must be positive, got %d", ErrInvalidConfig, c.CatalogPageSize)
	case c.CatalogFetchRetries < 0:
		return fmt.Errorf("%w: catalog_fetch_retries must not be negative", ErrInvalidConfig)
	case c.MetricsNamespace == "":
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsLatencyBuckets); i++ {
		if c.MetricsLatencyBuckets[i] <= c.MetricsLatencyBuckets[i-1] {
			return fmt.Errorf("%w: metrics_latency_buckets must be increasing", ErrInvalidConfig)
		}
	}
	for bucket, w := range c.ScoreWeights {
		if w < 0 {
			return fmt.Errorf("%w: score_weights.%s must not be negative", ErrInvalidConfig, bucket)
		}
	}
	return nil
}
