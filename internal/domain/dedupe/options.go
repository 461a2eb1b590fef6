// Package dedupe tracks client request ids so repeated submissions are
// accepted at most once.
package dedupe

import "time"

// Option applies a configuration option to the InMemoryDeduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of IDs to keep in memory.
// If maxSize > 0: bounded mode, the oldest id is evicted first.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}

// WithTTL forgets ids once they are older than ttl. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(d *inMemoryDeduper) {
		if ttl >= 0 {
			d.ttl = ttl
		}
	}
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *inMemoryDeduper) {
		if now != nil {
			d.now = now
		}
	}
}
