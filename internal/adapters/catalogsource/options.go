package catalogsource

import (
	"net/http"
	"time"
)

// Option configures FromHTTP.
type Option func(*httpSource)

// WithHTTPClient sets the client used for page requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *httpSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithPageSize sets the limit query parameter.
func WithPageSize(n int) Option {
	return func(s *httpSource) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithRetries sets how many times a failed page is retried.
func WithRetries(n int) Option {
	return func(s *httpSource) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithBackoff sets the initial and maximum delay between retries.
func WithBackoff(initial, maxDelay time.Duration) Option {
	return func(s *httpSource) {
		if initial > 0 {
			s.backoff = initial
		}
		if maxDelay >= s.backoff {
			s.maxBackoff = maxDelay
		}
	}
}

// WithMaxPages stops a runaway pagination loop.
func WithMaxPages(n int) Option {
	return func(s *httpSource) {
		if n > 0 {
			s.maxPages = n
		}
	}
}
