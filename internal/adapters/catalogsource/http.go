package catalogsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/wardrobe/internal/domain/catalog"
	"github.com/okian/wardrobe/internal/domain/model"
)

const (
	defaultPageSize   = 100
	defaultRetries    = 3
	defaultBackoff    = 200 * time.Millisecond
	defaultMaxBackoff = 5 * time.Second
	defaultMaxPages   = 1000
	maxPageBytes      = 16 << 20
)

// page is one response of a paginated catalog endpoint. A missing or zero
// next_page ends the walk.
type page struct {
	Items    []model.CatalogEntry `json:"items"`
	NextPage int                  `json:"next_page"`
}

type httpSource struct {
	client     *http.Client
	pageSize   int
	retries    int
	backoff    time.Duration
	maxBackoff time.Duration
	maxPages   int
}

// FromHTTP walks a paginated endpoint (?page=N&limit=M, starting at page 1)
// and validates the combined entries. Any page that still fails after its
// retries aborts the whole load.
func FromHTTP(ctx context.Context, rawURL string, opts ...Option) (*catalog.Catalog, error) {
	s := &httpSource{
		client:     &http.Client{Timeout: 30 * time.Second},
		pageSize:   defaultPageSize,
		retries:    defaultRetries,
		backoff:    defaultBackoff,
		maxBackoff: defaultMaxBackoff,
		maxPages:   defaultMaxPages,
	}
	for _, opt := range opts {
		opt(s)
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, wrapLoad(rawURL, fmt.Errorf("%w: %w", ErrFetch, err))
	}

	var entries []model.CatalogEntry
	for n, fetched := 1, 0; n != 0; fetched++ {
		if fetched >= s.maxPages {
			return nil, wrapLoad(rawURL, fmt.Errorf("%w: more than %d pages", ErrFetch, s.maxPages))
		}
		p, err := s.fetchWithRetry(ctx, base, n)
		if err != nil {
			return nil, wrapLoad(rawURL, err)
		}
		entries = append(entries, p.Items...)
		if p.NextPage != 0 && p.NextPage <= n {
			return nil, wrapLoad(rawURL, fmt.Errorf("%w: next_page %d does not advance past %d", ErrFetch, p.NextPage, n))
		}
		n = p.NextPage
	}
	return catalog.New(entries)
}

func (s *httpSource) fetchWithRetry(ctx context.Context, base *url.URL, n int) (page, error) {
	delay := s.backoff
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		p, retry, err := s.fetch(ctx, base, n)
		if err == nil {
			return p, nil
		}
		lastErr = err
		if !retry || attempt == s.retries {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return page{}, fmt.Errorf("%w: %w", ErrFetch, ctx.Err())
		}
		if next := delay * 2; next <= s.maxBackoff {
			delay = next
		}
	}
	return page{}, lastErr
}

// fetch requests one page and reports whether a failure is worth retrying.
func (s *httpSource) fetch(ctx context.Context, base *url.URL, n int) (page, bool, error) {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	q.Set("limit", strconv.Itoa(s.pageSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return page{}, false, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return page{}, ctx.Err() == nil, fmt.Errorf("%w: page %d: %w", ErrFetch, n, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
		return page{}, retry, fmt.Errorf("%w: page %d: status %d", ErrFetch, n, resp.StatusCode)
	}

	var p page
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPageBytes)).Decode(&p); err != nil {
		return page{}, false, fmt.Errorf("%w: page %d: decode: %w", ErrFetch, n, err)
	}
	return p, false, nil
}
