package feed

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/storage"
)

const defaultRetryAfter = 15 * time.Minute

// StatusError is returned for HTTP responses that carry no feed.
type StatusError struct {
	Code       int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.Code)
}

type Fetcher struct {
	client      *http.Client
	userAgent   string
	limiter     *rate.Limiter
	ignoreCache bool
}

// NewFetcher builds a fetcher whose requests are spaced at least
// cfg.Feed.FetchInterval apart.
func NewFetcher(cfg *config.Config) *Fetcher {
	limit := rate.Inf
	if cfg.Feed.FetchInterval > 0 {
		limit = rate.Every(cfg.Feed.FetchInterval)
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Feed.HTTPTimeout,
		},
		userAgent: cfg.Feed.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// SetIgnoreCache drops conditional headers from future requests.
func (f *Fetcher) SetIgnoreCache(ignore bool) {
	f.ignoreCache = ignore
}

// Fetch performs a conditional GET. A nil response with updated=false and
// no error means the server answered 304.
func (f *Fetcher) Fetch(ctx context.Context, url string, meta *storage.FetchMetadata) (*http.Response, bool, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("waiting for fetch slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	if meta != nil && !f.ignoreCache {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching feed: %w", err)
	}

	if resp.StatusCode == http.StatusNotModified {
		resp.Body.Close()
		return nil, false, nil
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, false, &StatusError{Code: resp.StatusCode, RetryAfter: RetryAfter(resp)}
	}

	return resp, true, nil
}

// UpdateMetadata records the validators of a successful response.
func (f *Fetcher) UpdateMetadata(meta *storage.FetchMetadata, resp *http.Response) {
	if etag := resp.Header.Get("ETag"); etag != "" {
		meta.ETag = etag
	}
	if lastMod := resp.Header.Get("Last-Modified"); lastMod != "" {
		meta.LastModified = lastMod
	}
	meta.LastFetched = time.Now()
}

// RetryAfter reads a Retry-After header given in seconds.
func RetryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultRetryAfter
}
