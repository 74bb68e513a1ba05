package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/storage"
)

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name           string
		meta           *storage.FetchMetadata
		serverResponse func(t *testing.T, w http.ResponseWriter, r *http.Request)
		expectUpdated  bool
		expectError    bool
	}{
		{
			name: "successful fetch with new content",
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "skim-test/1.0", r.Header.Get("User-Agent"))
				assert.Empty(t, r.Header.Get("If-None-Match"))
				w.Header().Set("ETag", "\"123\"")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("<rss></rss>"))
			},
			expectUpdated: true,
		},
		{
			name: "not modified response with ETag",
			meta: &storage.FetchMetadata{ETag: "\"123\""},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "\"123\"", r.Header.Get("If-None-Match"))
				w.WriteHeader(http.StatusNotModified)
			},
		},
		{
			name: "not modified response with Last-Modified",
			meta: &storage.FetchMetadata{LastModified: "Wed, 01 Jan 2025 00:00:00 GMT"},
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Wed, 01 Jan 2025 00:00:00 GMT", r.Header.Get("If-Modified-Since"))
				w.WriteHeader(http.StatusNotModified)
			},
		},
		{
			name: "server error",
			serverResponse: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.serverResponse(t, w, r)
			}))
			defer server.Close()

			fetcher := NewFetcher(config.TestConfig())
			resp, updated, err := fetcher.Fetch(context.Background(), server.URL, tt.meta)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectUpdated, updated)
			if resp != nil {
				resp.Body.Close()
			}
		})
	}
}

func TestFetcher_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, _, err := NewFetcher(config.TestConfig()).Fetch(context.Background(), server.URL, nil)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Equal(t, 60*time.Second, statusErr.RetryAfter)
}

func TestFetcher_IgnoreCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("If-None-Match"))
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(config.TestConfig())
	fetcher.SetIgnoreCache(true)
	resp, updated, err := fetcher.Fetch(context.Background(), server.URL, &storage.FetchMetadata{ETag: "\"x\""})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.True(t, updated)
}

func TestFetcher_PacesRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	cfg := config.TestConfig()
	cfg.Feed.FetchInterval = 50 * time.Millisecond
	fetcher := NewFetcher(cfg)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, _, err := fetcher.Fetch(context.Background(), server.URL, nil)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestFetcher_CanceledContext(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Feed.FetchInterval = time.Hour
	fetcher := NewFetcher(cfg)

	// The first token is free; the second would wait an hour.
	fetcher.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := fetcher.Fetch(ctx, "http://news.test/rss", nil)
	assert.Error(t, err)
}

func TestFetcher_UpdateMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", "\"new-etag\"")
		w.Header().Set("Last-Modified", "Thu, 02 Jan 2025 00:00:00 GMT")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	meta := &storage.FetchMetadata{FeedURL: server.URL}
	NewFetcher(config.TestConfig()).UpdateMetadata(meta, resp)

	assert.Equal(t, "\"new-etag\"", meta.ETag)
	assert.Equal(t, "Thu, 02 Jan 2025 00:00:00 GMT", meta.LastModified)
	assert.WithinDuration(t, time.Now(), meta.LastFetched, time.Second)
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter string
		expected   time.Duration
	}{
		{"valid retry-after in seconds", "120", 120 * time.Second},
		{"invalid retry-after", "invalid", 15 * time.Minute},
		{"no retry-after header", "", 15 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.retryAfter != "" {
				resp.Header.Set("Retry-After", tt.retryAfter)
			}
			assert.Equal(t, tt.expected, RetryAfter(resp))
		})
	}
}
