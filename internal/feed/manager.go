package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/validation"
)

// maxBodySize caps how much of a feed document is read.
const maxBodySize = 10 << 20

type Manager struct {
	store        *storage.Store
	fetcher      *Fetcher
	parser       *Parser
	config       *config.Config
	urlValidator *validation.FeedURLValidator
	mu           sync.Mutex
}

func NewManager(store *storage.Store, cfg *config.Config) *Manager {
	return &Manager{
		store:        store,
		fetcher:      NewFetcher(cfg),
		parser:       NewParser(),
		config:       cfg,
		urlValidator: validation.NewFeedURLValidator(),
	}
}

// SetForceRefresh configures the manager to ignore ETag/Last-Modified headers
func (m *Manager) SetForceRefresh(force bool) {
	m.fetcher.SetIgnoreCache(force)
}

// SetPermissiveValidation allows local and private hosts, for development
// and tests.
func (m *Manager) SetPermissiveValidation(permissive bool) {
	if permissive {
		m.urlValidator = validation.NewPermissiveFeedURLValidator()
	} else {
		m.urlValidator = validation.NewFeedURLValidator()
	}
}

// Items returns the items of a feed, fetching when the cache is stale. A
// failed fetch falls back to the cache when one exists.
func (m *Manager) Items(ctx context.Context, feedURL string) ([]storage.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := debuglog.WithFields(map[string]any{"feed": feedURL})

	cached, cacheErr := m.store.GetItems(feedURL)
	hasCache := cacheErr == nil

	meta, err := m.store.GetFetchMetadata(feedURL)
	if err != nil {
		meta = &storage.FetchMetadata{FeedURL: feedURL}
	}

	if hasCache && m.config.Feed.CacheTTL > 0 && time.Since(meta.LastFetched) < m.config.Feed.CacheTTL {
		log.Debugf("serving %d cached items", len(cached))
		return cached, nil
	}

	conditional := meta
	if !hasCache {
		// Without a cache a 304 would leave nothing to serve.
		conditional = nil
	}

	items, err := m.fetch(ctx, feedURL, meta, conditional)
	switch {
	case err == nil && items == nil:
		log.Debugf("not modified, serving %d cached items", len(cached))
		return cached, nil
	case err == nil:
		log.Infof("fetched %d items", len(items))
		return items, nil
	case hasCache && !errors.Is(err, context.Canceled):
		log.Warnf("fetch failed, serving cache: %v", err)
		return cached, nil
	default:
		return nil, err
	}
}

// fetch downloads and stores a feed. It returns nil items on 304.
func (m *Manager) fetch(ctx context.Context, feedURL string, meta, conditional *storage.FetchMetadata) ([]storage.Item, error) {
	resp, updated, err := m.fetcher.Fetch(ctx, feedURL, conditional)
	if err != nil {
		return nil, err
	}

	if !updated {
		meta.LastFetched = time.Now()
		if saveErr := m.store.SaveFetchMetadata(meta); saveErr != nil {
			return nil, fmt.Errorf("saving fetch metadata: %w", saveErr)
		}
		return nil, nil
	}
	defer resp.Body.Close()

	parsed, err := m.parser.Parse(io.LimitReader(resp.Body, maxBodySize), feedURL)
	if err != nil {
		return nil, err
	}

	m.fetcher.UpdateMetadata(meta, resp)
	if err := storage.Retry(func() error { return m.store.SaveItems(feedURL, parsed.Items) }); err != nil {
		return nil, fmt.Errorf("saving items: %w", err)
	}
	if err := storage.Retry(func() error { return m.store.SaveFetchMetadata(meta) }); err != nil {
		return nil, fmt.Errorf("saving fetch metadata: %w", err)
	}
	return parsed.Items, nil
}

// Discover validates a feed URL, fetches it once and returns a feed entry
// named after the document title. The items are cached on the way.
func (m *Manager) Discover(ctx context.Context, rawURL string) (storage.Feed, error) {
	normalizedURL, err := m.urlValidator.ValidateAndNormalize(rawURL)
	if err != nil {
		return storage.Feed{}, fmt.Errorf("invalid feed URL: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	resp, _, err := m.fetcher.Fetch(ctx, normalizedURL, nil)
	if err != nil {
		return storage.Feed{}, err
	}
	if resp == nil {
		return storage.Feed{}, fmt.Errorf("no response received")
	}
	defer resp.Body.Close()

	parsed, err := m.parser.Parse(io.LimitReader(resp.Body, maxBodySize), normalizedURL)
	if err != nil {
		return storage.Feed{}, err
	}

	meta := &storage.FetchMetadata{FeedURL: normalizedURL}
	m.fetcher.UpdateMetadata(meta, resp)
	if err := m.store.SaveItems(normalizedURL, parsed.Items); err != nil {
		return storage.Feed{}, fmt.Errorf("saving items: %w", err)
	}
	if err := m.store.SaveFetchMetadata(meta); err != nil {
		return storage.Feed{}, fmt.Errorf("saving fetch metadata: %w", err)
	}

	name := parsed.Title
	if name == "" {
		name = resp.Request.URL.Host
	}
	return storage.Feed{Name: name, URL: normalizedURL}, nil
}

// RefreshAll fetches every listed feed with a small worker pool, ignoring
// the cache TTL.
func (m *Manager) RefreshAll(ctx context.Context, feeds []storage.Feed) error {
	if len(feeds) == 0 {
		return nil
	}

	const maxConcurrentRefresh = 5
	feedChan := make(chan storage.Feed, len(feeds))
	errChan := make(chan error, len(feeds))

	var wg sync.WaitGroup
	for i := 0; i < maxConcurrentRefresh && i < len(feeds); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range feedChan {
				if err := m.refresh(ctx, f.URL); err != nil {
					errChan <- fmt.Errorf("%s: %w", f.Name, err)
				}
			}
		}()
	}

	for _, f := range feeds {
		feedChan <- f
	}
	close(feedChan)

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (m *Manager) refresh(ctx context.Context, feedURL string) error {
	meta, err := m.store.GetFetchMetadata(feedURL)
	if err != nil {
		meta = &storage.FetchMetadata{FeedURL: feedURL}
	}
	conditional := meta
	if _, cacheErr := m.store.GetItems(feedURL); cacheErr != nil {
		conditional = nil
	}
	_, err = m.fetch(ctx, feedURL, meta, conditional)
	return err
}
