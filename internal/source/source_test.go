package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/protocol"
	"github.com/pders01/skim/internal/storage"
)

type fakeFetcher struct {
	mu    sync.Mutex
	items map[string][]storage.Item
	fail  map[string]int
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		items: make(map[string][]storage.Item),
		fail:  make(map[string]int),
		calls: make(map[string]int),
	}
}

func (f *fakeFetcher) Items(_ context.Context, url string) ([]storage.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if f.fail[url] > 0 {
		f.fail[url]--
		return nil, errors.New("network down")
	}
	return f.items[url], nil
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

type memStore struct {
	mu    sync.Mutex
	feeds []storage.Feed
}

func (m *memStore) GetFeeds() ([]storage.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storage.Feed(nil), m.feeds...), nil
}

func (m *memStore) SaveFeeds(feeds []storage.Feed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feeds = append([]storage.Feed(nil), feeds...)
	return nil
}

type harness struct {
	t        *testing.T
	out      chan protocol.Message
	requests chan protocol.Request
	changes  chan *config.Config
	done     chan error
	cancel   context.CancelFunc
}

func start(t *testing.T, fetcher ItemFetcher, store FeedStore, cfg *config.Config) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		out:      make(chan protocol.Message, 128),
		requests: make(chan protocol.Request, 8),
		changes:  make(chan *config.Config, 1),
		done:     make(chan error, 1),
	}
	opts := DefaultOptions()
	opts.NameGap = time.Millisecond
	opts.Validator = nil

	src := New(fetcher, store, cfg, h.out, opts)
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- src.Run(ctx, h.requests, h.changes) }()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func (h *harness) recv() protocol.Message {
	h.t.Helper()
	select {
	case msg := <-h.out:
		return msg
	case <-time.After(2 * time.Second):
		h.t.Fatal("no message from source")
		return nil
	}
}

func (h *harness) expectNothing() {
	h.t.Helper()
	select {
	case msg := <-h.out:
		h.t.Fatalf("unexpected message %s", protocol.Describe(msg))
	case <-time.After(50 * time.Millisecond):
	}
}

func (h *harness) feedNames() []string {
	h.t.Helper()
	count, ok := h.recv().(protocol.FeedsCount)
	require.True(h.t, ok, "expected FeedsCount first")
	names := make([]string, 0, count.Count)
	for i := 0; i < count.Count; i++ {
		name, ok := h.recv().(protocol.FeedName)
		require.True(h.t, ok)
		names = append(names, name.Name)
	}
	return names
}

func items(url string, titles ...string) []storage.Item {
	out := make([]storage.Item, len(titles))
	for i, title := range titles {
		out[i] = storage.Item{FeedURL: url, Title: title, Description: fmt.Sprintf("About %s.", title)}
	}
	return out
}

func TestDefaultFeeds(t *testing.T) {
	feeds, err := DefaultFeeds()
	require.NoError(t, err)
	require.Len(t, feeds, 6)
	assert.Equal(t, "BBC World", feeds[0].Name)
	assert.Equal(t, "https://feeds.bbci.co.uk/news/world/rss.xml", feeds[0].URL)
	assert.Equal(t, "Reuters", feeds[5].Name)
	assert.Equal(t, 5, feeds[5].Position)
}

func TestRun_AnnouncesDefaultFeeds(t *testing.T) {
	store := &memStore{}
	h := start(t, newFakeFetcher(), store, config.TestConfig())

	names := h.feedNames()
	assert.Equal(t, []string{"BBC World", "NY Times", "NPR News", "Guardian", "Le Monde", "Reuters"}, names)

	stored, _ := store.GetFeeds()
	assert.Len(t, stored, 6, "defaults are persisted")
}

func TestRun_FeedPrecedence(t *testing.T) {
	t.Run("stored list beats defaults", func(t *testing.T) {
		store := &memStore{feeds: []storage.Feed{{Name: "Local Paper", URL: "https://paper.test/rss"}}}
		h := start(t, newFakeFetcher(), store, config.TestConfig())
		assert.Equal(t, []string{"Local Paper"}, h.feedNames())
	})

	t.Run("config beats stored list", func(t *testing.T) {
		store := &memStore{feeds: []storage.Feed{{Name: "Local Paper", URL: "https://paper.test/rss"}}}
		cfg := config.TestConfig()
		cfg.Feeds = []config.FeedEntry{
			{Name: "Hacker News", URL: "https://news.ycombinator.com/rss"},
			{Name: "Bad", URL: "ftp://nowhere.test/feed"},
			{URL: "lobste.rs/rss"},
		}
		h := start(t, newFakeFetcher(), store, cfg)
		assert.Equal(t, []string{"Hacker News", "https://lobste.rs/rss"}, h.feedNames())

		stored, _ := store.GetFeeds()
		require.Len(t, stored, 2)
		assert.Equal(t, "https://news.ycombinator.com/rss", stored[0].URL)
	})
}

func TestRun_CapsFeedList(t *testing.T) {
	store := &memStore{}
	for i := 0; i < 25; i++ {
		store.feeds = append(store.feeds, storage.Feed{Name: fmt.Sprintf("feed %d", i), URL: fmt.Sprintf("https://f%d.test/rss", i)})
	}
	h := start(t, newFakeFetcher(), store, config.TestConfig())
	assert.Len(t, h.feedNames(), 20)
}

func TestRun_TitlesInOrder(t *testing.T) {
	url := "https://paper.test/rss"
	fetcher := newFakeFetcher()
	fetcher.items[url] = items(url, "One", "Two", "Three")
	h := start(t, fetcher, &memStore{feeds: []storage.Feed{{Name: "Paper", URL: url}}}, config.TestConfig())
	h.feedNames()

	h.requests <- protocol.SelectFeed{Index: 0}
	assert.Equal(t, protocol.TitleText{Text: "One"}, h.recv(), "selection sends the first title unasked")

	h.requests <- protocol.RequestNextTitle{}
	assert.Equal(t, protocol.TitleText{Text: "Two"}, h.recv())
	h.requests <- protocol.RequestNextTitle{}
	assert.Equal(t, protocol.TitleText{Text: "Three"}, h.recv())

	h.requests <- protocol.RequestNextTitle{}
	h.expectNothing()
	assert.Equal(t, 1, fetcher.callCount(url))

	// Selecting again starts over with a fresh fetch.
	h.requests <- protocol.SelectFeed{Index: 0}
	assert.Equal(t, protocol.TitleText{Text: "One"}, h.recv())
	assert.Equal(t, 2, fetcher.callCount(url))
}

func TestRun_FetchFailureRetriesOnNextRequest(t *testing.T) {
	url := "https://paper.test/rss"
	fetcher := newFakeFetcher()
	fetcher.items[url] = items(url, "Recovered")
	fetcher.fail[url] = 1
	h := start(t, fetcher, &memStore{feeds: []storage.Feed{{Name: "Paper", URL: url}}}, config.TestConfig())
	h.feedNames()

	h.requests <- protocol.SelectFeed{Index: 0}
	h.expectNothing()

	h.requests <- protocol.RequestNextTitle{}
	assert.Equal(t, protocol.TitleText{Text: "Recovered"}, h.recv())
	assert.Equal(t, 2, fetcher.callCount(url))
}

func TestRun_IgnoresRequestsWithoutSelection(t *testing.T) {
	h := start(t, newFakeFetcher(), &memStore{feeds: []storage.Feed{{Name: "Paper", URL: "https://paper.test/rss"}}}, config.TestConfig())
	h.feedNames()

	h.requests <- protocol.RequestNextTitle{}
	h.requests <- protocol.SelectFeed{Index: 7}
	h.requests <- protocol.RequestArticle{Index: 0}
	h.expectNothing()
}

func TestRun_Articles(t *testing.T) {
	url := "https://paper.test/rss"
	fetcher := newFakeFetcher()
	fetcher.items[url] = []storage.Item{
		{Title: "With body", Description: "Full story here."},
		{Title: "Without body"},
	}
	h := start(t, fetcher, &memStore{feeds: []storage.Feed{{Name: "Paper", URL: url}}}, config.TestConfig())
	h.feedNames()

	h.requests <- protocol.SelectFeed{Index: 0}
	h.recv()

	h.requests <- protocol.RequestArticle{Index: 0}
	assert.Equal(t, protocol.ArticleText{Text: "Full story here."}, h.recv())
	h.requests <- protocol.RequestArticle{Index: 1}
	assert.Equal(t, protocol.ArticleText{Text: NoArticle}, h.recv())
	h.requests <- protocol.RequestArticle{Index: 2}
	h.expectNothing()
}

func TestRun_ConfigSession(t *testing.T) {
	store := &memStore{}
	cfg := config.TestConfig()
	h := start(t, newFakeFetcher(), store, cfg)
	h.feedNames()

	next := config.TestConfig()
	next.Reader.WPM = 550
	next.Feeds = []config.FeedEntry{{Name: "Only One", URL: "https://one.test/rss"}}
	h.changes <- next

	assert.Equal(t, protocol.ConfigSessionOpened{}, h.recv())
	closed, ok := h.recv().(protocol.ConfigSessionClosed)
	require.True(t, ok)
	require.NotNil(t, closed.ReadingSpeedWPM)
	assert.Equal(t, 550, *closed.ReadingSpeedWPM)
	assert.Nil(t, closed.Backlight, "unchanged backlight is not sent")

	assert.Equal(t, []string{"Only One"}, h.feedNames())

	again := config.TestConfig()
	again.Reader.WPM = 550
	again.Reader.Backlight = false
	again.Feeds = next.Feeds
	h.changes <- again

	assert.Equal(t, protocol.ConfigSessionOpened{}, h.recv())
	closed = h.recv().(protocol.ConfigSessionClosed)
	assert.Nil(t, closed.ReadingSpeedWPM)
	require.NotNil(t, closed.Backlight)
	assert.False(t, *closed.Backlight)
	h.feedNames()
}

func TestRun_StopsWhenRequestsClose(t *testing.T) {
	h := start(t, newFakeFetcher(), &memStore{}, config.TestConfig())
	h.feedNames()
	close(h.requests)

	select {
	case err := <-h.done:
		assert.NoError(t, err)
		h.done <- err
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop")
	}
}
