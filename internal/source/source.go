// Package source is the content side of the reader. It answers the
// engine's requests for feed names, headlines and article bodies, and it
// turns config file edits into configuration sessions.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/pders01/skim/internal/catalog"
	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/protocol"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/validation"
)

// NoArticle is sent for an item without a description.
const NoArticle = "No article content available."

// ItemFetcher loads the items of one feed.
type ItemFetcher interface {
	Items(ctx context.Context, feedURL string) ([]storage.Item, error)
}

// FeedStore persists the feed list.
type FeedStore interface {
	GetFeeds() ([]storage.Feed, error)
	SaveFeeds(feeds []storage.Feed) error
}

type Options struct {
	// NameGap spaces out feed names when the list is sent.
	NameGap time.Duration
	// FetchTimeout bounds one feed fetch.
	FetchTimeout time.Duration
	Validator    *validation.FeedURLValidator
}

func DefaultOptions() Options {
	return Options{
		NameGap:      50 * time.Millisecond,
		FetchTimeout: 30 * time.Second,
		Validator:    validation.NewFeedURLValidator(),
	}
}

// Source is not safe for concurrent use; Run owns it.
type Source struct {
	items ItemFetcher
	store FeedStore
	out   chan<- protocol.Message
	opts  Options
	cfg   *config.Config
	log   *debuglog.FieldLogger

	feeds    []storage.Feed
	selected int
	loaded   []storage.Item
	next     int
}

func New(items ItemFetcher, store FeedStore, cfg *config.Config, out chan<- protocol.Message, opts Options) *Source {
	if opts.Validator == nil {
		opts.Validator = validation.NewFeedURLValidator()
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = cfg.Feed.HTTPTimeout
	}
	return &Source{
		items:    items,
		store:    store,
		out:      out,
		opts:     opts,
		cfg:      cfg,
		log:      debuglog.WithFields(map[string]any{"component": "source"}),
		selected: -1,
	}
}

// Feeds returns the active feed list.
func (s *Source) Feeds() []storage.Feed {
	return append([]storage.Feed(nil), s.feeds...)
}

// Run announces the feed list and then serves requests and config changes
// until ctx is done.
func (s *Source) Run(ctx context.Context, requests <-chan protocol.Request, changes <-chan *config.Config) error {
	if err := s.loadFeeds(); err != nil {
		return err
	}
	if err := s.sendFeeds(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			if err := s.handle(ctx, req); err != nil {
				return err
			}
		case cfg, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if err := s.reconfigure(ctx, cfg); err != nil {
				return err
			}
		}
	}
}

func (s *Source) handle(ctx context.Context, req protocol.Request) error {
	s.log.Debugf("request %s", protocol.Describe(req))

	switch r := req.(type) {
	case protocol.SelectFeed:
		if r.Index < 0 || r.Index >= len(s.feeds) {
			s.log.Warnf("select of unknown feed %d", r.Index)
			return nil
		}
		s.selected = r.Index
		s.loaded, s.next = nil, 0
		s.fetch(ctx)
		return s.sendNextTitle(ctx)

	case protocol.RequestNextTitle:
		if s.selected < 0 {
			return nil
		}
		if len(s.loaded) == 0 {
			s.fetch(ctx)
		}
		return s.sendNextTitle(ctx)

	case protocol.RequestArticle:
		if r.Index < 0 || r.Index >= len(s.loaded) {
			s.log.Warnf("article %d out of range (%d items)", r.Index, len(s.loaded))
			return nil
		}
		text := s.loaded[r.Index].Description
		if text == "" {
			text = NoArticle
		}
		return s.send(ctx, protocol.ArticleText{Text: text})

	default:
		s.log.Warnf("ignoring request %s", protocol.Describe(req))
		return nil
	}
}

// fetch loads the selected feed. Failures leave nothing loaded; the next
// title request tries again.
func (s *Source) fetch(ctx context.Context) {
	f := s.feeds[s.selected]
	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	items, err := s.items.Items(fetchCtx, f.URL)
	if err != nil {
		s.log.Warnf("fetching %s: %v", f.Name, err)
		return
	}
	if len(items) > catalog.MaxTitles {
		items = items[:catalog.MaxTitles]
	}
	s.loaded, s.next = items, 0
	s.log.Infof("loaded %d items from %s", len(items), f.Name)
}

// sendNextTitle sends nothing once every title went out.
func (s *Source) sendNextTitle(ctx context.Context) error {
	if s.next >= len(s.loaded) {
		return nil
	}
	title := s.loaded[s.next].Title
	s.next++
	return s.send(ctx, protocol.TitleText{Text: title})
}

func (s *Source) sendFeeds(ctx context.Context) error {
	feeds := s.feeds
	if len(feeds) > catalog.MaxFeeds {
		s.log.Warnf("only the first %d of %d feeds are offered", catalog.MaxFeeds, len(feeds))
		feeds = feeds[:catalog.MaxFeeds]
	}

	if err := s.send(ctx, protocol.FeedsCount{Count: len(feeds)}); err != nil {
		return err
	}
	for _, f := range feeds {
		if err := s.pause(ctx); err != nil {
			return err
		}
		if err := s.send(ctx, protocol.FeedName{Name: f.Name}); err != nil {
			return err
		}
	}
	return nil
}

// reconfigure runs one configuration session for a changed config file.
func (s *Source) reconfigure(ctx context.Context, cfg *config.Config) error {
	if err := s.send(ctx, protocol.ConfigSessionOpened{}); err != nil {
		return err
	}

	prev := s.cfg
	s.cfg = cfg
	s.selected, s.loaded, s.next = -1, nil, 0
	if err := s.loadFeeds(); err != nil {
		s.log.Errorf("reloading feeds: %v", err)
	}

	closed := protocol.ConfigSessionClosed{}
	if cfg.Reader.WPM > 0 && cfg.Reader.WPM != prev.Reader.WPM {
		wpm := cfg.Reader.WPM
		closed.ReadingSpeedWPM = &wpm
	}
	if cfg.Reader.Backlight != prev.Reader.Backlight {
		on := cfg.Reader.Backlight
		closed.Backlight = &on
	}
	if err := s.send(ctx, closed); err != nil {
		return err
	}

	return s.sendFeeds(ctx)
}

// loadFeeds picks the feed list: the config file's when it names any,
// then the stored list, then the built-in defaults. The result is stored.
func (s *Source) loadFeeds() error {
	feeds := s.configFeeds()
	origin := "config"

	if len(feeds) == 0 {
		stored, err := s.store.GetFeeds()
		if err != nil {
			s.log.Warnf("reading stored feeds: %v", err)
		}
		feeds, origin = stored, "database"
	}

	if len(feeds) == 0 {
		defaults, err := DefaultFeeds()
		if err != nil {
			return err
		}
		feeds, origin = defaults, "defaults"
	}

	s.feeds = feeds
	s.log.Infof("using %d feeds from %s", len(feeds), origin)

	if origin == "database" {
		return nil
	}
	if err := storage.Retry(func() error { return s.store.SaveFeeds(feeds) }); err != nil {
		return fmt.Errorf("saving feeds: %w", err)
	}
	return nil
}

func (s *Source) configFeeds() []storage.Feed {
	var feeds []storage.Feed
	for _, entry := range s.cfg.Feeds {
		url, err := s.opts.Validator.ValidateAndNormalize(entry.URL)
		if err != nil {
			s.log.Warnf("skipping feed %q: %v", entry.Name, err)
			continue
		}
		name := entry.Name
		if name == "" {
			name = url
		}
		feeds = append(feeds, storage.Feed{Position: len(feeds), Name: name, URL: url})
	}
	return feeds
}

func (s *Source) send(ctx context.Context, msg protocol.Message) error {
	select {
	case s.out <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Source) pause(ctx context.Context) error {
	if s.opts.NameGap <= 0 {
		return nil
	}
	t := time.NewTimer(s.opts.NameGap)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
