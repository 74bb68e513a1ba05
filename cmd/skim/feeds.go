package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/feed"
	"github.com/pders01/skim/internal/plugins"
	"github.com/pders01/skim/internal/plugins/user"
	"github.com/pders01/skim/internal/source"
	"github.com/pders01/skim/internal/storage"
)

var (
	feedName     string
	forceRefresh bool
)

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Manage the stored feed list",
	Long: `Manage the stored feed list. A [[feeds]] list in the config file takes
precedence over the stored one while the reader runs.`,
}

var feedsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feeds in menu order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(func(_ *config.Config, store *storage.Store) error {
			feeds, err := storedFeeds(store)
			if err != nil {
				return err
			}
			renderFeeds(cmd.OutOrStdout(), feeds)
			return nil
		})
	},
}

var feedsAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a feed by URL, subreddit or web page",
	Long: `Add a feed. The URL may point at the feed itself, at a subreddit
(reddit.com/r/golang) or at a web page that advertises its feed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(cfg *config.Config, store *storage.Store) error {
			added, err := addFeed(cmd.Context(), cfg, store, args[0], feedName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added feed '%s' (%s)\n", added.Name, added.URL)
			return nil
		})
	},
}

var feedsRemoveCmd = &cobra.Command{
	Use:   "remove <url|position>",
	Short: "Remove a feed by URL or by its position in the list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(_ *config.Config, store *storage.Store) error {
			feeds, err := storedFeeds(store)
			if err != nil {
				return err
			}
			target, err := findFeed(feeds, args[0])
			if err != nil {
				return err
			}
			if err := storage.Retry(func() error { return store.RemoveFeed(target.URL) }); err != nil {
				return fmt.Errorf("removing feed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed feed '%s'\n", target.Name)
			return nil
		})
	},
}

var feedsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch every feed now and update the cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(func(cfg *config.Config, store *storage.Store) error {
			feeds, err := storedFeeds(store)
			if err != nil {
				return err
			}
			manager := feed.NewManager(store, cfg)
			manager.SetForceRefresh(forceRefresh)

			err = manager.RefreshAll(cmd.Context(), feeds)
			failed := 0
			if err != nil {
				failed = 1
				var joined interface{ Unwrap() []error }
				if errors.As(err, &joined) {
					failed = len(joined.Unwrap())
				}
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d feeds (%d failed)\n", len(feeds)-failed, failed)
			return nil
		})
	},
}

func init() {
	feedsAddCmd.Flags().StringVar(&feedName, "name", "", "menu name (default is the feed's title)")
	feedsRefreshCmd.Flags().BoolVar(&forceRefresh, "force", false, "ignore ETag and Last-Modified and download every feed in full")
	feedsCmd.AddCommand(feedsListCmd, feedsAddCmd, feedsRemoveCmd, feedsRefreshCmd)
	rootCmd.AddCommand(feedsCmd)
}

func withStore(fn func(*config.Config, *storage.Store) error) error {
	cfg, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer debuglog.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(cfg, store)
}

// storedFeeds returns the stored list, seeding it with the built-in
// defaults on first use so that edits start from what the reader shows.
func storedFeeds(store *storage.Store) ([]storage.Feed, error) {
	feeds, err := store.GetFeeds()
	if err != nil {
		return nil, fmt.Errorf("loading feeds: %w", err)
	}
	if len(feeds) > 0 {
		return feeds, nil
	}

	defaults, err := source.DefaultFeeds()
	if err != nil {
		return nil, err
	}
	if err := storage.Retry(func() error { return store.SaveFeeds(defaults) }); err != nil {
		return nil, fmt.Errorf("saving default feeds: %w", err)
	}
	return store.GetFeeds()
}

func newRegistry(cfg *config.Config) *plugins.Registry {
	registry := plugins.NewRegistry(cfg.Feed.HTTPTimeout)
	registry.Register(user.NewRedditPlugin())
	registry.Register(user.NewDiscoveryPlugin())
	return registry
}

func addFeed(ctx context.Context, cfg *config.Config, store *storage.Store, rawURL, name string) (storage.Feed, error) {
	if _, err := storedFeeds(store); err != nil {
		return storage.Feed{}, err
	}

	info, err := newRegistry(cfg).Resolve(ctx, rawURL)
	if err != nil {
		return storage.Feed{}, fmt.Errorf("resolving %s: %w", rawURL, err)
	}
	if info.Plugin != "" {
		debuglog.Infof("%s resolved %s to %s", info.Plugin, info.OriginalURL, info.FeedURL)
	}

	discovered, err := feed.NewManager(store, cfg).Discover(ctx, info.FeedURL)
	if err != nil {
		return storage.Feed{}, err
	}

	switch {
	case name != "":
		discovered.Name = name
	case info.Name != "":
		discovered.Name = info.Name
	}

	err = storage.Retry(func() error { return store.AddFeed(discovered) })
	if errors.Is(err, storage.ErrDuplicate) {
		return storage.Feed{}, fmt.Errorf("%s is already in the list", discovered.URL)
	}
	if err != nil {
		return storage.Feed{}, fmt.Errorf("saving feed: %w", err)
	}
	return discovered, nil
}

// findFeed matches arg against 1-based positions first, then URLs.
func findFeed(feeds []storage.Feed, arg string) (storage.Feed, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(feeds) {
			return storage.Feed{}, fmt.Errorf("no feed at position %d (have %d)", n, len(feeds))
		}
		return feeds[n-1], nil
	}
	for _, f := range feeds {
		if strings.EqualFold(strings.TrimRight(f.URL, "/"), strings.TrimRight(arg, "/")) {
			return f, nil
		}
	}
	return storage.Feed{}, fmt.Errorf("no feed with URL %s", arg)
}

func renderFeeds(w io.Writer, feeds []storage.Feed) {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "NAME", "URL").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for i, f := range feeds {
		t.Row(strconv.Itoa(i+1), f.Name, f.URL)
	}
	fmt.Fprintln(w, t.Render())
}
