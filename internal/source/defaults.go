package source

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/skim/internal/storage"
)

//go:embed default_feeds.toml
var defaultFeedsTOML []byte

type feedList struct {
	Feeds []struct {
		Name string `toml:"name"`
		URL  string `toml:"url"`
	} `toml:"feeds"`
}

// DefaultFeeds returns the built-in feed list.
func DefaultFeeds() ([]storage.Feed, error) {
	var list feedList
	if err := toml.Unmarshal(defaultFeedsTOML, &list); err != nil {
		return nil, fmt.Errorf("parsing default feeds: %w", err)
	}
	feeds := make([]storage.Feed, 0, len(list.Feeds))
	for i, f := range list.Feeds {
		feeds = append(feeds, storage.Feed{Position: i, Name: f.Name, URL: f.URL})
	}
	return feeds, nil
}
