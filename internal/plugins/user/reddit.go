// Package user holds the site plugins shipped with skim.
package user

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pders01/skim/internal/plugins"
)

// RedditPlugin maps subreddit pages to their RSS endpoint.
type RedditPlugin struct{}

func NewRedditPlugin() *RedditPlugin {
	return &RedditPlugin{}
}

func (p *RedditPlugin) Name() string {
	return "reddit"
}

func (p *RedditPlugin) CanHandle(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host != "reddit.com" && host != "www.reddit.com" && host != "old.reddit.com" {
		return false
	}
	return subreddit(u.Path) != ""
}

func (p *RedditPlugin) Priority() int {
	return 50
}

// Resolve appends .rss to the subreddit path. No request is made.
func (p *RedditPlugin) Resolve(_ context.Context, rawURL string, _ *http.Client) (*plugins.FeedInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	name := subreddit(u.Path)

	feedURL := *u
	feedURL.Path = strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(feedURL.Path, ".rss") {
		feedURL.Path += ".rss"
	}
	feedURL.RawQuery = ""
	feedURL.Fragment = ""

	return &plugins.FeedInfo{
		OriginalURL: rawURL,
		FeedURL:     feedURL.String(),
		Name:        "r/" + name,
		Metadata: map[string]string{
			"plugin":    "reddit",
			"subreddit": name,
		},
	}, nil
}

// subreddit extracts the name from a /r/<name> path.
func subreddit(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "r" {
		return ""
	}
	return strings.TrimSuffix(parts[1], ".rss")
}
