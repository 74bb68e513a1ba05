package user

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pders01/skim/internal/plugins"
)

// DiscoveryPlugin finds the feed a web page advertises through
// <link rel="alternate">. A URL that already serves a feed passes through.
type DiscoveryPlugin struct{}

func NewDiscoveryPlugin() *DiscoveryPlugin {
	return &DiscoveryPlugin{}
}

func (p *DiscoveryPlugin) Name() string {
	return "discovery"
}

// CanHandle skips URLs that name a feed document by their extension.
func (p *DiscoveryPlugin) CanHandle(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".rss", ".xml", ".atom", ".rdf":
		return false
	}
	return true
}

func (p *DiscoveryPlugin) Priority() int {
	return 10
}

const feedLinkSelector = `link[rel="alternate"][type="application/rss+xml"], link[rel="alternate"][type="application/atom+xml"]`

func (p *DiscoveryPlugin) Resolve(ctx context.Context, rawURL string, client *http.Client) (*plugins.FeedInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html, application/rss+xml, application/atom+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	info := &plugins.FeedInfo{
		OriginalURL: rawURL,
		FeedURL:     rawURL,
		Metadata:    map[string]string{"plugin": "discovery"},
	}
	if isFeedType(resp.Header.Get("Content-Type")) {
		return info, nil
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	link := doc.Find(feedLinkSelector).First()
	href, ok := link.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return nil, fmt.Errorf("no feed advertised at %s", rawURL)
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, fmt.Errorf("invalid feed link %q: %w", href, err)
	}
	info.FeedURL = resp.Request.URL.ResolveReference(ref).String()

	if title, ok := link.Attr("title"); ok && strings.TrimSpace(title) != "" {
		info.Name = strings.TrimSpace(title)
	} else {
		info.Name = strings.TrimSpace(doc.Find("head > title").First().Text())
	}
	return info, nil
}

func isFeedType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "rss") || strings.Contains(ct, "atom") || strings.Contains(ct, "xml")
}
