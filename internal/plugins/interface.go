// Package plugins turns what a user typed into a fetchable feed URL. Each
// plugin knows one kind of site.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ErrEmptyURL is returned by Resolve for blank input.
var ErrEmptyURL = errors.New("empty feed URL")

// FeedInfo is the outcome of resolving a user supplied URL.
type FeedInfo struct {
	// OriginalURL is what was asked for.
	OriginalURL string
	// FeedURL is the document to fetch.
	FeedURL string
	// Name is a suggested menu name, possibly empty.
	Name string
	// Plugin names the resolver that produced FeedURL; empty for a
	// passthrough.
	Plugin   string
	Metadata map[string]string
}

// Plugin resolves URLs of one kind of site.
type Plugin interface {
	Name() string
	CanHandle(url string) bool
	// Resolve may make HTTP requests through client.
	Resolve(ctx context.Context, url string, client *http.Client) (*FeedInfo, error)
	// Priority orders plugins that can handle the same URL; higher wins.
	Priority() int
}

// Registry holds plugins ordered by descending priority. Plugins of equal
// priority keep their registration order.
type Registry struct {
	plugins []Plugin
	client  *http.Client
}

// NewRegistry returns an empty registry whose plugins share one HTTP
// client with the given timeout.
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{client: &http.Client{Timeout: timeout}}
}

func (r *Registry) Register(plugin Plugin) {
	r.plugins = append(r.plugins, plugin)
	sort.SliceStable(r.plugins, func(i, j int) bool {
		return r.plugins[i].Priority() > r.plugins[j].Priority()
	})
}

// FindPlugin returns the highest priority plugin that can handle url, or
// nil.
func (r *Registry) FindPlugin(url string) Plugin {
	for _, p := range r.plugins {
		if p.CanHandle(url) {
			return p
		}
	}
	return nil
}

// Resolve runs the best plugin for url. Without one, url is taken to be a
// feed already.
func (r *Registry) Resolve(ctx context.Context, url string) (*FeedInfo, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}

	p := r.FindPlugin(url)
	if p == nil {
		return &FeedInfo{OriginalURL: url, FeedURL: url, Metadata: map[string]string{}}, nil
	}

	info, err := p.Resolve(ctx, url, r.client)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if info.OriginalURL == "" {
		info.OriginalURL = url
	}
	info.Plugin = p.Name()
	return info, nil
}

// ListPlugins returns the plugins in the order they are tried.
func (r *Registry) ListPlugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}
