package storage

import (
	"time"
)

// Feed is one entry of the reader's feed list.
type Feed struct {
	Position int       `json:"position"`
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	AddedAt  time.Time `json:"added_at"`
}

// Item is a parsed headline with its cleaned description, cached per feed
// in feed order.
type Item struct {
	FeedURL     string    `json:"feed_url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Published   time.Time `json:"published"`
}

type FetchMetadata struct {
	FeedURL      string    `json:"feed_url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	LastFetched  time.Time `json:"last_fetched"`
}
