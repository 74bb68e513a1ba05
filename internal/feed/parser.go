package feed

import (
	"fmt"
	"io"

	"github.com/mmcdole/gofeed"

	"github.com/pders01/skim/internal/storage"
)

// MaxItems bounds how many items of one feed are kept.
const MaxItems = 50

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

// Parsed is the cleaned content of one feed document.
type Parsed struct {
	Title string
	Items []storage.Item
}

// Parse reads a feed document. Items without a usable title are skipped
// and at most MaxItems are kept, in document order.
func (p *Parser) Parse(reader io.Reader, feedURL string) (*Parsed, error) {
	feed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	out := &Parsed{
		Title: Clean(feed.Title),
		Items: make([]storage.Item, 0, min(len(feed.Items), MaxItems)),
	}
	for _, item := range feed.Items {
		if len(out.Items) == MaxItems {
			break
		}
		title := Clean(item.Title)
		if title == "" {
			continue
		}

		parsed := storage.Item{
			FeedURL:     feedURL,
			Title:       title,
			Description: ShortenDescription(Clean(getDescription(item))),
			Link:        item.Link,
		}
		if item.PublishedParsed != nil {
			parsed.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			parsed.Published = *item.UpdatedParsed
		}
		out.Items = append(out.Items, parsed)
	}

	return out, nil
}

func getDescription(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}
	return item.Content
}
