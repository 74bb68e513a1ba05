// Package protocol defines the messages exchanged between the reader and the
// content source. Delivery is asynchronous and unordered, and either side may
// drop a message.
package protocol

import "fmt"

// Request is a message from the reader to the content source.
type Request interface {
	isRequest()
}

// RequestNextTitle asks for the next unsent headline of the selected feed.
type RequestNextTitle struct{}

// RequestArticle asks for the body of the headline at Index.
type RequestArticle struct {
	Index int
}

// SelectFeed switches the source to the feed at Index.
type SelectFeed struct {
	Index int
}

func (RequestNextTitle) isRequest() {}
func (RequestArticle) isRequest()   {}
func (SelectFeed) isRequest()       {}

// Message is a message from the content source to the reader.
type Message interface {
	isMessage()
}

// FeedsCount announces a fresh feed list of Count names.
type FeedsCount struct {
	Count int
}

// FeedName carries one feed name, in list order.
type FeedName struct {
	Name string
}

// TitleText carries one headline.
type TitleText struct {
	Text string
}

// ArticleText carries the body for the last requested article.
type ArticleText struct {
	Text string
}

// ConfigSessionOpened tells the reader that settings are being edited.
type ConfigSessionOpened struct{}

// ConfigSessionClosed ends a settings session. Nil fields were not changed.
type ConfigSessionClosed struct {
	ReadingSpeedWPM *int
	Backlight       *bool
}

func (FeedsCount) isMessage()          {}
func (FeedName) isMessage()            {}
func (TitleText) isMessage()           {}
func (ArticleText) isMessage()         {}
func (ConfigSessionOpened) isMessage() {}
func (ConfigSessionClosed) isMessage() {}

// Describe renders a message or request for logs.
func Describe(v any) string {
	switch m := v.(type) {
	case RequestNextTitle:
		return "request_next_title"
	case RequestArticle:
		return fmt.Sprintf("request_article(%d)", m.Index)
	case SelectFeed:
		return fmt.Sprintf("select_feed(%d)", m.Index)
	case FeedsCount:
		return fmt.Sprintf("feeds_count(%d)", m.Count)
	case FeedName:
		return fmt.Sprintf("feed_name(%q)", m.Name)
	case TitleText:
		return fmt.Sprintf("title_text(%d chars)", len(m.Text))
	case ArticleText:
		return fmt.Sprintf("article_text(%d chars)", len(m.Text))
	case ConfigSessionOpened:
		return "config_opened"
	case ConfigSessionClosed:
		s := "config_closed("
		if m.ReadingSpeedWPM != nil {
			s += fmt.Sprintf("wpm=%d", *m.ReadingSpeedWPM)
		}
		if m.Backlight != nil {
			if m.ReadingSpeedWPM != nil {
				s += " "
			}
			s += fmt.Sprintf("backlight=%t", *m.Backlight)
		}
		return s + ")"
	default:
		return fmt.Sprintf("%T", v)
	}
}
