package feed

import (
	"fmt"
	"strings"
)

// rssDoc builds an RSS 2.0 document with one item per title.
func rssDoc(channel string, titles ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>`)
	fmt.Fprintf(&b, "<title>%s</title><link>http://news.test</link>", channel)
	for i, title := range titles {
		fmt.Fprintf(&b, "<item><title>%s</title><link>http://news.test/%d</link><description>Body of story %d.</description></item>", title, i, i)
	}
	b.WriteString("</channel></rss>")
	return b.String()
}
