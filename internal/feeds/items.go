package feeds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jarutosurano/wordcounter/internal/stats"
	"github.com/mmcdole/gofeed"
)

// Item is one feed entry or article with the statistics block applied.
type Item struct {
	Source      string        `json:"source"`
	Title       string        `json:"title"`
	URL         string        `json:"url"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	Content     string        `json:"content"`
	Stats       *stats.Result `json:"stats,omitempty"`
}

// renderItems renders every usable entry of feed. Entries with neither a
// link nor any body are skipped.
func renderItems(ctx context.Context, r ContentRenderer, source string, feed *gofeed.Feed) ([]Item, error) {
	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		body := itemBody(entry)
		if entry.Link == "" && strings.TrimSpace(body) == "" {
			continue
		}

		out, err := r.Render(ctx, body, true)
		if err != nil {
			return nil, fmt.Errorf("rendering item %q: %w", entry.Link, err)
		}

		var published *time.Time
		if entry.PublishedParsed != nil {
			t := *entry.PublishedParsed
			published = &t
		}

		items = append(items, Item{
			Source:      source,
			Title:       entry.Title,
			URL:         entry.Link,
			PublishedAt: published,
			Content:     out.Content,
			Stats:       out.Stats,
		})
	}
	return items, nil
}

// itemBody prefers the full content of an entry and falls back to its
// description.
func itemBody(entry *gofeed.Item) string {
	if strings.TrimSpace(entry.Content) != "" {
		return entry.Content
	}
	return entry.Description
}
