package feed

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
	now          func() time.Time
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		now:          time.Now,
	}
}

// Run parses an RSS or Atom document. Items keep the order of the
// document.
func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title: feed.Title,
		Link:  feed.Link,
	}

	fetchedAt := p.now()
	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		items = append(items, p.normalizeItem(item, fetchedAt))
	}

	return metadata, items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, fetchedAt time.Time) Item {
	normalized := Item{
		Title: strings.TrimSpace(item.Title),
		Link:  strings.TrimSpace(item.Link),
	}

	// Items without a date are treated as published when first fetched.
	switch {
	case item.PublishedParsed != nil:
		normalized.PublishedAt = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		normalized.PublishedAt = *item.UpdatedParsed
	default:
		normalized.PublishedAt = fetchedAt
	}

	normalized.ISODate = FormatISODate(normalized.PublishedAt)

	return normalized
}

func FormatISODate(t time.Time) string {
	return t.UTC().Format(ISODateLayout)
}
