package client

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

const defaultFeedLimit = 5

type FeedOptions struct {
	Name     string
	Endpoint string
	Keywords []string
	Limit    int
}

// FeedClient reads RSS/Atom/JSON feeds.
type FeedClient struct {
	*BaseClient
	opts  FeedOptions
	clock clockwork.Clock
}

func NewFeedClient(opts FeedOptions, config ClientConfig, clock clockwork.Clock, logger *zap.Logger) *FeedClient {
	if opts.Limit <= 0 {
		opts.Limit = defaultFeedLimit
	}
	return &FeedClient{
		BaseClient: NewBaseClient(opts.Name, config, logger),
		opts:       opts,
		clock:      clock,
	}
}

func (c *FeedClient) Name() string { return c.opts.Name }
func (c *FeedClient) Kind() string { return "feed" }

func (c *FeedClient) FetchNews(ctx context.Context) ([]models.NewsItem, error) {
	data, err := c.Get(ctx, c.opts.Endpoint, map[string]string{
		"Accept": "application/rss+xml, application/atom+xml, application/xml, text/xml",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	// gofeed.Parser keeps per-parse state, so each fetch gets its own.
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	source := cmp.Or(strings.TrimSpace(feed.Title), c.opts.Name)
	fallbackTime := c.clock.Now().Format(timestampLayout)

	entries := feed.Items
	if len(entries) > c.opts.Limit {
		entries = entries[:c.opts.Limit]
	}

	items := make([]models.NewsItem, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		title := collapseSpace(entry.Title)
		if title == "" || !matchesAny(title, c.opts.Keywords) {
			continue
		}

		item := models.NewsItem{
			Source:    source,
			Title:     title,
			Timestamp: cmp.Or(prefix(strings.TrimSpace(entry.Published), timestampLength), fallbackTime),
			Summary:   truncate(htmlText(entry.Description), maxSummaryLength),
			Kind:      models.KindFeed,
		}
		if link := strings.TrimSpace(entry.Link); link != "" {
			item.URL = models.StringPtr(link)
		}
		items = append(items, item)
	}

	c.logger.Debug("Feed parsed",
		zap.String("source", c.opts.Name),
		zap.Int("entries", len(feed.Items)),
		zap.Int("items", len(items)))

	return items, nil
}
