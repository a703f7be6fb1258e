package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	defaultSelector  = "a[href]"
	defaultPageLimit = 15
	minTitleLength   = 20 // titles must be strictly longer than this
)

type WebPageOptions struct {
	Name     string
	Endpoint string
	Keywords []string
	Selector string
	Limit    int
}

// WebPageClient scrapes headline candidates out of an HTML page.
type WebPageClient struct {
	*BaseClient
	opts  WebPageOptions
	clock clockwork.Clock
}

func NewWebPageClient(opts WebPageOptions, config ClientConfig, clock clockwork.Clock, logger *zap.Logger) *WebPageClient {
	if opts.Selector == "" {
		opts.Selector = defaultSelector
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultPageLimit
	}
	return &WebPageClient{
		BaseClient: NewBaseClient(opts.Name, config, logger),
		opts:       opts,
		clock:      clock,
	}
}

func (c *WebPageClient) Name() string { return c.opts.Name }
func (c *WebPageClient) Kind() string { return "web" }

func (c *WebPageClient) FetchNews(ctx context.Context) ([]models.NewsItem, error) {
	base, err := url.Parse(c.opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}

	data, err := c.Get(ctx, c.opts.Endpoint, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	timestamp := c.clock.Now().Format(timestampLayout)
	var items []models.NewsItem

	doc.Find(c.opts.Selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= c.opts.Limit {
			return false
		}

		title := headline(s)
		body := paragraph(s)
		if len([]rune(title)) <= minTitleLength {
			return true
		}
		if !matchesAny(title+" "+body, c.opts.Keywords) {
			return true
		}

		link, ok := resolveLink(base, s)
		if !ok {
			return true
		}

		if body == "" {
			body = "Notícia publicada no site da " + c.opts.Name
		}

		items = append(items, models.NewsItem{
			Source:    c.opts.Name,
			Title:     truncate(title, maxTitleLength),
			Timestamp: timestamp,
			Summary:   truncate(body, maxSummaryLength),
			Kind:      models.KindBulletin,
			URL:       models.StringPtr(link),
		})
		return true
	})

	c.logger.Debug("Page scraped",
		zap.String("source", c.opts.Name),
		zap.Int("items", len(items)))

	return items, nil
}

// headline prefers a heading inside the candidate block over its full text.
func headline(s *goquery.Selection) string {
	if h := s.Find("h1, h2, h3, h4").First(); h.Length() > 0 {
		return collapseSpace(h.Text())
	}
	return collapseSpace(s.Text())
}

func paragraph(s *goquery.Selection) string {
	return collapseSpace(s.Find("p").First().Text())
}

// resolveLink finds the candidate's link and makes it absolute. Only http and
// https targets are accepted.
func resolveLink(base *url.URL, s *goquery.Selection) (string, bool) {
	href, ok := s.Attr("href")
	if !ok || !s.Is("a") {
		href, ok = s.Find("a[href]").First().Attr("href")
	}
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return abs.String(), true
}
