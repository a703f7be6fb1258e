package client

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"go.uber.org/zap"
)

const defaultPageSize = 5

type NewsAPIOptions struct {
	Name     string
	Endpoint string
	APIKey   string
	Query    string
	Language string
	PageSize int
}

// NewsAPIClient queries a NewsAPI-compatible /v2/everything endpoint. Without
// an API key it is a deliberate no-op.
type NewsAPIClient struct {
	*BaseClient
	opts NewsAPIOptions
}

type NewsAPIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func NewNewsAPIClient(opts NewsAPIOptions, config ClientConfig, logger *zap.Logger) *NewsAPIClient {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	return &NewsAPIClient{
		BaseClient: NewBaseClient(opts.Name, config, logger),
		opts:       opts,
	}
}

func (c *NewsAPIClient) Name() string { return c.opts.Name }
func (c *NewsAPIClient) Kind() string { return "api" }

func (c *NewsAPIClient) FetchNews(ctx context.Context) ([]models.NewsItem, error) {
	if strings.TrimSpace(c.opts.APIKey) == "" {
		c.logger.Debug("No API key configured, skipping source", zap.String("source", c.opts.Name))
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", c.opts.Query)
	if c.opts.Language != "" {
		params.Set("language", c.opts.Language)
	}
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(c.opts.PageSize))

	data, err := c.Get(ctx, c.opts.Endpoint+"?"+params.Encode(), map[string]string{
		"X-Api-Key": c.opts.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}

	var response NewsAPIResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if response.Status != "ok" {
		return nil, fmt.Errorf("API error: %s: %s", response.Code, response.Message)
	}

	items := make([]models.NewsItem, 0, len(response.Articles))
	for _, article := range response.Articles {
		title := collapseSpace(article.Title)
		if title == "" {
			continue
		}

		item := models.NewsItem{
			Source:    cmp.Or(strings.TrimSpace(article.Source.Name), c.opts.Name),
			Title:     title,
			Timestamp: strings.Replace(prefix(article.PublishedAt, timestampLength), "T", " ", 1),
			Summary:   truncate(htmlText(article.Description), maxSummaryLength),
			Kind:      models.KindAPI,
		}
		if article.URL != "" {
			item.URL = models.StringPtr(article.URL)
		}
		items = append(items, item)
	}

	return items, nil
}
