package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// NewsClient is one news fetcher. Implementations may return errors; Source
// turns them into an empty contribution.
type NewsClient interface {
	Name() string
	Kind() string
	FetchNews(ctx context.Context) ([]models.NewsItem, error)
}

type WeatherClient interface {
	GetWeather(ctx context.Context) (*models.WeatherSnapshot, error)
}

// FetchResult is the internal success-or-failure record of one fetch.
type FetchResult struct {
	Source   string
	Kind     string
	Items    []models.NewsItem
	Err      error
	Duration time.Duration
}

func (r FetchResult) Outcome() string {
	switch {
	case r.Err != nil:
		return OutcomeError
	case len(r.Items) == 0:
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}

func (r FetchResult) Status() models.SourceStatus {
	status := models.SourceStatus{
		Name:     r.Source,
		Kind:     r.Kind,
		Items:    len(r.Items),
		Duration: r.Duration,
	}
	if r.Err != nil {
		status.Error = r.Err.Error()
	}
	return status
}

// Source bounds a NewsClient with a timeout and isolates its failures.
type Source struct {
	client  NewsClient
	timeout time.Duration
	clock   clockwork.Clock
	logger  *zap.Logger
}

func NewSource(client NewsClient, timeout time.Duration, clock clockwork.Clock, logger *zap.Logger) *Source {
	return &Source{
		client:  client,
		timeout: timeout,
		clock:   clock,
		logger:  logger,
	}
}

func (s *Source) Name() string { return s.client.Name() }
func (s *Source) Kind() string { return s.client.Kind() }

// Run fetches once and reports what happened. It never panics and returns
// within the configured timeout even if the client ignores its context.
func (s *Source) Run(ctx context.Context) FetchResult {
	start := s.clock.Now()
	items, err := guard(ctx, s.timeout, s.client.FetchNews)

	result := FetchResult{
		Source:   s.client.Name(),
		Kind:     s.client.Kind(),
		Err:      err,
		Duration: s.clock.Since(start),
	}
	if err == nil {
		result.Items = items
	}

	if err != nil {
		s.logger.Warn("Source fetch failed",
			zap.String("source", result.Source),
			zap.Duration("duration", result.Duration),
			zap.Error(err))
	} else {
		s.logger.Debug("Source fetched",
			zap.String("source", result.Source),
			zap.Int("items", len(items)),
			zap.Duration("duration", result.Duration))
	}
	return result
}

// Fetch is the soft-fail boundary: any failure yields an empty sequence.
func (s *Source) Fetch(ctx context.Context) []models.NewsItem {
	return s.Run(ctx).Items
}

// guard runs fn under a timeout, converting panics and overruns to errors.
func guard[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				done <- outcome{value: zero, err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("fetch abandoned: %w", ctx.Err())
	}
}
