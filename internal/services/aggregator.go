package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobby-s-dev/flood-monitor/internal/config"
	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"github.com/bobby-s-dev/flood-monitor/internal/observability"
	"github.com/bobby-s-dev/flood-monitor/pkg/client"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Settings are the static inputs of an aggregation cycle.
type Settings struct {
	Seeds        []models.NewsItem
	Gazetteer    []string
	Fallback     models.MetricSnapshot
	TopN         int
	FetchTimeout time.Duration
	Clock        clockwork.Clock
}

type Aggregator struct {
	sources  []*Source
	weather  WeatherClient
	settings Settings
	metrics  *observability.Metrics
	logger   *zap.Logger

	mu            sync.RWMutex
	lastCycleTime time.Time
	lastDuration  time.Duration
	cycles        int
	successCount  int
	failureCount  int
}

// NewAggregator builds the fetchers named by cfg.
func NewAggregator(cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) (*Aggregator, error) {
	clock := clockwork.NewRealClock()
	clientConfig := client.ClientConfig{
		Timeout:        cfg.Fetch.Timeout,
		UserAgent:      cfg.Fetch.UserAgent,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}

	var clients []NewsClient
	for _, src := range cfg.Sources {
		switch src.Kind {
		case config.SourceWeb:
			clients = append(clients, client.NewWebPageClient(client.WebPageOptions{
				Name:     src.Name,
				Endpoint: src.Endpoint,
				Keywords: src.Keywords,
				Selector: src.Selector,
				Limit:    src.Limit,
			}, clientConfig, clock, logger))
		case config.SourceFeed:
			clients = append(clients, client.NewFeedClient(client.FeedOptions{
				Name:     src.Name,
				Endpoint: src.Endpoint,
				Keywords: src.Keywords,
				Limit:    src.Limit,
			}, clientConfig, clock, logger))
		case config.SourceAPI:
			clients = append(clients, client.NewNewsAPIClient(client.NewsAPIOptions{
				Name:     src.Name,
				Endpoint: src.Endpoint,
				APIKey:   cfg.NewsAPI.APIKey,
				Query:    src.Query,
				Language: src.Language,
				PageSize: src.Limit,
			}, clientConfig, logger))
			if cfg.NewsAPI.APIKey == "" {
				logger.Info("No API key configured, source will be skipped", zap.String("source", src.Name))
			}
		default:
			return nil, fmt.Errorf("source %q: unknown kind %q", src.Name, src.Kind)
		}
		logger.Info("Source client initialized",
			zap.String("source", src.Name),
			zap.String("kind", string(src.Kind)))
	}

	weather := client.NewOpenMeteoClient(client.OpenMeteoOptions{
		BaseURL:      cfg.Weather.URL,
		Coordinates:  cfg.Weather.Coordinates,
		Timezone:     cfg.Weather.Timezone,
		ForecastDays: cfg.Weather.ForecastDays,
	}, clientConfig, logger)
	logger.Info("Open-Meteo client initialized")

	return NewAggregatorWithClients(Settings{
		Seeds:        cfg.SeedNews,
		Gazetteer:    cfg.GazetteerNames(),
		Fallback:     cfg.Fallback,
		TopN:         cfg.TopN,
		FetchTimeout: cfg.Fetch.Timeout,
		Clock:        clock,
	}, clients, weather, metrics, logger), nil
}

// NewAggregatorWithClients wires an Aggregator from ready-made clients. weather
// may be nil.
func NewAggregatorWithClients(settings Settings, clients []NewsClient, weather WeatherClient, metrics *observability.Metrics, logger *zap.Logger) *Aggregator {
	if settings.Clock == nil {
		settings.Clock = clockwork.NewRealClock()
	}
	if settings.TopN <= 0 {
		settings.TopN = config.DefaultTopN
	}

	sources := make([]*Source, 0, len(clients))
	for _, c := range clients {
		sources = append(sources, NewSource(c, settings.FetchTimeout, settings.Clock, logger))
	}

	return &Aggregator{
		sources:  sources,
		weather:  weather,
		settings: settings,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run performs one aggregation cycle. It always returns a snapshot; when every
// source fails the snapshot is built from seeds and fallback values alone.
func (a *Aggregator) Run(ctx context.Context) *models.AggregatedSnapshot {
	start := a.settings.Clock.Now()

	results := make([]FetchResult, len(a.sources))
	var weather *models.WeatherSnapshot

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = src.Run(ctx)
		}()
	}
	if a.weather != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			weather = a.fetchWeather(ctx)
		}()
	}
	wg.Wait()

	lists := make([][]models.NewsItem, 0, len(results)+1)
	lists = append(lists, a.settings.Seeds)
	statuses := make([]models.SourceStatus, 0, len(results))
	online, failed := 0, 0
	for _, r := range results {
		lists = append(lists, r.Items)
		statuses = append(statuses, r.Status())
		if len(r.Items) > 0 {
			online++
		}
		if r.Err != nil {
			failed++
		}
		a.recordFetch(r)
	}

	merged := MergeNews(lists...)
	now := a.settings.Clock.Now()
	metrics := ExtractMetrics(merged).MergeOver(a.settings.Fallback, now)
	locations := ExtractLocations(merged, a.settings.Gazetteer)

	news := merged
	if len(news) > a.settings.TopN {
		news = news[:a.settings.TopN]
	}

	snapshot := &models.AggregatedSnapshot{
		News:          news,
		Metrics:       metrics,
		Locations:     locations,
		Weather:       weather,
		GeneratedAt:   now,
		SourcesOnline: online,
		Sources:       statuses,
	}

	duration := a.settings.Clock.Since(start)
	a.mu.Lock()
	a.lastCycleTime = now
	a.lastDuration = duration
	a.cycles++
	a.successCount += len(results) - failed
	a.failureCount += failed
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.CyclesTotal.Inc()
		a.metrics.CycleDuration.Observe(duration.Seconds())
		a.metrics.SourcesOnline.Set(float64(online))
	}

	fields := []zap.Field{
		zap.Int("sources", len(a.sources)),
		zap.Int("sources_online", online),
		zap.Int("failed", failed),
		zap.Int("news", len(news)),
		zap.Int("locations", len(locations)),
		zap.Bool("weather", weather != nil),
		zap.Duration("duration", duration),
	}
	if snapshot.Degraded() {
		a.logger.Warn("Aggregation completed without live sources", fields...)
	} else {
		a.logger.Info("Aggregation completed", fields...)
	}

	return snapshot
}

func (a *Aggregator) fetchWeather(ctx context.Context) *models.WeatherSnapshot {
	weather, err := guard(ctx, a.settings.FetchTimeout, a.weather.GetWeather)
	if err != nil {
		a.logger.Warn("Failed to fetch weather", zap.Error(err))
		return nil
	}
	return weather
}

func (a *Aggregator) recordFetch(r FetchResult) {
	if a.metrics == nil {
		return
	}
	a.metrics.FetchTotal.WithLabelValues(r.Source, r.Outcome()).Inc()
	a.metrics.FetchDuration.WithLabelValues(r.Source).Observe(r.Duration.Seconds())
}

func (a *Aggregator) GetLastCycleTime() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastCycleTime
}

func (a *Aggregator) GetStats() map[string]interface{} {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.sources))
	for _, s := range a.sources {
		names = append(names, s.Name())
	}

	return map[string]interface{}{
		"last_cycle_time":     a.lastCycleTime,
		"last_cycle_duration": a.lastDuration.String(),
		"cycles":              a.cycles,
		"success_count":       a.successCount,
		"failure_count":       a.failureCount,
		"sources":             names,
		"weather_enabled":     a.weather != nil,
	}
}
