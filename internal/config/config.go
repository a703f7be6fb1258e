package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceWeb  SourceKind = "web"
	SourceFeed SourceKind = "feed"
	SourceAPI  SourceKind = "api"
)

// SourceConfig describes one news fetcher. Selector only applies to web
// pages; Query and Language only to the keyed API.
type SourceConfig struct {
	Name     string     `yaml:"name"`
	Kind     SourceKind `yaml:"kind"`
	Endpoint string     `yaml:"endpoint"`
	Keywords []string   `yaml:"keywords"`
	Selector string     `yaml:"selector"`
	Limit    int        `yaml:"limit"`
	Query    string     `yaml:"query"`
	Language string     `yaml:"language"`
}

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	Cache struct {
		TTL time.Duration
	}

	Fetch struct {
		Timeout   time.Duration
		UserAgent string
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}

	Scheduler struct {
		WarmSchedule string
	}

	NewsAPI struct {
		APIKey string
	}

	Weather struct {
		URL          string
		Coordinates  models.Coordinates
		Timezone     string
		ForecastDays int
	}

	Sources   []SourceConfig
	Gazetteer []models.Area
	Fallback  models.MetricSnapshot
	SeedNews  []models.NewsItem
	TopN      int
}

// fileConfig is the optional YAML layer. Pointer fields distinguish "not set"
// from zero so the file only overrides what it names.
type fileConfig struct {
	TTLSeconds         *int                   `yaml:"ttl_seconds"`
	TopN               *int                   `yaml:"top_n"`
	APICredential      string                 `yaml:"api_credential"`
	Sources            []SourceConfig         `yaml:"sources"`
	Gazetteer          []models.Area          `yaml:"gazetteer"`
	FallbackMetrics    *models.MetricSnapshot `yaml:"fallback_metrics"`
	WeatherCoordinates *models.Coordinates    `yaml:"weather_coordinates"`
	SeedNews           []models.NewsItem      `yaml:"seed_news"`
}

// LoadConfig builds the configuration from built-in defaults, then the YAML
// file named by CONFIG_FILE, then environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	var errs []error

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = parseDuration("READ_TIMEOUT", cfg.Server.ReadTimeout, &errs)
	cfg.Server.WriteTimeout = parseDuration("WRITE_TIMEOUT", cfg.Server.WriteTimeout, &errs)
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", cfg.Server.LogLevel)

	ttlSeconds := parseInt("CACHE_TTL_SECONDS", int(cfg.Cache.TTL/time.Second), &errs)
	cfg.Cache.TTL = time.Duration(ttlSeconds) * time.Second

	cfg.Fetch.Timeout = parseDuration("FETCH_TIMEOUT", cfg.Fetch.Timeout, &errs)
	cfg.Fetch.UserAgent = getEnv("USER_AGENT", cfg.Fetch.UserAgent)

	cfg.CircuitBreaker.Threshold = parseInt("CIRCUIT_BREAKER_THRESHOLD", cfg.CircuitBreaker.Threshold, &errs)
	cfg.CircuitBreaker.Timeout = parseDuration("CIRCUIT_BREAKER_TIMEOUT", cfg.CircuitBreaker.Timeout, &errs)

	if v, ok := os.LookupEnv("WARM_SCHEDULE"); ok {
		cfg.Scheduler.WarmSchedule = v
	}

	cfg.NewsAPI.APIKey = getEnv("NEWS_API_KEY", cfg.NewsAPI.APIKey)
	if url := os.Getenv("NEWS_API_URL"); url != "" {
		for i := range cfg.Sources {
			if cfg.Sources[i].Kind == SourceAPI {
				cfg.Sources[i].Endpoint = url
			}
		}
	}

	cfg.Weather.URL = getEnv("OPENMETEO_URL", cfg.Weather.URL)
	cfg.Weather.Coordinates.Latitude = parseFloat("WEATHER_LATITUDE", cfg.Weather.Coordinates.Latitude, &errs)
	cfg.Weather.Coordinates.Longitude = parseFloat("WEATHER_LONGITUDE", cfg.Weather.Coordinates.Longitude, &errs)
	cfg.Weather.Timezone = getEnv("WEATHER_TIMEZONE", cfg.Weather.Timezone)

	cfg.TopN = parseInt("TOP_N", cfg.TopN, &errs)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.TTLSeconds != nil {
		c.Cache.TTL = time.Duration(*fc.TTLSeconds) * time.Second
	}
	if fc.TopN != nil {
		c.TopN = *fc.TopN
	}
	if fc.APICredential != "" {
		c.NewsAPI.APIKey = fc.APICredential
	}
	if len(fc.Sources) > 0 {
		c.Sources = fc.Sources
	}
	if len(fc.Gazetteer) > 0 {
		c.Gazetteer = fc.Gazetteer
	}
	if fc.FallbackMetrics != nil {
		c.Fallback = *fc.FallbackMetrics
	}
	if fc.WeatherCoordinates != nil {
		c.Weather.Coordinates = *fc.WeatherCoordinates
	}
	if fc.SeedNews != nil {
		c.SeedNews = fc.SeedNews
	}

	return nil
}

// Validate rejects configurations the aggregation pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Cache.TTL <= 0 {
		return errors.New("cache TTL must be positive")
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New("FETCH_TIMEOUT must be positive")
	}
	if c.TopN <= 0 {
		return errors.New("TOP_N must be positive")
	}
	// An open breaker skips its source until the timeout elapses; it must not
	// outlast a cache cycle.
	if c.CircuitBreaker.Timeout > c.Cache.TTL {
		return fmt.Errorf("CIRCUIT_BREAKER_TIMEOUT (%s) must not exceed the cache TTL (%s)", c.CircuitBreaker.Timeout, c.Cache.TTL)
	}

	names := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("source at index %d: name is required", i)
		}
		if names[s.Name] {
			return fmt.Errorf("source %q: duplicate name", s.Name)
		}
		names[s.Name] = true

		switch s.Kind {
		case SourceWeb, SourceFeed, SourceAPI:
		default:
			return fmt.Errorf("source %q: unknown kind %q", s.Name, s.Kind)
		}
		if s.Endpoint == "" {
			return fmt.Errorf("source %q: endpoint is required", s.Name)
		}
		if s.Limit < 0 {
			return fmt.Errorf("source %q: limit must be non-negative", s.Name)
		}
	}

	for i, a := range c.Gazetteer {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("gazetteer entry at index %d: name is required", i)
		}
	}

	return nil
}

// GazetteerNames returns the area names in configured order.
func (c *Config) GazetteerNames() []string {
	names := make([]string, 0, len(c.Gazetteer))
	for _, a := range c.Gazetteer {
		names = append(names, a.Name)
	}
	return names
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return duration
}

func parseInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return intValue
}

func parseFloat(key string, defaultValue float64, errs *[]error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return floatValue
}
