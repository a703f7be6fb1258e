package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"go.uber.org/zap"
)

type OpenMeteoOptions struct {
	BaseURL      string
	Coordinates  models.Coordinates
	Timezone     string
	ForecastDays int
}

type OpenMeteoClient struct {
	*BaseClient
	opts OpenMeteoOptions
}

type OpenMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Time               string   `json:"time"`
		Temperature2M      *float64 `json:"temperature_2m"`
		RelativeHumidity2M *float64 `json:"relative_humidity_2m"`
		Precipitation      *float64 `json:"precipitation"`
		Rain               *float64 `json:"rain"`
		WeatherCode        *int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time             []string   `json:"time"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
		RainSum          []*float64 `json:"rain_sum"`
	} `json:"daily"`
}

func NewOpenMeteoClient(opts OpenMeteoOptions, config ClientConfig, logger *zap.Logger) *OpenMeteoClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.open-meteo.com/v1"
	}
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = 3
	}
	return &OpenMeteoClient{
		BaseClient: NewBaseClient("open-meteo", config, logger),
		opts:       opts,
	}
}

// GetWeather returns current conditions and the precipitation forecast for
// today and tomorrow at the configured coordinates.
func (c *OpenMeteoClient) GetWeather(ctx context.Context) (*models.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(c.opts.Coordinates.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(c.opts.Coordinates.Longitude, 'f', -1, 64))
	params.Set("current", "temperature_2m,relative_humidity_2m,precipitation,rain,weather_code")
	params.Set("daily", "precipitation_sum,rain_sum")
	if c.opts.Timezone != "" {
		params.Set("timezone", c.opts.Timezone)
	}
	params.Set("forecast_days", strconv.Itoa(c.opts.ForecastDays))

	data, err := c.Get(ctx, c.opts.BaseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}

	var response OpenMeteoResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	weather := &models.WeatherSnapshot{
		Temperature:      response.Current.Temperature2M,
		Humidity:         response.Current.RelativeHumidity2M,
		PrecipitationNow: response.Current.Precipitation,
		ForecastToday:    dayValue(response.Daily.PrecipitationSum, 0),
		ForecastTomorrow: dayValue(response.Daily.PrecipitationSum, 1),
	}
	if response.Current.WeatherCode != nil {
		weather.Conditions = models.StringPtr(weatherCodeToDescription(*response.Current.WeatherCode))
	}

	return weather, nil
}

func dayValue(values []*float64, day int) *float64 {
	if day < len(values) {
		return values[day]
	}
	return nil
}

func weatherCodeToDescription(code int) string {
	// WMO Weather interpretation codes
	weatherCodes := map[int]string{
		0:  "Clear sky",
		1:  "Mainly clear",
		2:  "Partly cloudy",
		3:  "Overcast",
		45: "Foggy",
		48: "Depositing rime fog",
		51: "Light drizzle",
		53: "Moderate drizzle",
		55: "Dense drizzle",
		56: "Light freezing drizzle",
		57: "Dense freezing drizzle",
		61: "Slight rain",
		63: "Moderate rain",
		65: "Heavy rain",
		66: "Light freezing rain",
		67: "Heavy freezing rain",
		80: "Slight rain showers",
		81: "Moderate rain showers",
		82: "Violent rain showers",
		95: "Thunderstorm",
		96: "Thunderstorm with slight hail",
		99: "Thunderstorm with heavy hail",
	}

	if desc, ok := weatherCodes[code]; ok {
		return desc
	}
	return "Unknown"
}
