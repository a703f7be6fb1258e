package models

// WeatherSnapshot holds current conditions and precipitation forecast for the
// monitored area. Any field may be missing from the upstream response.
type WeatherSnapshot struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	Humidity         *float64 `json:"humidity,omitempty"`
	PrecipitationNow *float64 `json:"precipitation_now,omitempty"`
	ForecastToday    *float64 `json:"forecast_today,omitempty"`
	ForecastTomorrow *float64 `json:"forecast_tomorrow,omitempty"`
	Conditions       *string  `json:"conditions,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}
