package models

import (
	"time"
)

// MetricSnapshot is the resolved set of impact figures. Every field holds a
// concrete value: either extracted from the news or taken from the fallback.
type MetricSnapshot struct {
	Deaths          int       `json:"deaths" yaml:"deaths"`
	Missing         int       `json:"missing" yaml:"missing"`
	Sheltered       int       `json:"sheltered" yaml:"sheltered"`
	Displaced       int       `json:"displaced" yaml:"displaced"`
	RainfallMonthMM float64   `json:"rainfall_month_mm" yaml:"rainfall_month_mm"`
	Rainfall48hMM   float64   `json:"rainfall_48h_mm" yaml:"rainfall_48h_mm"`
	Occurrences     int       `json:"occurrences" yaml:"occurrences"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"updated_at"`
}

// PartialMetrics is what extraction produces. A nil field means no item
// matched that metric's pattern.
type PartialMetrics struct {
	Deaths    *int `json:"deaths,omitempty"`
	Missing   *int `json:"missing,omitempty"`
	Sheltered *int `json:"sheltered,omitempty"`
	Displaced *int `json:"displaced,omitempty"`
}

// MergeOver lays the extracted values over fallback field by field. Extracted
// values win only when present.
func (p PartialMetrics) MergeOver(fallback MetricSnapshot, updatedAt time.Time) MetricSnapshot {
	out := fallback
	if p.Deaths != nil {
		out.Deaths = *p.Deaths
	}
	if p.Missing != nil {
		out.Missing = *p.Missing
	}
	if p.Sheltered != nil {
		out.Sheltered = *p.Sheltered
	}
	if p.Displaced != nil {
		out.Displaced = *p.Displaced
	}
	out.UpdatedAt = updatedAt
	return out
}

type LocationMention struct {
	Name         string `json:"name"`
	MentionCount int    `json:"mention_count"`
	LastHeadline string `json:"last_headline"`
}

type SourceStatus struct {
	Name     string        `json:"name"`
	Kind     string        `json:"kind"`
	Items    int           `json:"items"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// AggregatedSnapshot is produced whole by one aggregation cycle and never
// mutated afterwards. The cache hands the same instance to every reader, so
// consumers must treat News, Locations, Sources and Weather as read-only.
type AggregatedSnapshot struct {
	News          []NewsItem                 `json:"news"`
	Metrics       MetricSnapshot             `json:"metrics"`
	Locations     map[string]LocationMention `json:"locations"`
	Weather       *WeatherSnapshot           `json:"weather,omitempty"`
	GeneratedAt   time.Time                  `json:"generated_at"`
	SourcesOnline int                        `json:"sources_online"`
	Sources       []SourceStatus             `json:"sources"`
}

// Degraded reports whether no live source contributed to the snapshot.
func (s *AggregatedSnapshot) Degraded() bool {
	return s.SourcesOnline == 0
}

