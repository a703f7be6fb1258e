package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flood_monitor"

// Metrics holds the Prometheus collectors for the aggregation pipeline.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec   // labels: source, outcome={ok,empty,error}
	FetchDuration *prometheus.HistogramVec // labels: source

	CyclesTotal   prometheus.Counter
	CycleDuration prometheus.Histogram
	SourcesOnline prometheus.Gauge

	// Cache metrics.
	CacheRequests *prometheus.CounterVec // labels: result={hit,miss}
	Invalidations prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.CyclesTotal,
		m.CycleDuration,
		m.SourcesOnline,
		m.CacheRequests,
		m.Invalidations,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Source fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a single source fetch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total aggregation cycles run.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete aggregation cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SourcesOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sources_online",
			Help:      "Sources that returned at least one item in the last cycle.",
		}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		Invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalidations_total",
			Help:      "Manual snapshot invalidations.",
		}),
	}
}
