package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()

	m.FetchTotal.WithLabelValues("feed", "ok").Inc()
	m.FetchTotal.WithLabelValues("feed", "ok").Inc()
	m.CacheRequests.WithLabelValues("hit").Inc()
	m.SourcesOnline.Set(3)

	assert.InDelta(t, 2, testutil.ToFloat64(m.FetchTotal.WithLabelValues("feed", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheRequests.WithLabelValues("hit")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.SourcesOnline), 0)

	// Two instances must be independent.
	other := NewMetricsForTesting()
	assert.InDelta(t, 0, testutil.ToFloat64(other.SourcesOnline), 0)
}

func TestMetricsRegisterCleanly(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.FetchTotal))
	require.NoError(t, reg.Register(m.FetchDuration))
	require.NoError(t, reg.Register(m.CyclesTotal))
	require.NoError(t, reg.Register(m.CycleDuration))
	require.NoError(t, reg.Register(m.SourcesOnline))
	require.NoError(t, reg.Register(m.CacheRequests))
	require.NoError(t, reg.Register(m.Invalidations))

	m.CyclesTotal.Inc()
	assert.Equal(t, 1, testutil.CollectAndCount(m.CyclesTotal))
}
