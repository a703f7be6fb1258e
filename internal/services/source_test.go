package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeClient is a NewsClient with scripted behavior. It deliberately ignores
// ctx so timeouts must be enforced by Source.
type fakeClient struct {
	name     string
	items    []models.NewsItem
	err      error
	panicMsg string
	delay    time.Duration
	calls    atomic.Int32
}

func (f *fakeClient) Name() string { return f.name }
func (f *fakeClient) Kind() string { return "fake" }

func (f *fakeClient) FetchNews(_ context.Context) ([]models.NewsItem, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.items, f.err
}

func item(source, title, timestamp, summary string) models.NewsItem {
	return models.NewsItem{
		Source:    source,
		Title:     title,
		Timestamp: timestamp,
		Summary:   summary,
		Kind:      models.KindBulletin,
	}
}

func newTestSource(c NewsClient, timeout time.Duration) *Source {
	return NewSource(c, timeout, clockwork.NewRealClock(), zap.NewNop())
}

func TestSource_RunOK(t *testing.T) {
	c := &fakeClient{name: "defesa-civil", items: []models.NewsItem{item("dc", "Chuva forte em Juiz de Fora", "25/02 10:00", "")}}

	r := newTestSource(c, time.Second).Run(context.Background())
	require.NoError(t, r.Err)
	assert.Equal(t, OutcomeOK, r.Outcome())
	assert.Equal(t, "defesa-civil", r.Source)
	assert.Len(t, r.Items, 1)

	status := r.Status()
	assert.Equal(t, 1, status.Items)
	assert.Empty(t, status.Error)
}

func TestSource_RunEmpty(t *testing.T) {
	r := newTestSource(&fakeClient{name: "quiet"}, time.Second).Run(context.Background())
	require.NoError(t, r.Err)
	assert.Equal(t, OutcomeEmpty, r.Outcome())
}

func TestSource_ErrorIsIsolated(t *testing.T) {
	c := &fakeClient{
		name:  "broken",
		items: []models.NewsItem{item("x", "should not leak through", "", "")},
		err:   errors.New("connection refused"),
	}
	s := newTestSource(c, time.Second)

	r := s.Run(context.Background())
	require.Error(t, r.Err)
	assert.Equal(t, OutcomeError, r.Outcome())
	assert.Empty(t, r.Items)
	assert.Equal(t, "connection refused", r.Status().Error)

	assert.Empty(t, s.Fetch(context.Background()))
}

func TestSource_PanicIsIsolated(t *testing.T) {
	s := newTestSource(&fakeClient{name: "panicky", panicMsg: "boom"}, time.Second)

	r := s.Run(context.Background())
	require.Error(t, r.Err)
	assert.Contains(t, r.Err.Error(), "boom")
	assert.Empty(t, r.Items)
}

func TestSource_TimeoutAbandonsSlowClient(t *testing.T) {
	c := &fakeClient{
		name:  "slow",
		items: []models.NewsItem{item("slow", "Resposta tardia demais para contar", "", "")},
		delay: 500 * time.Millisecond,
	}
	s := newTestSource(c, 20*time.Millisecond)

	start := time.Now()
	r := s.Run(context.Background())
	assert.Less(t, time.Since(start), 400*time.Millisecond)
	require.Error(t, r.Err)
	assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
	assert.Empty(t, r.Items)
}
