package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const zonaDaMataFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>G1 Zona da Mata</title>
  <link>https://g1.globo.com/mg/zona-da-mata/</link>
  <item>
    <title>Chuva forte deixa 46 mortos em Juiz de Fora</title>
    <link>https://g1.globo.com/mg/zona-da-mata/noticia/1.ghtml</link>
    <description><![CDATA[<p>Defesa Civil confirma <b>46 mortes</b> após temporal.</p>]]></description>
    <pubDate>Wed, 25 Feb 2026 14:10:00 -0300</pubDate>
  </item>
  <item>
    <title>Festival de inverno tem programação divulgada</title>
    <link>https://g1.globo.com/mg/zona-da-mata/noticia/2.ghtml</link>
    <description>Shows começam em julho.</description>
  </item>
  <item>
    <title>Deslizamento atinge casas no bairro Três Moinhos</title>
    <link>https://g1.globo.com/mg/zona-da-mata/noticia/3.ghtml</link>
    <description>Moradores foram retirados.</description>
  </item>
</channel>
</rss>`

func newFeedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFeedClient_FetchNews(t *testing.T) {
	srv := newFeedServer(t, zonaDaMataFeed)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 25, 18, 0, 0, 0, time.UTC))

	c := NewFeedClient(FeedOptions{
		Name:     "g1-zona-da-mata",
		Endpoint: srv.URL,
		Keywords: []string{"juiz de fora", "jf", "enchente", "chuva", "deslizamento"},
	}, testConfig(), clock, zap.NewNop())

	items, err := c.FetchNews(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "G1 Zona da Mata", first.Source)
	assert.Equal(t, "Chuva forte deixa 46 mortos em Juiz de Fora", first.Title)
	assert.Equal(t, "Wed, 25 Feb 2026", first.Timestamp)
	assert.Equal(t, "Defesa Civil confirma 46 mortes após temporal.", first.Summary)
	assert.Equal(t, "rss", string(first.Kind))
	require.NotNil(t, first.URL)
	assert.Equal(t, "https://g1.globo.com/mg/zona-da-mata/noticia/1.ghtml", *first.URL)

	second := items[1]
	assert.Equal(t, "Deslizamento atinge casas no bairro Três Moinhos", second.Title)
	assert.Equal(t, "25/02 18:00", second.Timestamp, "entries without a date use the fetch time")
}

func TestFeedClient_Limit(t *testing.T) {
	srv := newFeedServer(t, zonaDaMataFeed)

	c := NewFeedClient(FeedOptions{
		Name:     "g1",
		Endpoint: srv.URL,
		Limit:    1,
	}, testConfig(), clockwork.NewFakeClock(), zap.NewNop())

	items, err := c.FetchNews(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Chuva forte deixa 46 mortos em Juiz de Fora", items[0].Title)
}

func TestFeedClient_InvalidFeed(t *testing.T) {
	srv := newFeedServer(t, "this is not a feed")

	c := NewFeedClient(FeedOptions{Name: "bad", Endpoint: srv.URL}, testConfig(), clockwork.NewFakeClock(), zap.NewNop())
	items, err := c.FetchNews(context.Background())
	require.Error(t, err)
	assert.Empty(t, items)
}
