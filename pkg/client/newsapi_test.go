package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewsAPIClient_FetchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "Juiz de Fora enchente", r.URL.Query().Get("q"))
		assert.Equal(t, "pt", r.URL.Query().Get("language"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{
					"source": {"id": null, "name": "Estado de Minas"},
					"title": "Sobe para 21 o número de desaparecidos em Juiz de Fora",
					"description": "Buscas continuam no bairro <b>Paineiras</b>.",
					"url": "https://em.com.br/noticia/1",
					"publishedAt": "2026-02-25T15:42:11Z"
				},
				{
					"source": {"id": null, "name": ""},
					"title": "",
					"description": "sem título",
					"url": "https://example.com/x",
					"publishedAt": "2026-02-25T15:00:00Z"
				}
			]
		}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient(NewsAPIOptions{
		Name:     "newsapi",
		Endpoint: srv.URL,
		APIKey:   "secret",
		Query:    "Juiz de Fora enchente",
		Language: "pt",
	}, testConfig(), zap.NewNop())

	items, err := c.FetchNews(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Estado de Minas", items[0].Source)
	assert.Equal(t, "Sobe para 21 o número de desaparecidos em Juiz de Fora", items[0].Title)
	assert.Equal(t, "2026-02-25 15:42", items[0].Timestamp)
	assert.Equal(t, "Buscas continuam no bairro Paineiras.", items[0].Summary)
	assert.Equal(t, "api", string(items[0].Kind))
	require.NotNil(t, items[0].URL)
	assert.Equal(t, "https://em.com.br/noticia/1", *items[0].URL)
}

func TestNewsAPIClient_NoKeyIsNoop(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewNewsAPIClient(NewsAPIOptions{Name: "newsapi", Endpoint: srv.URL, APIKey: "  "}, testConfig(), zap.NewNop())
	items, err := c.FetchNews(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, calls.Load())
}

func TestNewsAPIClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient(NewsAPIOptions{Name: "newsapi", Endpoint: srv.URL, APIKey: "bad"}, testConfig(), zap.NewNop())
	_, err := c.FetchNews(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}
