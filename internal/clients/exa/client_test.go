package exa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/leadagent/internal/clients"
	"github.com/rpggio/leadagent/internal/domain/discovery"
	"github.com/stretchr/testify/require"
)

func TestFindSimilar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/findSimilar", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("x-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "https://acme.com", body["url"])
		require.Equal(t, float64(10), body["numResults"])
		require.Equal(t, map[string]any{"text": true, "summary": true}, body["contents"])
		require.Equal(t, []any{"acme.com"}, body["excludeDomains"])

		_, _ = w.Write([]byte(`{"results":[
			{"url":"https://x.com","title":"X","text":"tx","summary":"sx","score":0.7},
			{"url":"https://y.com","title":"Y"}
		]}`))
	}))
	defer server.Close()

	c, err := New(server.URL, "secret", server.Client())
	require.NoError(t, err)

	got, err := c.FindSimilar(context.Background(), discovery.SimilarityRequest{
		URL:            "https://acme.com",
		NumResults:     10,
		IncludeText:    true,
		IncludeSummary: true,
		ExcludeDomains: []string{"acme.com"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "X", got[0].Title)
	require.InDelta(t, 0.7, *got[0].Score, 1e-9)
	require.Nil(t, got[1].Score)
}

func TestFindSimilar_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	c, err := New(server.URL, "bad", server.Client())
	require.NoError(t, err)

	_, err = c.FindSimilar(context.Background(), discovery.SimilarityRequest{URL: "https://acme.com"})
	require.ErrorIs(t, err, clients.ErrService)
	require.Contains(t, err.Error(), "invalid api key")
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New("", "", nil)
	require.ErrorIs(t, err, clients.ErrNotConfigured)
}
