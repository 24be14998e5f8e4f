// Package exa implements similarity discovery against the Exa findSimilar API.
package exa

import (
	"context"
	"errors"
	"net/http"

	"github.com/rpggio/leadagent/internal/clients"
	"github.com/rpggio/leadagent/internal/domain/discovery"
)

// DefaultBaseURL is the public Exa endpoint.
const DefaultBaseURL = "https://api.exa.ai"

// Client calls POST /findSimilar.
type Client struct {
	json *clients.JSONClient
}

// New builds a Client. An empty apiKey is rejected with clients.ErrNotConfigured.
func New(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	if apiKey == "" {
		return nil, clients.Wrap(clients.ErrNotConfigured, "exa", errors.New("EXA_API_KEY is empty"))
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	header := http.Header{}
	header.Set("x-api-key", apiKey)
	return &Client{json: clients.NewJSONClient("exa", baseURL, header, httpClient)}, nil
}

type contentsOptions struct {
	Text    bool `json:"text"`
	Summary bool `json:"summary"`
}

type findSimilarRequest struct {
	URL            string          `json:"url"`
	NumResults     int             `json:"numResults"`
	Contents       contentsOptions `json:"contents"`
	ExcludeDomains []string        `json:"excludeDomains,omitempty"`
}

type result struct {
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Text    string   `json:"text"`
	Summary string   `json:"summary"`
	Score   *float64 `json:"score"`
}

type findSimilarResponse struct {
	Results []result `json:"results"`
}

// FindSimilar returns sites similar to req.URL.
func (c *Client) FindSimilar(ctx context.Context, req discovery.SimilarityRequest) ([]discovery.Candidate, error) {
	payload := findSimilarRequest{
		URL:        req.URL,
		NumResults: req.NumResults,
		Contents: contentsOptions{
			Text:    req.IncludeText,
			Summary: req.IncludeSummary,
		},
		ExcludeDomains: req.ExcludeDomains,
	}

	var resp findSimilarResponse
	if err := c.json.PostJSON(ctx, "/findSimilar", payload, &resp, "find similar"); err != nil {
		return nil, err
	}

	out := make([]discovery.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, discovery.Candidate{
			URL:     r.URL,
			Title:   r.Title,
			Text:    r.Text,
			Summary: r.Summary,
			Score:   r.Score,
		})
	}
	return out, nil
}
