// Package groq implements company fact extraction against Groq's
// OpenAI-compatible chat completions API.
package groq

import (
	"context"
	"errors"
	"net/http"

	"github.com/rpggio/leadagent/internal/clients"
	"github.com/rpggio/leadagent/internal/domain/research"
)

const (
	// DefaultBaseURL is the public Groq endpoint.
	DefaultBaseURL = "https://api.groq.com"
	// DefaultModel is the model used for extraction.
	DefaultModel = "llama3-8b-8192"

	completionsPath = "/openai/v1/chat/completions"
)

// Client runs single-turn chat completions.
type Client struct {
	json  *clients.JSONClient
	model string
}

// New builds a Client. An empty apiKey is rejected with clients.ErrNotConfigured.
func New(baseURL, apiKey, model string, httpClient *http.Client) (*Client, error) {
	if apiKey == "" {
		return nil, clients.Wrap(clients.ErrNotConfigured, "groq", errors.New("GROQ_API_KEY is empty"))
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+apiKey)
	return &Client{
		json:  clients.NewJSONClient("groq", baseURL, header, httpClient),
		model: model,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete returns the text of the first choice.
func (c *Client) Complete(ctx context.Context, req research.CompletionRequest) (string, error) {
	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        1,
	}

	var resp chatResponse
	if err := c.json.PostJSON(ctx, completionsPath, payload, &resp, "chat completion"); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", clients.Wrap(clients.ErrService, "chat completion", errors.New("response has no choices"))
	}
	return resp.Choices[0].Message.Content, nil
}
