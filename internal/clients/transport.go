package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// JSONClient posts JSON payloads to one API base URL.
type JSONClient struct {
	Name       string
	BaseURL    string
	Header     http.Header
	HTTPClient *http.Client
}

// NewJSONClient builds a JSONClient. A nil httpClient uses http.DefaultClient.
func NewJSONClient(name, baseURL string, header http.Header, httpClient *http.Client) *JSONClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if header == nil {
		header = http.Header{}
	}
	return &JSONClient{
		Name:       name,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Header:     header,
		HTTPClient: httpClient,
	}
}

// PostJSON sends payload to path and decodes the response into out.
// Every failure is reported as ErrService.
func (c *JSONClient) PostJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return Wrap(ErrService, operation, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return Wrap(ErrService, operation, fmt.Errorf("create request: %w", err))
	}
	for k, values := range c.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Wrap(ErrService, operation, fmt.Errorf("%s request: %w", c.Name, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return Wrap(ErrService, operation, formatHTTPError(c.Name, resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Wrap(ErrService, operation, fmt.Errorf("decode %s response: %w", c.Name, err))
	}
	return nil
}

func formatHTTPError(name string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s status: %s", name, resp.Status)
	}
	return fmt.Errorf("%s status: %s: %s", name, resp.Status, msg)
}
