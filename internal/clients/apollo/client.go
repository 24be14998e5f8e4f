// Package apollo implements contact lookup against the Apollo people search API.
package apollo

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rpggio/leadagent/internal/clients"
	"github.com/rpggio/leadagent/internal/domain/research"
)

// DefaultBaseURL is the public Apollo endpoint.
const DefaultBaseURL = "https://api.apollo.io"

// Client calls POST /v1/mixed_people/search.
type Client struct {
	json *clients.JSONClient
}

// New builds a Client. An empty apiKey is rejected with clients.ErrNotConfigured.
func New(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	if apiKey == "" {
		return nil, clients.Wrap(clients.ErrNotConfigured, "apollo", errors.New("APOLLO_API_KEY is empty"))
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	header := http.Header{}
	header.Set("X-Api-Key", apiKey)
	header.Set("Cache-Control", "no-cache")
	return &Client{json: clients.NewJSONClient("apollo", baseURL, header, httpClient)}, nil
}

type searchRequest struct {
	OrganizationName string `json:"q_organization_name"`
	Page             int    `json:"page"`
	PerPage          int    `json:"per_page"`
}

type person struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Title       *string `json:"title"`
}

type searchResponse struct {
	People []person `json:"people"`
}

// FindContacts returns people at q.OrganizationName.
func (c *Client) FindContacts(ctx context.Context, q research.ContactQuery) ([]research.Contact, error) {
	var resp searchResponse
	payload := searchRequest{
		OrganizationName: q.OrganizationName,
		Page:             q.Page,
		PerPage:          q.PerPage,
	}
	if err := c.json.PostJSON(ctx, "/v1/mixed_people/search", payload, &resp, "people search"); err != nil {
		return nil, err
	}

	contacts := make([]research.Contact, 0, len(resp.People))
	for _, p := range resp.People {
		name := strings.TrimSpace(p.FirstName + " " + p.LastName)
		if name == "" {
			name = research.NotFound
		}
		contacts = append(contacts, research.Contact{
			Name:  name,
			Email: orNotFound(p.Email),
			Phone: orNotFound(p.PhoneNumber),
			Title: orNotFound(p.Title),
		})
	}
	return contacts, nil
}

func orNotFound(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return research.NotFound
	}
	return *v
}
