package research

import (
	"context"

	"github.com/rpggio/leadagent/internal/domain/errorlog"
	"github.com/rpggio/leadagent/internal/domain/lead"
)

// Scraper fetches a website and returns its visible block text.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// CompletionRequest is a single-turn, non-streaming completion.
type CompletionRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completer runs a language-model completion and returns its text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ContactQuery searches people by organization name.
type ContactQuery struct {
	OrganizationName string
	Page             int
	PerPage          int
}

// Contact is one person found for a company.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Title string `json:"title"`
}

// ContactFinder looks up contacts for an organization.
type ContactFinder interface {
	FindContacts(ctx context.Context, q ContactQuery) ([]Contact, error)
}

// LeadStore is the subset of the lead store the pipeline drives.
type LeadStore interface {
	List(ctx context.Context, status lead.Status) ([]lead.Lead, error)
	SaveResearch(ctx context.Context, id int64, status lead.Status, doc any) error
	Census(ctx context.Context) ([]lead.StatusCount, error)
}

// ErrorSink records failures.
type ErrorSink interface {
	Record(ctx context.Context, url, message string) (*errorlog.Record, error)
}

// Recorder observes lead outcomes.
type Recorder interface {
	ObserveLead(status string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveLead(string) {}
