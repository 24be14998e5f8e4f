package discovery

import (
	"context"

	"github.com/rpggio/leadagent/internal/domain/errorlog"
	"github.com/rpggio/leadagent/internal/domain/lead"
	"github.com/rpggio/leadagent/internal/domain/seed"
)

// SimilarityRequest asks the similarity service for sites like URL.
type SimilarityRequest struct {
	URL            string
	NumResults     int
	IncludeText    bool
	IncludeSummary bool
	ExcludeDomains []string
}

// Candidate is one site returned by the similarity service.
type Candidate struct {
	URL     string
	Title   string
	Text    string
	Summary string
	Score   *float64
}

// SimilarityFinder finds websites similar to a seed.
type SimilarityFinder interface {
	FindSimilar(ctx context.Context, req SimilarityRequest) ([]Candidate, error)
}

// SeedStore is the subset of the seed registry discovery drives.
type SeedStore interface {
	Get(ctx context.Context, url string) (*seed.SeedURL, error)
	ListByStatus(ctx context.Context, status seed.Status) ([]seed.SeedURL, error)
	SetStatus(ctx context.Context, url string, status seed.Status) error
}

// LeadStore receives discovered leads.
type LeadStore interface {
	Upsert(ctx context.Context, req lead.UpsertRequest) (*lead.Lead, error)
}

// ErrorSink records failures.
type ErrorSink interface {
	Record(ctx context.Context, url, message string) (*errorlog.Record, error)
}

// Recorder observes seed outcomes.
type Recorder interface {
	ObserveSeed(status string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSeed(string) {}
