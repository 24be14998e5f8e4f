package seed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rpggio/leadagent/internal/repository"
	"go.uber.org/zap"
)

// Service manages the seed registry.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new seed service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Add registers url with status not-started.
func (s *Service) Add(ctx context.Context, url string) (*SeedURL, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrInvalidInput
	}

	sd := &SeedURL{URL: url, Status: StatusNotStarted}
	if err := s.repo.Create(ctx, sd); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeed, url)
		}
		return nil, fmt.Errorf("adding seed: %w", err)
	}

	s.logger.Info("seed added", zap.String("seed_url", url), zap.Int64("id", sd.ID))
	return sd, nil
}

// Remove deletes the seed for url. Removing an unknown URL is not an error.
func (s *Service) Remove(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if err := s.repo.DeleteByURL(ctx, url); err != nil {
		return fmt.Errorf("removing seed: %w", err)
	}
	s.logger.Info("seed removed", zap.String("seed_url", url))
	return nil
}

// List returns every seed, or only the seed matching url when url is set.
// An unknown url yields an empty slice.
func (s *Service) List(ctx context.Context, url string) ([]SeedURL, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		seeds, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing seeds: %w", err)
		}
		return seeds, nil
	}

	sd, err := s.repo.GetByURL(ctx, url)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []SeedURL{}, nil
		}
		return nil, fmt.Errorf("getting seed: %w", err)
	}
	return []SeedURL{*sd}, nil
}

// Get fetches one seed by URL.
func (s *Service) Get(ctx context.Context, url string) (*SeedURL, error) {
	sd, err := s.repo.GetByURL(ctx, strings.TrimSpace(url))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSeedNotFound
		}
		return nil, fmt.Errorf("getting seed: %w", err)
	}
	return sd, nil
}

// AllURLs returns every seed URL in registration order.
func (s *Service) AllURLs(ctx context.Context) ([]string, error) {
	seeds, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing seed urls: %w", err)
	}
	urls := make([]string, 0, len(seeds))
	for _, sd := range seeds {
		urls = append(urls, sd.URL)
	}
	return urls, nil
}

// ListByStatus returns seeds currently in status.
func (s *Service) ListByStatus(ctx context.Context, status Status) ([]SeedURL, error) {
	if !status.Valid() {
		return nil, ErrInvalidInput
	}
	seeds, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing seeds by status: %w", err)
	}
	return seeds, nil
}

// SetStatus moves the seed for url to status.
func (s *Service) SetStatus(ctx context.Context, url string, status Status) error {
	if !status.Valid() {
		return ErrInvalidInput
	}
	if err := s.repo.UpdateStatus(ctx, url, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSeedNotFound
		}
		return fmt.Errorf("updating seed status: %w", err)
	}
	return nil
}

// BulkLine is the outcome for one line of a bulk import.
type BulkLine struct {
	URL string `json:"url"`
	Err error  `json:"-"`
}

// BulkReport summarizes a bulk import.
type BulkReport struct {
	Lines []BulkLine `json:"lines"`
}

// Added counts lines that produced a new seed.
func (r BulkReport) Added() int {
	n := 0
	for _, l := range r.Lines {
		if l.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts lines that were rejected.
func (r BulkReport) Failed() int {
	return len(r.Lines) - r.Added()
}

// BulkAdd adds one seed per non-blank line of r. Duplicates are reported per
// line and do not stop the import; storage failures do.
func (s *Service) BulkAdd(ctx context.Context, r io.Reader) (BulkReport, error) {
	var report BulkReport
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		url := strings.TrimSpace(scanner.Text())
		if url == "" {
			continue
		}
		_, err := s.Add(ctx, url)
		if err != nil && !errors.Is(err, ErrDuplicateSeed) {
			return report, err
		}
		if err != nil {
			s.logger.Warn("bulk add skipped duplicate", zap.String("seed_url", url))
		}
		report.Lines = append(report.Lines, BulkLine{URL: url, Err: err})
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("reading seed list: %w", err)
	}
	return report, nil
}
