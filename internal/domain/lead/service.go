package lead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/leadagent/internal/repository"
	"go.uber.org/zap"
)

// Service handles lead store operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new lead service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// UpsertRequest describes a discovered lead.
type UpsertRequest struct {
	CompanyName    string
	Website        string
	SourceURL      string
	AdditionalInfo any
	Score          float64
}

// Upsert stores a lead in status new, replacing any lead with the same website.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (*Lead, error) {
	website := strings.TrimSpace(req.Website)
	if website == "" {
		return nil, ErrInvalidInput
	}

	info, err := json.Marshal(req.AdditionalInfo)
	if err != nil {
		return nil, fmt.Errorf("encoding lead info: %w", err)
	}

	l := &Lead{
		CompanyName:    req.CompanyName,
		Website:        website,
		SourceURL:      req.SourceURL,
		Status:         StatusNew,
		AdditionalInfo: info,
		Score:          req.Score,
	}
	if err := s.repo.Upsert(ctx, l); err != nil {
		return nil, fmt.Errorf("upserting lead: %w", err)
	}
	return l, nil
}

// Get fetches a lead by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Lead, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("getting lead: %w", err)
	}
	return l, nil
}

// List returns all leads, or only those in status when status is non-empty.
func (s *Service) List(ctx context.Context, status Status) ([]Lead, error) {
	var filter *Status
	if status != "" {
		if !status.Valid() {
			return nil, ErrInvalidInput
		}
		filter = &status
	}
	leads, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return leads, nil
}

// Delete removes a lead by ID.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("deleting lead: %w", err)
	}
	s.logger.Info("lead deleted", zap.Int64("lead_id", id))
	return nil
}

// SaveResearch records the research outcome for a lead.
func (s *Service) SaveResearch(ctx context.Context, id int64, status Status, doc any) error {
	if status != StatusResearched && status != StatusError {
		return ErrInvalidInput
	}
	info, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding research document: %w", err)
	}
	if err := s.repo.UpdateResearch(ctx, id, status, info); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("saving research: %w", err)
	}
	return nil
}

// Census returns lead counts grouped by status.
func (s *Service) Census(ctx context.Context) ([]StatusCount, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting leads: %w", err)
	}
	return counts, nil
}
