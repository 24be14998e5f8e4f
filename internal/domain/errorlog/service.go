package errorlog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service handles the error log.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new error log service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Record appends an error for url stamped with the current time.
func (s *Service) Record(ctx context.Context, url, message string) (*Record, error) {
	rec := &Record{
		URL:          url,
		ErrorMessage: message,
		Timestamp:    s.now().UTC(),
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("recording error: %w", err)
	}
	s.logger.Debug("error recorded", zap.String("url", url), zap.Int64("id", rec.ID))
	return rec, nil
}

// List returns every error record in insertion order.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing errors: %w", err)
	}
	return recs, nil
}
