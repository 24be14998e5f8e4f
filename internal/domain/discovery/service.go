// Package discovery turns seed URLs into leads using the similarity service.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/leadagent/internal/clients"
	"github.com/rpggio/leadagent/internal/domain/lead"
	"github.com/rpggio/leadagent/internal/domain/seed"
	"github.com/rpggio/leadagent/internal/repository"
	"go.uber.org/zap"
)

// NumResults is the number of candidates requested per seed.
const NumResults = 10

// Service runs similarity discovery.
type Service struct {
	finder   SimilarityFinder
	seeds    SeedStore
	leads    LeadStore
	errors   ErrorSink
	recorder Recorder
	logger   *zap.Logger
}

// NewService creates a discovery service. finder may be nil when the
// similarity credential is missing; runs then fail with clients.ErrNotConfigured.
func NewService(
	finder SimilarityFinder,
	seeds SeedStore,
	leads LeadStore,
	errs ErrorSink,
	recorder Recorder,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		finder:   finder,
		seeds:    seeds,
		leads:    leads,
		errors:   errs,
		recorder: recorder,
		logger:   logger,
	}
}

// Configured reports whether a similarity client is available.
func (s *Service) Configured() bool {
	return s.finder != nil
}

// RunPending runs discovery for every not-started seed. A seed failure is
// reported in its outcome; storage failures and cancellation abort the batch.
// A seed interrupted by cancellation is left failed, never processing.
func (s *Service) RunPending(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	if !s.Configured() {
		return report, clients.Wrap(clients.ErrNotConfigured, "discovery", errors.New("similarity api key is not set"))
	}

	pending, err := s.seeds.ListByStatus(ctx, seed.StatusNotStarted)
	if err != nil {
		return report, err
	}

	log := s.logger.With(zap.String("run_id", report.RunID))
	log.Info("discovery started", zap.Int("seeds", len(pending)))
	for _, sd := range pending {
		outcome, err := s.run(ctx, log, sd.URL)
		if err != nil {
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	log.Info("discovery finished",
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("failed", report.Failed()),
		zap.Int("leads", report.Leads()),
	)
	return report, nil
}

// RunSeed runs discovery for one registered seed regardless of its status.
func (s *Service) RunSeed(ctx context.Context, seedURL string) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	if !s.Configured() {
		return report, clients.Wrap(clients.ErrNotConfigured, "discovery", errors.New("similarity api key is not set"))
	}

	sd, err := s.seeds.Get(ctx, seedURL)
	if err != nil {
		return report, err
	}

	log := s.logger.With(zap.String("run_id", report.RunID))
	outcome, err := s.run(ctx, log, sd.URL)
	if err != nil {
		return report, err
	}
	report.Outcomes = append(report.Outcomes, outcome)
	return report, nil
}

func (s *Service) run(ctx context.Context, log *zap.Logger, seedURL string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	log = log.With(zap.String("seed_url", seedURL))
	if err := s.seeds.SetStatus(ctx, seedURL, seed.StatusProcessing); err != nil {
		return Outcome{}, err
	}

	count, runErr := s.discover(ctx, seedURL)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// A cancelled run still moves the seed out of processing.
		if _, err := s.markFailed(context.WithoutCancel(ctx), log, seedURL, count, ctxErr); err != nil {
			return Outcome{}, err
		}
		return Outcome{}, ctxErr
	}
	if errors.Is(runErr, repository.ErrStorage) {
		return Outcome{}, runErr
	}
	if runErr != nil {
		return s.markFailed(ctx, log, seedURL, count, runErr)
	}

	if err := s.seeds.SetStatus(ctx, seedURL, seed.StatusCompleted); err != nil {
		return Outcome{}, err
	}
	s.recorder.ObserveSeed(string(seed.StatusCompleted))
	log.Info("discovery completed", zap.Int("leads", count))
	return Outcome{SeedURL: seedURL, Status: seed.StatusCompleted, Leads: count}, nil
}

func (s *Service) markFailed(ctx context.Context, log *zap.Logger, seedURL string, count int, cause error) (Outcome, error) {
	log.Error("discovery failed", zap.Error(cause))
	if err := s.seeds.SetStatus(ctx, seedURL, seed.StatusFailed); err != nil {
		return Outcome{}, err
	}
	if _, err := s.errors.Record(ctx, seedURL, cause.Error()); err != nil {
		return Outcome{}, err
	}
	s.recorder.ObserveSeed(string(seed.StatusFailed))
	return Outcome{
		SeedURL: seedURL,
		Status:  seed.StatusFailed,
		Leads:   count,
		Error:   cause.Error(),
		Err:     cause,
	}, nil
}

func (s *Service) discover(ctx context.Context, seedURL string) (int, error) {
	req := SimilarityRequest{
		URL:            seedURL,
		NumResults:     NumResults,
		IncludeText:    true,
		IncludeSummary: true,
	}
	if domain := Domain(seedURL); domain != "" {
		req.ExcludeDomains = []string{domain}
	}

	candidates, err := s.finder.FindSimilar(ctx, req)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, c := range candidates {
		if strings.TrimSpace(c.URL) == "" {
			continue
		}
		score := 0.0
		if c.Score != nil {
			score = *c.Score
		}
		_, err := s.leads.Upsert(ctx, lead.UpsertRequest{
			CompanyName: c.Title,
			Website:     c.URL,
			SourceURL:   seedURL,
			AdditionalInfo: map[string]string{
				"text":    c.Text,
				"summary": c.Summary,
			},
			Score: score,
		})
		if err != nil {
			return written, fmt.Errorf("storing lead %s: %w", c.URL, err)
		}
		written++
	}
	return written, nil
}

// Domain returns the host of rawURL without a leading "www." and port.
// URLs without a scheme are treated as https.
func Domain(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
