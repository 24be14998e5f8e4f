// Package research enriches new leads with extracted company facts and contacts.
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/leadagent/internal/clients"
	"github.com/rpggio/leadagent/internal/domain/lead"
	"github.com/rpggio/leadagent/internal/repository"
	"go.uber.org/zap"
)

const (
	contactsPage    = 1
	contactsPerPage = 5
)

// Service runs the research pipeline.
type Service struct {
	scraper   Scraper
	completer Completer
	contacts  ContactFinder
	leads     LeadStore
	errors    ErrorSink
	recorder  Recorder
	logger    *zap.Logger
}

// Deps groups the collaborators of a research Service.
// Completer and Contacts may be nil when their credentials are missing.
type Deps struct {
	Scraper   Scraper
	Completer Completer
	Contacts  ContactFinder
	Leads     LeadStore
	Errors    ErrorSink
	Recorder  Recorder
}

// NewService creates a research service.
func NewService(deps Deps, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := deps.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		scraper:   deps.Scraper,
		completer: deps.Completer,
		contacts:  deps.Contacts,
		leads:     deps.Leads,
		errors:    deps.Errors,
		recorder:  recorder,
		logger:    logger,
	}
}

// Ready returns clients.ErrNotConfigured when a required client is missing.
func (s *Service) Ready() error {
	var missing []string
	if s.completer == nil {
		missing = append(missing, "completion client")
	}
	if s.contacts == nil {
		missing = append(missing, "contact search client")
	}
	if s.scraper == nil {
		missing = append(missing, "scraper")
	}
	if len(missing) > 0 {
		return clients.Wrap(clients.ErrNotConfigured, "research",
			fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}
	return nil
}

// Run researches every lead currently in status new. Per-lead failures are
// reported in outcomes; storage failures and cancellation abort the batch.
// A lead interrupted by cancellation stays new.
func (s *Service) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	if err := s.Ready(); err != nil {
		return report, err
	}

	log := s.logger.With(zap.String("run_id", report.RunID))
	if census, err := s.leads.Census(ctx); err == nil {
		for _, c := range census {
			log.Info("lead census", zap.String("status", string(c.Status)), zap.Int("count", c.Count))
		}
	}

	pending, err := s.leads.List(ctx, lead.StatusNew)
	if err != nil {
		return report, err
	}
	if len(pending) == 0 {
		log.Warn("no leads with status new")
	}

	log.Info("research started", zap.Int("leads", len(pending)))
	for _, l := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, err := s.researchLead(ctx, log, l)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				log.Warn("research cancelled", zap.Int64("lead_id", l.ID), zap.Error(ctxErr))
				return report, ctxErr
			}
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	log.Info("research finished",
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("failed", report.Failed()),
	)
	return report, nil
}

func (s *Service) researchLead(ctx context.Context, log *zap.Logger, l lead.Lead) (Outcome, error) {
	log = log.With(zap.Int64("lead_id", l.ID), zap.String("website", l.Website))
	log.Info("researching lead", zap.String("company", l.CompanyName))

	outcome := Outcome{LeadID: l.ID, CompanyName: l.CompanyName, Website: l.Website}

	text, err := s.scraper.Scrape(ctx, l.Website)
	if err != nil {
		text = ""
		if err := s.warn(ctx, log, &outcome, "scrape", err); err != nil {
			return outcome, err
		}
	}
	log.Info("scraped website", zap.Int("chars", len(text)))

	facts, err := extract(ctx, s.completer, text)
	if err != nil {
		if err := s.warn(ctx, log, &outcome, "extract", err); err != nil {
			return outcome, err
		}
	}

	name := companyName(facts, l.CompanyName)
	contacts := []Contact{}
	if name != "" {
		found, err := s.contacts.FindContacts(ctx, ContactQuery{
			OrganizationName: name,
			Page:             contactsPage,
			PerPage:          contactsPerPage,
		})
		if err != nil {
			if err := s.warn(ctx, log, &outcome, "contacts", err); err != nil {
				return outcome, err
			}
		} else if found != nil {
			contacts = found
		}
	}
	log.Info("found contacts", zap.Int("contacts", len(contacts)))

	full := make(map[string]any, len(facts)+2)
	for k, v := range facts {
		full[k] = v
	}
	full["website"] = l.Website
	full["contacts"] = contacts

	if name != "" {
		outcome.CompanyName = name
	}
	outcome.Contacts = len(contacts)

	if err := s.leads.SaveResearch(ctx, l.ID, lead.StatusResearched, full); err != nil {
		if errors.Is(err, repository.ErrStorage) {
			return outcome, err
		}
		return s.fail(ctx, log, outcome, err)
	}

	outcome.Status = lead.StatusResearched
	outcome.Document = full
	s.recorder.ObserveLead(string(lead.StatusResearched))
	log.Info("research completed")
	return outcome, nil
}

// warn records a degraded step; the lead still proceeds.
func (s *Service) warn(ctx context.Context, log *zap.Logger, outcome *Outcome, step string, cause error) error {
	msg := fmt.Sprintf("%s: %v", step, cause)
	log.Warn("research step degraded", zap.String("step", step), zap.Error(cause))
	outcome.Warnings = append(outcome.Warnings, msg)
	if _, err := s.errors.Record(ctx, outcome.Website, msg); err != nil {
		return err
	}
	return nil
}

// fail moves the lead to status error with an error document.
func (s *Service) fail(ctx context.Context, log *zap.Logger, outcome Outcome, cause error) (Outcome, error) {
	log.Error("research failed", zap.Error(cause))
	doc := map[string]any{"error": cause.Error()}
	outcome.Status = lead.StatusError
	outcome.Error = cause.Error()
	outcome.Err = cause
	outcome.Document = doc

	if err := s.leads.SaveResearch(ctx, outcome.LeadID, lead.StatusError, doc); err != nil {
		if errors.Is(err, repository.ErrStorage) {
			return outcome, err
		}
		log.Warn("could not store error document", zap.Error(err))
	}
	if _, err := s.errors.Record(ctx, outcome.Website, cause.Error()); err != nil {
		return outcome, err
	}
	s.recorder.ObserveLead(string(lead.StatusError))
	return outcome, nil
}
