// Package app initializes and holds the long-lived services shared by the
// command line, the interactive shell and the MCP server.
package app

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rpggio/leadagent/internal/clients/apollo"
	"github.com/rpggio/leadagent/internal/clients/exa"
	"github.com/rpggio/leadagent/internal/clients/groq"
	"github.com/rpggio/leadagent/internal/config"
	"github.com/rpggio/leadagent/internal/domain/discovery"
	"github.com/rpggio/leadagent/internal/domain/errorlog"
	"github.com/rpggio/leadagent/internal/domain/lead"
	"github.com/rpggio/leadagent/internal/domain/research"
	"github.com/rpggio/leadagent/internal/domain/seed"
	"github.com/rpggio/leadagent/internal/logging"
	"github.com/rpggio/leadagent/internal/metrics"
	"github.com/rpggio/leadagent/internal/scrape"
	"github.com/rpggio/leadagent/internal/sqlite"
	"go.uber.org/zap"
)

// Options tune App construction.
type Options struct {
	// Console receives warnings and errors in addition to the log file.
	Console io.Writer
	// Logger overrides the logger built from configuration.
	Logger *zap.Logger
}

// App holds the shared services.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      *sqlite.DB
	Metrics *metrics.Pipeline

	Seeds     *seed.Service
	Leads     *lead.Service
	Errors    *errorlog.Service
	Discovery *discovery.Service
	Research  *research.Service

	credentials config.Credentials
	scraper     *scrape.Scraper
	closeLog    func() error
}

// New opens the database, applies migrations and builds every service.
// Missing credentials leave the dependent pipeline unconfigured rather than
// failing startup.
func New(cfg config.Config, opts Options) (*App, error) {
	logger, closeLog := opts.Logger, func() error { return nil }
	if logger == nil {
		var err error
		logger, closeLog, err = logging.New(logging.Options{
			Level:       cfg.Log.Level,
			Path:        cfg.Log.Path,
			Development: cfg.Log.Development,
			Console:     opts.Console,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		closeLog()
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		closeLog()
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		closeLog()
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Metrics:  metrics.NewPipeline(),
		closeLog: closeLog,
	}
	a.Seeds = seed.NewService(sqlite.NewSeedRepository(db), logger)
	a.Leads = lead.NewService(sqlite.NewLeadRepository(db), logger)
	a.Errors = errorlog.NewService(sqlite.NewErrorLogRepository(db), logger)
	a.scraper = scrape.New(scrape.Config{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.Scraper.Timeout(),
	}, a.Metrics.InstrumentTransport("scraper", nil))

	creds, err := config.LoadCredentials(cfg.EnvFile)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.ConfigureClients(creds)

	logger.Info("application initialized",
		zap.String("db_path", cfg.DB.Path),
		zap.Strings("missing_credentials", creds.Missing()),
	)
	return a, nil
}

// Credentials returns the credentials the pipelines were built with.
func (a *App) Credentials() config.Credentials {
	return a.credentials
}

// ConfigureClients rebuilds the external clients and pipelines from creds.
func (a *App) ConfigureClients(creds config.Credentials) {
	a.credentials = creds
	cfg := a.Config

	var finder discovery.SimilarityFinder
	if c, err := exa.New(cfg.Similarity.BaseURL, creds.Similarity, a.httpClient("exa")); err == nil {
		finder = c
	} else {
		a.Logger.Warn("similarity client disabled", zap.Error(err))
	}

	var completer research.Completer
	if c, err := groq.New(cfg.Completion.BaseURL, creds.Completion, cfg.Completion.Model, a.httpClient("groq")); err == nil {
		completer = c
	} else {
		a.Logger.Warn("completion client disabled", zap.Error(err))
	}

	var contacts research.ContactFinder
	if c, err := apollo.New(cfg.Contacts.BaseURL, creds.Contacts, a.httpClient("apollo")); err == nil {
		contacts = c
	} else {
		a.Logger.Warn("contact search client disabled", zap.Error(err))
	}

	a.Discovery = discovery.NewService(finder, a.Seeds, a.Leads, a.Errors, a.Metrics, a.Logger)
	a.Research = research.NewService(research.Deps{
		Scraper:   a.scraper,
		Completer: completer,
		Contacts:  contacts,
		Leads:     a.Leads,
		Errors:    a.Errors,
		Recorder:  a.Metrics,
	}, a.Logger)
}

func (a *App) httpClient(name string) *http.Client {
	return a.Metrics.InstrumentClient(name, &http.Client{Timeout: a.Config.HTTP.Timeout()})
}

// Close releases the database and flushes the log.
func (a *App) Close() error {
	var firstErr error
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			firstErr = err
		}
	}
	if a.closeLog != nil {
		if err := a.closeLog(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
