package mcp

import (
	"context"
	"io"

	"github.com/rpggio/leadagent/internal/domain/discovery"
	"github.com/rpggio/leadagent/internal/domain/errorlog"
	"github.com/rpggio/leadagent/internal/domain/lead"
	"github.com/rpggio/leadagent/internal/domain/research"
	"github.com/rpggio/leadagent/internal/domain/seed"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// SeedService defines seed registry operations needed by MCP.
type SeedService interface {
	Add(ctx context.Context, url string) (*seed.SeedURL, error)
	Remove(ctx context.Context, url string) error
	List(ctx context.Context, url string) ([]seed.SeedURL, error)
	BulkAdd(ctx context.Context, r io.Reader) (seed.BulkReport, error)
}

// LeadService defines lead store operations needed by MCP.
type LeadService interface {
	List(ctx context.Context, status lead.Status) ([]lead.Lead, error)
	Get(ctx context.Context, id int64) (*lead.Lead, error)
	Delete(ctx context.Context, id int64) error
}

// ErrorService defines error log operations needed by MCP.
type ErrorService interface {
	List(ctx context.Context) ([]errorlog.Record, error)
}

// DiscoveryService runs similarity discovery.
type DiscoveryService interface {
	RunPending(ctx context.Context) (discovery.Report, error)
	RunSeed(ctx context.Context, url string) (discovery.Report, error)
}

// ResearchService runs the research pipeline.
type ResearchService interface {
	Run(ctx context.Context) (research.Report, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Seeds     SeedService
	Leads     LeadService
	Errors    ErrorService
	Discovery DiscoveryService
	Research  ResearchService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *zap.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "leadagent",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Services, logger)

	return server
}
