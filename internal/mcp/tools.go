package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpggio/leadagent/internal/domain/lead"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// AddSeedParams are the arguments of add_seed and remove_seed.
type AddSeedParams struct {
	URL string `json:"url"`
}

// ListSeedsParams are the arguments of list_seeds.
type ListSeedsParams struct {
	URL string `json:"url,omitempty"`
}

// BulkAddSeedsParams are the arguments of bulk_add_seeds.
type BulkAddSeedsParams struct {
	URLs []string `json:"urls"`
}

// RunDiscoveryParams are the arguments of run_discovery.
type RunDiscoveryParams struct {
	URL string `json:"url,omitempty"`
}

// ListLeadsParams are the arguments of list_leads.
type ListLeadsParams struct {
	Status string `json:"status,omitempty"`
}

// LeadIDParams are the arguments of get_lead and delete_lead.
type LeadIDParams struct {
	ID int64 `json:"id"`
}

// BulkAddResponse summarizes bulk_add_seeds.
type BulkAddResponse struct {
	Added   int          `json:"added"`
	Failed  int          `json:"failed"`
	Results []BulkResult `json:"results"`
}

// BulkResult is the outcome for one URL.
type BulkResult struct {
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// StatusResponse acknowledges a mutation.
type StatusResponse struct {
	OK bool `json:"ok"`
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func registerTools(server *sdkmcp.Server, svc Services, logger *zap.Logger) {
	addTool(server, logger, &sdkmcp.Tool{
		Name:        "add_seed",
		Description: "Register a seed URL for similarity discovery",
		InputSchema: objectSchema(map[string]any{"url": stringProp("Seed website URL")}, "url"),
	}, func(ctx context.Context, p AddSeedParams) (any, error) {
		return svc.Seeds.Add(ctx, p.URL)
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "remove_seed",
		Description: "Remove a seed URL; removing an unknown URL is a no-op",
		InputSchema: objectSchema(map[string]any{"url": stringProp("Seed website URL")}, "url"),
	}, func(ctx context.Context, p AddSeedParams) (any, error) {
		if err := svc.Seeds.Remove(ctx, p.URL); err != nil {
			return nil, err
		}
		return StatusResponse{OK: true}, nil
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "list_seeds",
		Description: "List seed URLs and their discovery status, or the one seed matching url",
		InputSchema: objectSchema(map[string]any{"url": stringProp("Optional seed URL filter")}),
	}, func(ctx context.Context, p ListSeedsParams) (any, error) {
		return svc.Seeds.List(ctx, p.URL)
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "bulk_add_seeds",
		Description: "Register many seed URLs; duplicates are reported per URL",
		InputSchema: objectSchema(map[string]any{
			"urls": map[string]any{
				"type":        "array",
				"description": "Seed website URLs",
				"items":       map[string]any{"type": "string"},
			},
		}, "urls"),
	}, func(ctx context.Context, p BulkAddSeedsParams) (any, error) {
		report, err := svc.Seeds.BulkAdd(ctx, strings.NewReader(strings.Join(p.URLs, "\n")))
		if err != nil {
			return nil, err
		}
		resp := BulkAddResponse{Added: report.Added(), Failed: report.Failed(), Results: []BulkResult{}}
		for _, l := range report.Lines {
			r := BulkResult{URL: l.URL}
			if l.Err != nil {
				r.Error = l.Err.Error()
			}
			resp.Results = append(resp.Results, r)
		}
		return resp, nil
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "run_discovery",
		Description: "Find companies similar to one seed (url) or to every not-started seed",
		InputSchema: objectSchema(map[string]any{"url": stringProp("Optional seed URL; omit to run all pending seeds")}),
	}, func(ctx context.Context, p RunDiscoveryParams) (any, error) {
		if strings.TrimSpace(p.URL) != "" {
			return svc.Discovery.RunSeed(ctx, strings.TrimSpace(p.URL))
		}
		return svc.Discovery.RunPending(ctx)
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "list_leads",
		Description: "List leads, optionally filtered by status",
		InputSchema: objectSchema(map[string]any{
			"status": map[string]any{
				"type":        "string",
				"description": "Lead status filter",
				"enum":        []string{string(lead.StatusNew), string(lead.StatusResearched), string(lead.StatusError)},
			},
		}),
	}, func(ctx context.Context, p ListLeadsParams) (any, error) {
		return svc.Leads.List(ctx, lead.Status(p.Status))
	})

	idSchema := objectSchema(map[string]any{
		"id": map[string]any{"type": "integer", "description": "Lead ID"},
	}, "id")

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "get_lead",
		Description: "Get one lead with its research document",
		InputSchema: idSchema,
	}, func(ctx context.Context, p LeadIDParams) (any, error) {
		return svc.Leads.Get(ctx, p.ID)
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "delete_lead",
		Description: "Delete a lead by ID",
		InputSchema: idSchema,
	}, func(ctx context.Context, p LeadIDParams) (any, error) {
		if err := svc.Leads.Delete(ctx, p.ID); err != nil {
			return nil, err
		}
		return StatusResponse{OK: true}, nil
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "list_errors",
		Description: "List recorded pipeline errors in the order they occurred",
		InputSchema: objectSchema(map[string]any{}),
	}, func(ctx context.Context, _ struct{}) (any, error) {
		return svc.Errors.List(ctx)
	})

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "run_research",
		Description: "Research every lead with status new: scrape, extract company facts, find contacts",
		InputSchema: objectSchema(map[string]any{}),
	}, func(ctx context.Context, _ struct{}) (any, error) {
		return svc.Research.Run(ctx)
	})
}

// addTool registers fn as a tool whose arguments decode into P. Domain
// errors are returned as tool errors carrying an APIError document.
func addTool[P any](server *sdkmcp.Server, logger *zap.Logger, tool *sdkmcp.Tool, fn func(context.Context, P) (any, error)) {
	server.AddTool(tool, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var params P
		if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
				return errorResult(&APIError{
					Code:    "INVALID_INPUT",
					Message: fmt.Sprintf("invalid arguments: %v", err),
				}), nil
			}
		}

		resp, err := fn(ctx, params)
		if err != nil {
			apiErr := MapError(err)
			logger.Warn("tool failed", zap.String("tool", tool.Name), zap.String("code", apiErr.Code), zap.Error(err))
			return errorResult(apiErr), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return errorResult(&APIError{Code: "INTERNAL", Message: fmt.Sprintf("marshal: %v", err)}), nil
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func errorResult(apiErr *APIError) *sdkmcp.CallToolResult {
	data, err := json.Marshal(apiErr)
	if err != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}
