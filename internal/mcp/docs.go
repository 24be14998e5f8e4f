package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `leadagent builds a sales lead list from seed websites.

Workflow:
1) Register seeds with add_seed or bulk_add_seeds.
2) run_discovery finds similar companies for every not-started seed (or one seed by url) and stores them as leads with status new.
3) run_research scrapes each new lead, extracts company facts and looks up contacts; leads end as researched (or error).
4) Inspect results with list_leads / get_lead and failures with list_errors.

Discovery needs EXA_API_KEY; research needs GROQ_API_KEY and APOLLO_API_KEY. Missing keys return NOT_CONFIGURED without changing any data.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "leadagent://docs/statuses",
		Name:        "docs_statuses",
		Title:       "Seed and lead statuses",
		Description: "Status values and the transitions the pipelines perform.",
		Content: `# Statuses

## Seed

- ` + "`not-started`" + `: registered, not yet discovered. run_discovery without url picks these.
- ` + "`processing`" + `: discovery is running for the seed.
- ` + "`completed`" + `: discovery stored every returned lead.
- ` + "`failed`" + `: the similarity call failed; see list_errors.

Running discovery for one url re-runs the seed whatever its status.

## Lead

- ` + "`new`" + `: discovered, not yet researched. Re-discovery resets a lead to new.
- ` + "`researched`" + `: additional_info holds the extracted facts, website and contacts. A failed extraction leaves an ` + "`error`" + ` key next to website and contacts.
- ` + "`error`" + `: research failed outright; additional_info is ` + "`{\"error\": ...}`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
