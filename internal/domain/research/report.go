package research

import "github.com/rpggio/leadagent/internal/domain/lead"

// Outcome is the research result for one lead.
type Outcome struct {
	LeadID      int64          `json:"lead_id"`
	CompanyName string         `json:"company_name"`
	Website     string         `json:"website"`
	Status      lead.Status    `json:"status"`
	Contacts    int            `json:"contacts"`
	Warnings    []string       `json:"warnings,omitempty"`
	Document    map[string]any `json:"document,omitempty"`
	Error       string         `json:"error,omitempty"`
	Err         error          `json:"-"`
}

// OK reports whether the lead ended in status researched.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Status == lead.StatusResearched
}

// Report aggregates one research batch.
type Report struct {
	RunID    string    `json:"run_id"`
	Outcomes []Outcome `json:"outcomes"`
}

// Succeeded counts leads that ended researched.
func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed counts leads that ended in error.
func (r Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}
