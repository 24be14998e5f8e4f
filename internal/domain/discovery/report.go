package discovery

import "github.com/rpggio/leadagent/internal/domain/seed"

// Outcome is the result of discovery for one seed.
type Outcome struct {
	SeedURL string      `json:"seed_url"`
	Status  seed.Status `json:"status"`
	Leads   int         `json:"leads"`
	Error   string      `json:"error,omitempty"`
	Err     error       `json:"-"`
}

// OK reports whether discovery completed for the seed.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report aggregates one discovery batch.
type Report struct {
	RunID    string    `json:"run_id"`
	Outcomes []Outcome `json:"outcomes"`
}

// Succeeded counts completed seeds.
func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed counts failed seeds.
func (r Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Leads counts leads written across the batch.
func (r Report) Leads() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Leads
	}
	return n
}
