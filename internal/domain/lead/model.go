package lead

import (
	"encoding/json"
	"time"
)

// Status tracks a lead through research.
type Status string

const (
	StatusNew        Status = "new"
	StatusResearched Status = "researched"
	StatusError      Status = "error"
)

// Valid reports whether s is a known lead status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusResearched, StatusError:
		return true
	default:
		return false
	}
}

// Lead is a candidate company discovered from a seed
type Lead struct {
	ID             int64           `json:"id"`
	CompanyName    string          `json:"company_name"`
	Website        string          `json:"website"`
	SourceURL      string          `json:"source_url"`
	Status         Status          `json:"status"`
	AdditionalInfo json.RawMessage `json:"additional_info,omitempty"`
	Score          float64         `json:"score"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Info decodes AdditionalInfo into a generic document.
func (l *Lead) Info() (map[string]any, error) {
	doc := map[string]any{}
	if len(l.AdditionalInfo) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(l.AdditionalInfo, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// StatusCount is the number of leads in one status.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}
