package seed

// Status tracks where a seed is in similarity discovery.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Valid reports whether s is a known seed status.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// SeedURL is a starting website used to discover similar companies
type SeedURL struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	Status Status `json:"status"`
}
