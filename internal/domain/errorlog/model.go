package errorlog

import "time"

// Record is one logged pipeline failure
type Record struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	ErrorMessage string    `json:"error_message"`
	Timestamp    time.Time `json:"timestamp"`
}
