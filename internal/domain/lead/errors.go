package lead

import "errors"

var (
	// ErrLeadNotFound indicates the lead doesn't exist.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrInvalidInput indicates invalid lead input.
	ErrInvalidInput = errors.New("invalid lead input")
)
