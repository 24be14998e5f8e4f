// Package clients holds the shared error kinds and JSON transport used by the
// external API clients (similarity, completion, contact search).
package clients

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when a client is used without credentials.
	ErrNotConfigured = errors.New("client not configured")
	// ErrService is returned for any failed external call: network, status, or payload.
	ErrService = errors.New("external service error")
)

// Wrap preserves a typed error kind with operation context.
func Wrap(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}
