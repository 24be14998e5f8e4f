package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/leadagent/internal/clients"
	"github.com/rpggio/leadagent/internal/domain/lead"
	"github.com/rpggio/leadagent/internal/domain/seed"
	"github.com/rpggio/leadagent/internal/repository"
)

// APIError represents an MCP tool error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to INTERNAL.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, seed.ErrDuplicateSeed):
		return &APIError{Code: "SEED_EXISTS", Message: err.Error(), RecoveryHint: "The URL is already registered"}
	case errors.Is(err, seed.ErrSeedNotFound):
		return &APIError{Code: "SEED_NOT_FOUND", Message: err.Error(), RecoveryHint: "Add the seed with add_seed first"}
	case errors.Is(err, lead.ErrLeadNotFound):
		return &APIError{Code: "LEAD_NOT_FOUND", Message: err.Error(), RecoveryHint: "Check the ID with list_leads"}
	case errors.Is(err, seed.ErrInvalidInput),
		errors.Is(err, lead.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, clients.ErrNotConfigured):
		return &APIError{Code: "NOT_CONFIGURED", Message: err.Error(), RecoveryHint: "Run `leadagent setup` to store API keys"}
	case errors.Is(err, clients.ErrService):
		return &APIError{Code: "SERVICE_ERROR", Message: err.Error()}
	case errors.Is(err, repository.ErrStorage):
		return &APIError{Code: "STORAGE_ERROR", Message: err.Error()}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}
