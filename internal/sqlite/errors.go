package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/leadagent/internal/repository"
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// storageErr marks err as a storage failure for op.
func storageErr(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, repository.ErrStorage, err)
}
