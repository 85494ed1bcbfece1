package services

import (
	"errors"
	"fmt"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
)

// wrapRepoError converts a repository miss into a NotFound carrying msg and
// wraps anything else with op.
func wrapRepoError(op, msg string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound(msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}
