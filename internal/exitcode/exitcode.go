// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"taskdesk/internal/service"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, duplicate title, not found).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError maps an operation error to an exit code.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, service.ErrDuplicateTitle), errors.Is(err, service.ErrNotFound):
		return UserError
	default:
		return BackendError
	}
}
