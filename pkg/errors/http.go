package errors

import (
	"errors"
)

// HTTPStatusCode maps an error to the status a handler should answer with.
// Storage failures of every kind surface as 500.
func HTTPStatusCode(err error) int {
	if err == nil {
		return StatusInternalServerError
	}

	switch GetErrorType(err) {
	case ErrorTypeInvalidRequest:
		return StatusBadRequest
	case ErrorTypeDatabaseError, ErrorTypeStorageUnavailable:
		return StatusInternalServerError
	default:
		return StatusInternalServerError
	}
}

func GetHumanReadableMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	// SECURITY: avoid leaking internal error strings (DB errors, stack messages, etc.)
	return "An unexpected error occurred"
}
