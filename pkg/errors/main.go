package errors

import (
	"errors"
	"fmt"
)

const (
	StatusNoContent           = 204
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusRequestTimeout      = 408
	StatusInternalServerError = 500
)

const (
	ErrorTypeDatabaseError      = "DATABASE_ERROR"
	ErrorTypeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrorTypeInvalidRequest     = "INVALID_REQUEST"
	ErrorTypeInvalidConfig      = "INVALID_CONFIGURATION"
	ErrorTypeUnknown            = "UNKNOWN_ERROR"
)

// AppError carries a user-facing Message; Err is for server-side logs only.
type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(errType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

func NewInvalidRequestError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInvalidRequest, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return NewAppError(ErrorTypeDatabaseError, message, err)
}

func NewStorageUnavailableError(message string, err error) *AppError {
	return NewAppError(ErrorTypeStorageUnavailable, message, err)
}

func NewInvalidConfigError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInvalidConfig, message, err)
}

func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return ErrorTypeUnknown
}

// IsStorageError reports whether err came from the persistence layer,
// whether the store was unreachable or a statement failed.
func IsStorageError(err error) bool {
	switch GetErrorType(err) {
	case ErrorTypeDatabaseError, ErrorTypeStorageUnavailable:
		return true
	default:
		return false
	}
}

// WithMessage re-labels a storage error with a new user-facing message,
// preserving its type and cause.
func WithMessage(err error, message string) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return NewAppError(appErr.Type, message, appErr.Err)
	}

	return NewDatabaseError(message, err)
}
