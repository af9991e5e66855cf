package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeUnauthenticated indicates missing or rejected credentials.
	ErrCodeUnauthenticated ErrorCode = "unauthenticated"
	// ErrCodeBackendRejected indicates the remote backend answered with a non-2xx status.
	ErrCodeBackendRejected ErrorCode = "backend_rejected"
	// ErrCodeTransport indicates a network or decode failure talking to the backend.
	ErrCodeTransport ErrorCode = "transport_failure"
	// ErrCodeValidation indicates malformed client input caught before any network call.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
	// Status carries the backend status for ErrCodeBackendRejected
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Unauthenticated creates a new Unauthenticated error.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthenticated,
		Message: message,
	}
}

// BackendRejected records a non-2xx backend answer with its original status.
func BackendRejected(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeBackendRejected,
		Message: message,
		Status:  status,
	}
}

// Transport wraps a network or decode failure.
func Transport(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeTransport,
		Message: "upstream request failed",
		Cause:   cause,
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsUnauthenticated checks if an error is an Unauthenticated error.
func IsUnauthenticated(err error) bool {
	return isCode(err, ErrCodeUnauthenticated)
}

// IsBackendRejected checks if an error is a BackendRejected error.
func IsBackendRejected(err error) bool {
	return isCode(err, ErrCodeBackendRejected)
}

// IsTransport checks if an error is a TransportFailure error.
func IsTransport(err error) bool {
	return isCode(err, ErrCodeTransport)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// StatusFor maps an error onto the HTTP status the browser should see.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeBackendRejected:
		if appErr.Status != 0 {
			return appErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
