package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeNotFound           = "NOT_FOUND"
	CodeStoreError         = "STORE_ERROR"
	CodeMalformedTimestamp = "MALFORMED_TIMESTAMP"
	CodeValidation         = "VALIDATION_ERROR"
)

// AppError represents an engine error with a machine-readable code, an HTTP
// status for the gateway, and an optional wrapped cause.
type AppError struct {
	Code    string // e.g. "NOT_FOUND", "STORE_ERROR"
	Message string // human-readable message
	Status  int    // HTTP status code
	Err     error  // wrapped underlying error (optional)
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a NOT_FOUND error for a lookup miss.
func NewNotFoundError(resource string, key any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, key),
		Status:  404,
	}
}

// NewStoreError creates a STORE_ERROR wrapping a failed store operation.
func NewStoreError(op string, err error) *AppError {
	return &AppError{
		Code:    CodeStoreError,
		Message: fmt.Sprintf("store operation failed: %s", op),
		Status:  500,
		Err:     err,
	}
}

// NewMalformedTimestampError creates a MALFORMED_TIMESTAMP error for a stored
// timestamp string that failed to parse.
func NewMalformedTimestampError(value string, err error) *AppError {
	return &AppError{
		Code:    CodeMalformedTimestamp,
		Message: fmt.Sprintf("malformed timestamp: %q", value),
		Status:  500,
		Err:     err,
	}
}

// NewValidationError creates a VALIDATION_ERROR.
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// IsCode reports whether err is (or wraps) an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
