// Package errors provides structured error handling for the application
// Following enterprise patterns for error management and observability
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

// Common error codes following RESTful API conventions
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Business logic errors
	CodeInvalidRecipe               ErrorCode = "INVALID_RECIPE"
	CodeProfileNotFound             ErrorCode = "PROFILE_NOT_FOUND"
	CodeClassificationUnavailable   ErrorCode = "CLASSIFICATION_UNAVAILABLE"
	CodeGenerationRecoveryExhausted ErrorCode = "GENERATION_RECOVERY_EXHAUSTED"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeInvalidRecipe:
		return http.StatusBadRequest
	case CodeNotFound, CodeProfileNotFound:
		return http.StatusNotFound
	case CodeServiceUnavailable, CodeClassificationUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewInvalidRecipeError creates an error for a structurally invalid candidate
func NewInvalidRecipeError(details string) *AppError {
	return NewAppError(CodeInvalidRecipe, "Invalid recipe candidate", details)
}

// NewProfileNotFoundError creates an error for a missing preference profile
func NewProfileNotFoundError(userID string) *AppError {
	return NewAppError(CodeProfileNotFound, "Preference profile not found", "").
		WithMetadata("user_id", userID)
}

// NewClassificationUnavailableError signals degraded-mode scoring
func NewClassificationUnavailableError(cause error) *AppError {
	return NewAppError(CodeClassificationUnavailable, "Ingredient classification unavailable", "").
		WithCause(cause)
}

// NewGenerationRecoveryExhaustedError is raised internally between repair
// stages; the final synthesis stage always succeeds, so it never escapes
// the generator.
func NewGenerationRecoveryExhaustedError(details string) *AppError {
	return NewAppError(CodeGenerationRecoveryExhausted, "Generated recipe could not be recovered", details)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(CodeDatabaseError, fmt.Sprintf("Database operation failed: %s", operation), "").
		WithCause(cause)
}

// NewExternalServiceError creates an external service error
func NewExternalServiceError(service string, cause error) *AppError {
	return NewAppError(CodeExternalServiceError, fmt.Sprintf("External service error: %s", service), "").
		WithCause(cause)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:     appErr.Code,
			Message:  message,
			Details:  appErr.Error(),
			Metadata: appErr.Metadata,
			Cause:    err,
		}
	}
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// IsCode reports whether err carries the given application error code
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
