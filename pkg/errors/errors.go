package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeUpstream   ErrorType = "upstream"
)

// APIError represents a structured API error
type APIError struct {
	Type        ErrorType `json:"type"`
	Code        string    `json:"code"`
	Message     string    `json:"message"`
	Details     string    `json:"details,omitempty"`
	HTTPStatus  int       `json:"-"`
	InternalErr error     `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Message, e.Details, e.Code)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Unwrap returns the underlying error
func (e *APIError) Unwrap() error {
	return e.InternalErr
}

// NewAPIError creates a new API error
func NewAPIError(errorType ErrorType, code, message string, httpStatus int) *APIError {
	return &APIError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// NewAPIErrorWithCause creates a new API error with an underlying cause
func NewAPIErrorWithCause(errorType ErrorType, code, message string, httpStatus int, cause error) *APIError {
	return &APIError{
		Type:        errorType,
		Code:        code,
		Message:     message,
		HTTPStatus:  httpStatus,
		InternalErr: cause,
	}
}

// ValidationError creates a validation error
func ValidationError(code, message string) *APIError {
	return NewAPIError(ErrorTypeValidation, code, message, http.StatusBadRequest)
}

// NotFoundError creates a not found error
func NotFoundError(resource string) *APIError {
	return NewAPIError(ErrorTypeNotFound, "RESOURCE_NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// InternalError creates an internal server error
func InternalError(message string) *APIError {
	return NewAPIError(ErrorTypeInternal, "INTERNAL_ERROR", message, http.StatusInternalServerError)
}

// DatabaseError creates a database error
func DatabaseError(operation string, cause error) *APIError {
	return NewAPIErrorWithCause(ErrorTypeDatabase, "DATABASE_ERROR",
		fmt.Sprintf("Database operation failed: %s", operation),
		http.StatusInternalServerError, cause)
}

// UpstreamError creates an error for a failed prerequisite gateway fetch.
// These are the only failures that abort a sync run.
func UpstreamError(operation string, cause error) *APIError {
	return NewAPIErrorWithCause(ErrorTypeUpstream, "UPSTREAM_FETCH_FAILED",
		fmt.Sprintf("Commerce gateway fetch failed: %s", operation),
		http.StatusInternalServerError, cause)
}

// GetAPIError extracts an APIError from an error chain
func GetAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
