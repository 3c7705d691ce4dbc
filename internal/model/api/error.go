package api

import (
	"fmt"
	"time"
)

// Error codes shared by the wire envelope and the client taxonomy.
const (
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
	CodeUnknownCommand   = "UNKNOWN_COMMAND"
	CodeTransport        = "TRANSPORT_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
	CodeAuthExpired      = "AUTH_EXPIRED"
	CodeValidation       = "VALIDATION_ERROR"
	CodeRequestFailed    = "REQUEST_FAILED"
	CodeHTTPError        = "HTTP_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInternal         = "INTERNAL_ERROR"
)

// APIError is the wire-visible failure shape. Immutable once constructed.
type APIError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Path      string         `json:"path,omitempty"`
	Method    string         `json:"method,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError constructs an APIError stamped with the current time.
func NewError(code, message string) *APIError {
	return &APIError{Code: code, Message: message, Timestamp: time.Now().UTC()}
}

// NewErrorWithDetails attaches field-level detail, e.g. for validation failures.
func NewErrorWithDetails(code, message string, details map[string]any) *APIError {
	err := NewError(code, message)
	err.Details = details
	return err
}

// At returns a copy annotated with the request path and method. The receiver
// is not mutated.
func (e *APIError) At(method, path string) *APIError {
	clone := *e
	clone.Method = method
	clone.Path = path
	return &clone
}
