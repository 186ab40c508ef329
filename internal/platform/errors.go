package platform

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeAuth indicates a missing or rejected session
	ErrTypeAuth
	// ErrTypeHTTP indicates a non-success status returned by the API
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
	// ErrTypeValidation indicates invalid input supplied by the user
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError represents a failed platform API call
type APIError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Code       string    // API error code from the response body (if any)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether the request may succeed if repeated
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNetworkError classifies a transport error
func NewNetworkError(message string, err error) *APIError {
	var urlErr *url.Error
	if (errors.As(err, &urlErr) && urlErr.Timeout()) || os.IsTimeout(err) {
		return &APIError{Type: ErrTypeTimeout, Message: message, Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: false}
	}

	return &APIError{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: true}
}

// NewAuthError creates an authentication error
func NewAuthError(message string) *APIError {
	return &APIError{Type: ErrTypeAuth, Message: message, StatusCode: 401}
}

// NewHTTPError creates an HTTP-level error. Server errors are retryable.
func NewHTTPError(statusCode int, code, message string) *APIError {
	return &APIError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *APIError {
	return &APIError{Type: ErrTypeParse, Message: message, Err: err}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *APIError {
	return &APIError{Type: ErrTypeValidation, Message: message}
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrTypeAuth
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}

// ShortMessage returns a concise, user-facing description of err
func ShortMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Platform not responding (timeout)"
	case ErrTypeNetwork:
		return "Network error - check your connection"
	case ErrTypeAuth:
		return "Not signed in - press s to sign in"
	case ErrTypeHTTP:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("Platform error (HTTP %d)", apiErr.StatusCode)
	default:
		return apiErr.Message
	}
}
