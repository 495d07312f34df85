package robot

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common error conditions.
var (
	// ErrInvalidResponse is returned when a response body cannot be decoded
	// or fails schema validation.
	ErrInvalidResponse = errors.New("robot: invalid response")

	// ErrNoBaseURL is returned when a client has no server to talk to.
	ErrNoBaseURL = errors.New("robot: base URL required")
)

// APIError represents a non-2xx response from the robot server.
type APIError struct {
	// Op is the Request name.
	Op string

	// Method and Path identify the call.
	Method string
	Path   string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the (trimmed) response body, if any.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("robot [%s]: %s %s: %s", e.Op, e.Method, e.Path, e.StatusText())
}

// StatusText returns the reason phrase for the status code. The controller
// page alerts with it.
func (e *APIError) StatusText() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// IsBadRequest returns true if the server rejected the parameters (HTTP 400).
func (e *APIError) IsBadRequest() bool {
	return e.StatusCode == http.StatusBadRequest
}

// IsNotFound returns true for unknown paths or missing hardware (HTTP 404).
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
