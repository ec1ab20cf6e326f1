// Package upstream provides the HTTP client for the backend portal API.
package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is a structured error response from the backend API. The
// gateway propagates Code and Message to clients with the backend's
// status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("upstream: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is lets callers branch on common backend statuses with errors.Is
// without unwrapping the APIError themselves.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == 401
	case ErrForbidden:
		return e.StatusCode == 403
	case ErrNotFound:
		return e.StatusCode == 404
	}
	return false
}

// Sentinel errors for transport failures and common backend statuses.
var (
	ErrTimeout      = errors.New("upstream: request timed out")
	ErrUnreachable  = errors.New("upstream: backend unreachable")
	ErrUnauthorized = errors.New("upstream: unauthorized")
	ErrForbidden    = errors.New("upstream: forbidden")
	ErrNotFound     = errors.New("upstream: not found")
)

// backendError is the error body shape the backend emits. message may
// be a string or an array of strings.
type backendError struct {
	Message json.RawMessage `json:"message"`
	Code    string          `json:"error"`
}

// parseError builds an APIError from a non-2xx response body. A body
// that is not the expected shape still yields a usable error.
func parseError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Code:       "BACKEND_ERROR",
		Message:    "Error communicating with backend",
	}

	var be backendError
	if err := json.Unmarshal(body, &be); err != nil {
		return apiErr
	}
	if be.Code != "" {
		apiErr.Code = be.Code
	}
	if msg := flattenMessage(be.Message); msg != "" {
		apiErr.Message = msg
	}
	return apiErr
}

func flattenMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}
