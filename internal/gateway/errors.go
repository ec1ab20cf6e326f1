package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ltgt/portal-gateway/internal/metrics"
	"github.com/ltgt/portal-gateway/internal/schema"
	"github.com/ltgt/portal-gateway/internal/upstream"
)

// Stable error codes in the gateway envelope. Clients branch on these,
// never on message text.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeValidation      = "VALIDATION_ERROR"
	CodeBackendError    = "BACKEND_ERROR"
	CodeTimeout         = "TIMEOUT"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
)

// ErrorEnvelope is the uniform error body the gateway emits. Every
// failing path funnels into this shape.
type ErrorEnvelope struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Details []schema.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are not actionable once headers are sent
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw replays an upstream body byte for byte.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorEnvelope{Message: message, Error: code})
}

func writeValidationError(w http.ResponseWriter, fieldErrs []schema.FieldError) {
	writeJSON(w, http.StatusBadRequest, ErrorEnvelope{
		Message: "Validation failed",
		Error:   CodeValidation,
		Details: fieldErrs,
	})
}

// writeUpstreamError maps a failed backend call onto the envelope. A
// shaped backend error keeps its status, message and code; transport
// failures become TIMEOUT or INTERNAL_ERROR.
func writeUpstreamError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var apiErr *upstream.APIError
	switch {
	case errors.Is(err, upstream.ErrTimeout):
		metrics.RecordUpstreamError("timeout")
		writeError(w, http.StatusRequestTimeout, CodeTimeout, "Backend request timed out")
	case errors.As(err, &apiErr):
		metrics.RecordUpstreamError("error_status")
		writeError(w, apiErr.StatusCode, apiErr.Code, apiErr.Message)
	case errors.Is(err, upstream.ErrUnreachable):
		metrics.RecordUpstreamError("unreachable")
		logger.Error("backend unreachable", "error", err)
		writeError(w, http.StatusBadGateway, CodeInternalError, "Backend unavailable")
	default:
		metrics.RecordUpstreamError("unreachable")
		logger.Error("backend call failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternalError, "Internal server error")
	}
}
