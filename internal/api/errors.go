package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the standard error body for the backend API.
type ErrorResponse struct {
	Message    string `json:"message"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are not actionable once headers are sent
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a standard error body. code is the HTTP reason
// phrase style tag clients branch on ("Unauthorized", "Not Found").
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{
		Message:    message,
		Error:      code,
		StatusCode: status,
	})
}

// WriteValidationError writes a 400 carrying every field failure in
// the message list shape.
func WriteValidationError(w http.ResponseWriter, messages []string) {
	WriteJSON(w, http.StatusBadRequest, struct {
		Message    []string `json:"message"`
		Error      string   `json:"error"`
		StatusCode int      `json:"statusCode"`
	}{
		Message:    messages,
		Error:      "Bad Request",
		StatusCode: http.StatusBadRequest,
	})
}
