package models

import (
	"encoding/json"
	"net/http"
)

// Messages returned to clients.
const (
	MessageOutsideMalaysia = "Coordinates are outside of Malaysia. Please select locations within Malaysia."
	MessageRouteFailed     = "failed to compute route"
	MessageInternal        = "an unexpected error occurred"
	MessageRateLimited     = "Rate limit exceeded. Please try again later."
)

// ErrorResponse is the body of every non-2xx response: {"error": "<message>"}.
type ErrorResponse struct {
	Error string `json:"error"`
	// RequestID correlates the response with server logs.
	RequestID string `json:"requestId,omitempty"`
}

// NewError creates an error body.
func NewError(requestID, message string) *ErrorResponse {
	return &ErrorResponse{Error: message, RequestID: requestID}
}

// Write writes the error body as JSON with the given status.
func (e *ErrorResponse) Write(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	if e.RequestID != "" {
		w.Header().Set("X-Request-Id", e.RequestID)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}
