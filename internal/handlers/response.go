package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

type SuccessResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Timestamp renders t as ISO-8601 UTC with millisecond precision, the
// format every response carries.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes the failure envelope. field may be empty; timestamp is
// the one computed at the start of the request so that every response of a
// request carries the same value.
func WriteError(w http.ResponseWriter, status int, message, field, timestamp string) {
	writeJSON(w, status, ErrorResponse{
		Success:   false,
		Error:     message,
		Field:     field,
		Timestamp: timestamp,
	})
}

func writeSuccess(w http.ResponseWriter, message, timestamp string) {
	writeJSON(w, http.StatusOK, SuccessResponse{
		Success:   true,
		Message:   message,
		Timestamp: timestamp,
	})
}

func writeMethodNotAllowed(w http.ResponseWriter, timestamp string) {
	w.Header().Set("Allow", http.MethodPost)
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "", timestamp)
}
