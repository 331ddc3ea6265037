package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/setterflo/contact-relay/internal/contact"
	"github.com/setterflo/contact-relay/internal/webhook"
)

// readJSONBody enforces the Content-Type check and JSON well-formedness.
// Both failures happen before the rate-limit check, so a request that
// cannot even be parsed does not consume quota; a parseable-but-wrong body
// still counts against the limit downstream.
func (h *Handlers) readJSONBody(w http.ResponseWriter, r *http.Request, timestamp string) ([]byte, bool) {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		WriteError(w, http.StatusBadRequest, "Content-Type must be application/json", "", timestamp)
		return nil, false
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(body) {
		WriteError(w, http.StatusBadRequest, "Invalid JSON in request body", "", timestamp)
		return nil, false
	}

	return body, true
}

// decodeSubmission unmarshals a syntactically valid JSON body into the form
// struct. A top-level type mismatch on a known field keeps the
// field-attribution contract.
func decodeSubmission(w http.ResponseWriter, body []byte, dst any, timestamp string) bool {
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			WriteError(w, http.StatusBadRequest, "Invalid value for "+typeErr.Field, typeErr.Field, timestamp)
			return false
		}
		WriteError(w, http.StatusBadRequest, "Request body must be a JSON object", "", timestamp)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, err error, timestamp string) {
	if fieldErr, ok := contact.IsFieldError(err); ok {
		WriteError(w, http.StatusBadRequest, fieldErr.Message, fieldErr.Field, timestamp)
		return
	}
	WriteError(w, http.StatusBadRequest, "Validation failed", "", timestamp)
}

// dispatch relays the payload and translates failures: a webhook.Error
// message is pre-sanitized and allowed through, anything else is logged
// server-side and collapsed to a generic message.
func (h *Handlers) dispatch(w http.ResponseWriter, r *http.Request, payload contact.WebhookPayload, timestamp string) bool {
	err := h.dispatcher.Send(r.Context(), payload)
	if err == nil {
		return true
	}

	if webhookErr, ok := webhook.IsError(err); ok {
		h.logger.Error("webhook dispatch failed",
			"type", payload.Type,
			"status", webhookErr.Status,
			"error", err,
		)
		WriteError(w, http.StatusInternalServerError, webhookErr.Message, "", timestamp)
		return false
	}

	h.logger.Error("webhook dispatch failed", "type", payload.Type, "error", err)
	WriteError(w, http.StatusInternalServerError, "Internal server error", "", timestamp)
	return false
}
