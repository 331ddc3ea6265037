package handlers

import (
	"net/http"
	"time"

	"github.com/setterflo/contact-relay/internal/contact"
)

// HandleContact serves POST /contact. The stages run in a fixed order and
// the pipeline stops at the first failure; the rate-limit check sits after
// the JSON parse so garbage-but-parseable bodies still consume quota.
func (h *Handlers) HandleContact(w http.ResponseWriter, r *http.Request) {
	timestamp := Timestamp(time.Now())

	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, timestamp)
		return
	}

	body, ok := h.readJSONBody(w, r, timestamp)
	if !ok {
		return
	}

	if !h.limiter.Allow(ClientIdentifier(r), time.Now()) {
		WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.", "", timestamp)
		return
	}

	var raw contact.Submission
	if !decodeSubmission(w, body, &raw, timestamp) {
		return
	}

	normalized, err := h.validator.ValidateContact(raw)
	if err != nil {
		writeValidationError(w, err, timestamp)
		return
	}

	payload := contact.NewContactPayload(normalized, timestamp, contact.Metadata{
		UserAgent: r.Header.Get("User-Agent"),
		IPAddress: clientIP(r),
	})

	if !h.dispatch(w, r, payload, timestamp) {
		return
	}

	writeSuccess(w, "Message sent successfully", timestamp)
}
