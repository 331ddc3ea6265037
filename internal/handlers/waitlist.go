package handlers

import (
	"net/http"
	"time"

	"github.com/setterflo/contact-relay/internal/contact"
)

// HandleWaitlist serves POST /waitlist: the same pipeline as /contact with
// the narrower waitlist schema.
func (h *Handlers) HandleWaitlist(w http.ResponseWriter, r *http.Request) {
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

	var raw contact.WaitlistSubmission
	if !decodeSubmission(w, body, &raw, timestamp) {
		return
	}

	normalized, err := h.validator.ValidateWaitlist(raw)
	if err != nil {
		writeValidationError(w, err, timestamp)
		return
	}

	payload := contact.NewWaitlistPayload(normalized, timestamp, contact.Metadata{
		UserAgent: r.Header.Get("User-Agent"),
		IPAddress: clientIP(r),
	})

	if !h.dispatch(w, r, payload, timestamp) {
		return
	}

	writeSuccess(w, "Successfully joined waitlist", timestamp)
}
