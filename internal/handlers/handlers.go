package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/setterflo/contact-relay/internal/contact"
	"github.com/setterflo/contact-relay/internal/ratelimit"
)

// Dispatcher relays an accepted submission payload to the configured
// webhook endpoint.
type Dispatcher interface {
	Send(ctx context.Context, payload any) error
}

// Handlers orchestrates the submission pipeline: content-type check, JSON
// parse, rate limiting, schema validation, webhook dispatch.
type Handlers struct {
	validator  *contact.Validator
	limiter    *ratelimit.Limiter
	dispatcher Dispatcher
	logger     *slog.Logger
}

func New(
	validator *contact.Validator,
	limiter *ratelimit.Limiter,
	dispatcher Dispatcher,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		validator:  validator,
		limiter:    limiter,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/contact", h.HandleContact)
	mux.HandleFunc("/waitlist", h.HandleWaitlist)
	mux.HandleFunc("/healthz", h.HandleHealth)
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
