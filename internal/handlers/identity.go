package handlers

import (
	"net/http"
	"strings"
)

const (
	anonymousClient = "anonymous"
	forwardedClient = "forwarded"
)

// ClientIdentifier derives the rate-limit key for a request: the first
// X-Forwarded-For hop, else X-Real-IP, else a shared anonymous bucket.
//
// The first forwarded-for value is attacker-controllable unless a trusted
// reverse proxy sanitizes the header before it reaches this service;
// deployments must verify their proxy topology before relying on it.
func ClientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
		return forwardedClient
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return anonymousClient
}

// clientIP is the best-effort address recorded as payload metadata. Unlike
// ClientIdentifier it returns "" when nothing is known, so the field is
// omitted from the payload.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	return r.Header.Get("X-Real-IP")
}
