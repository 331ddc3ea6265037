package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/setterflo/contact-relay/internal/contact"
	"github.com/setterflo/contact-relay/internal/handlers"
	"github.com/setterflo/contact-relay/internal/ratelimit"
	"github.com/setterflo/contact-relay/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timestampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

type mockDispatcher struct {
	sendFn func(ctx context.Context, payload any) error
	calls  []any
}

func (m *mockDispatcher) Send(ctx context.Context, payload any) error {
	m.calls = append(m.calls, payload)
	if m.sendFn != nil {
		return m.sendFn(ctx, payload)
	}
	return nil
}

func newTestHandlers(d *mockDispatcher, maxRequests int) *handlers.Handlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := ratelimit.New(maxRequests, 15*time.Minute)
	return handlers.New(contact.NewValidator(), limiter, d, logger)
}

func validContactBody() map[string]any {
	return map[string]any{
		"name":              "John Doe",
		"email":             "John@Example.com",
		"message":           "Looking forward to trying the product.",
		"instagramUsername": "@John.Doe",
		"monthlyRevenue":    "5k-15k",
		"currentSetters":    "1",
		"biggestChallenge":  "inconsistent-leads",
		"timeline":          "immediately",
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	return got
}

func TestHandleContact_Success(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 5)

	rr := postJSON(t, h.HandleContact, "/contact", validContactBody(), map[string]string{
		"User-Agent":      "jest-test",
		"X-Forwarded-For": "203.0.113.5, 10.0.0.1",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	got := decodeBody(t, rr)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "Message sent successfully", got["message"])
	assert.Regexp(t, timestampRe, got["timestamp"])

	require.Len(t, d.calls, 1)

	payload, ok := d.calls[0].(contact.WebhookPayload)
	require.True(t, ok)
	assert.Equal(t, contact.TypeContact, payload.Type)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	var sent struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &sent))

	assert.Equal(t, "John Doe", sent.Data["name"])
	assert.Equal(t, "john@example.com", sent.Data["email"])
	assert.Equal(t, "john.doe", sent.Data["instagramUsername"])
	assert.Equal(t, "landing-page", sent.Data["source"])
	assert.Regexp(t, timestampRe, sent.Data["timestamp"])

	meta, ok := sent.Data["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "jest-test", meta["userAgent"])
	assert.Equal(t, "203.0.113.5", meta["ipAddress"])
}

func TestHandleContact_WrongContentType(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 5)

	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewBufferString("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.HandleContact(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	got := decodeBody(t, rr)
	assert.Equal(t, "Content-Type must be application/json", got["error"])
	assert.Empty(t, d.calls)
}

func TestHandleContact_MissingContentType(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 5)

	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewBufferString("{}"))
	rr := httptest.NewRecorder()
	h.HandleContact(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, d.calls)
}

func TestHandleContact_MalformedJSON(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 5)

	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewBufferString("invalid json {"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.HandleContact(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	got := decodeBody(t, rr)
	assert.Equal(t, "Invalid JSON in request body", got["error"])
	assert.Regexp(t, timestampRe, got["timestamp"])
	assert.Empty(t, d.calls)
}

func TestHandleContact_NonObjectBody(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 5)

	rr := postJSON(t, h.HandleContact, "/contact", "just a string", nil)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	got := decodeBody(t, rr)
	assert.Equal(t, "Request body must be a JSON object", got["error"])
	assert.Empty(t, d.calls)
}

func TestHandleContact_FirstInvalidFieldReported(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 5)

	body := validContactBody()
	body["name"] = "A"
	body["email"] = "bad"
	body["message"] = "Hi"

	rr := postJSON(t, h.HandleContact, "/contact", body, nil)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	got := decodeBody(t, rr)
	assert.Equal(t, "name", got["field"])
	assert.Equal(t, "Name must be at least 2 characters", got["error"])
	assert.Empty(t, d.calls)
}

func TestHandleContact_RateLimit(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 2)

	headers := map[string]string{"X-Forwarded-For": "203.0.113.5"}

	for i := 0; i < 2; i++ {
		rr := postJSON(t, h.HandleContact, "/contact", validContactBody(), headers)
		require.Equal(t, http.StatusOK, rr.Code, "request %d", i+1)
	}

	rr := postJSON(t, h.HandleContact, "/contact", validContactBody(), headers)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	got := decodeBody(t, rr)
	assert.Equal(t, "Too many requests. Please try again later.", got["error"])
	assert.Regexp(t, timestampRe, got["timestamp"])
	assert.Len(t, d.calls, 2)
}

func TestHandleContact_RateLimitIsPerClient(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 1)

	rr := postJSON(t, h.HandleContact, "/contact", validContactBody(), map[string]string{"X-Forwarded-For": "203.0.113.5"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, h.HandleContact, "/contact", validContactBody(), map[string]string{"X-Forwarded-For": "203.0.113.6"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandleContact_InvalidBodiesConsumeQuota(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 1)

	headers := map[string]string{"X-Forwarded-For": "203.0.113.5"}

	// Parseable-but-invalid body counts against the limit.
	rr := postJSON(t, h.HandleContact, "/contact", map[string]any{"name": "A"}, headers)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postJSON(t, h.HandleContact, "/contact", validContactBody(), headers)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestHandleContact_WebhookStatusErrorPassesThrough(t *testing.T) {
	d := &mockDispatcher{
		sendFn: func(ctx context.Context, payload any) error {
			return &webhook.Error{Message: "Webhook responded with 502", Status: http.StatusBadGateway}
		},
	}
	h := newTestHandlers(d, 5)

	rr := postJSON(t, h.HandleContact, "/contact", validContactBody(), nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	got := decodeBody(t, rr)
	assert.Equal(t, "Webhook responded with 502", got["error"])
}

func TestHandleContact_TransportErrorNeverLeaks(t *testing.T) {
	d := &mockDispatcher{
		sendFn: func(ctx context.Context, payload any) error {
			return fmt.Errorf("error making webhook request: Post %q: connection reset; secret=super-secret", "https://hooks.internal.example/submit")
		},
	}
	h := newTestHandlers(d, 5)

	rr := postJSON(t, h.HandleContact, "/contact", validContactBody(), nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	got := decodeBody(t, rr)
	assert.Equal(t, "Internal server error", got["error"])
	assert.NotContains(t, rr.Body.String(), "hooks.internal.example")
	assert.NotContains(t, rr.Body.String(), "super-secret")
	assert.NotContains(t, rr.Body.String(), "connection reset")
}

func TestHandleContact_MethodNotAllowed(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 5)

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	rr := httptest.NewRecorder()
	h.HandleContact(rr, req)

	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodPost, rr.Header().Get("Allow"))
	assert.Empty(t, d.calls)
}

func TestHandleWaitlist_Success(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 5)

	rr := postJSON(t, h.HandleWaitlist, "/waitlist", map[string]any{
		"name":              "Jane Doe",
		"email":             "Jane@Example.com",
		"instagramUsername": "@Jane.Doe",
	}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody(t, rr)
	assert.Equal(t, "Successfully joined waitlist", got["message"])

	require.Len(t, d.calls, 1)
	payload, ok := d.calls[0].(contact.WebhookPayload)
	require.True(t, ok)
	assert.Equal(t, contact.TypeWaitlist, payload.Type)
}

func TestHandleWaitlist_FieldAttribution(t *testing.T) {
	d := &mockDispatcher{}
	h := newTestHandlers(d, 5)

	rr := postJSON(t, h.HandleWaitlist, "/waitlist", map[string]any{
		"name":  "Jane Doe",
		"email": "jane@example.com",
	}, nil)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	got := decodeBody(t, rr)
	assert.Equal(t, "instagramUsername", got["field"])
	assert.Empty(t, d.calls)
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandlers(&mockDispatcher{}, 5)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.HandleHealth(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
