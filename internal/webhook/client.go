package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/setterflo/contact-relay/internal/config"
)

// Client dispatches submission payloads to the configured webhook
// endpoint. Exactly one attempt per call; retrying is the caller's
// business.
type Client struct {
	url        string
	secret     string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg config.WebhookConfig) *Client {
	return &Client{
		url:        cfg.URL,
		secret:     cfg.Secret,
		timeout:    cfg.Timeout(),
		httpClient: &http.Client{},
	}
}

// Send POSTs the payload as JSON, bounded by the configured timeout.
// A timeout or a non-2xx status comes back as *Error; any other transport
// failure is returned as a plain wrapped error that must not reach the end
// caller verbatim.
func (c *Client) Send(ctx context.Context, payload any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshalling webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating webhook request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		httpReq.Header.Set("X-Webhook-Secret", c.secret)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &Error{Message: "Webhook request timed out"}
		}
		return fmt.Errorf("error making webhook request: %w", err)
	}
	defer resp.Body.Close()

	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Message: fmt.Sprintf("Webhook responded with %d", resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	return nil
}
