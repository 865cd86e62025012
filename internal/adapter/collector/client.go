package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 5 * time.Second

// ErrDeliveryFailed is returned when the collector did not accept an event.
// It never leaves this package's worker.
var ErrDeliveryFailed = errors.New("log delivery failed")

// Client posts events to the collector endpoint.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewClient creates a Client for url authenticating with the bearer token.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(url, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		url:        url,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send delivers a single event.
func (c *Client) Send(ctx context.Context, e Event) error {
	const op = "adapter.collector.Client.Send"

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: failed to encode event: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %w: unexpected status %d", op, ErrDeliveryFailed, resp.StatusCode)
	}

	return nil
}
