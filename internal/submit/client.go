// Package submit posts completed appointment records to the remote
// intake endpoint and interprets its verdict.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"dentalcare/internal/conversation"
)

// ErrRejected is returned when the endpoint answers with anything other
// than a "success" result.
var ErrRejected = errors.New("submission rejected")

// verdict is the endpoint's response body. Only result=="success"
// counts as success.
type verdict struct {
	Result string `json:"result"`
}

// Client submits records to the configured endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outbound submissions.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// NewClient constructs a submission client for the endpoint URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts the record as multipart form data. Every field is
// present, empty when unset; now becomes the ISO-8601 timestamp field.
func (c *Client) Submit(ctx context.Context, rec conversation.Record, now time.Time) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := []struct{ name, value string }{
		{"timestamp", now.UTC().Format(time.RFC3339)},
		{"name", rec.Name},
		{"phone", rec.Phone},
		{"email", rec.Email},
		{"service", rec.Service},
		{"date", rec.Date},
		{"time", rec.Time},
		{"emergency_details", rec.EmergencyDetails},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit appointment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("submit appointment: http %d", resp.StatusCode)
	}

	var v verdict
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return fmt.Errorf("decode verdict: %w", err)
	}
	if v.Result != "success" {
		return fmt.Errorf("%w: result %q", ErrRejected, v.Result)
	}
	return nil
}
