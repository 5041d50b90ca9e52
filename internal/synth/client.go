// Package synth calls the remote generative speech API. The API consumes
// script text plus a voice identifier and returns base64-encoded raw PCM
// (24000 Hz, mono, 16-bit signed little-endian).
package synth

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

// ErrSynthesis is returned when the remote call fails, times out, or
// returns no audio.
var ErrSynthesis = errors.New("synthesis failed")

// DefaultTimeout bounds a single remote synthesis call.
const DefaultTimeout = 60 * time.Second

// Client talks to the remote speech API.
type Client struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
	timeout  *time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call timeout regardless of option order.
// Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = &d }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// NewClient builds a client for the given endpoint. The API key, if
// non-empty, is sent as a bearer token.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	// An explicit timeout wins over whatever client the options installed.
	// Copy before mutating so a caller-owned client is left untouched.
	if c.timeout != nil && c.httpc.Timeout != *c.timeout {
		hc := *c.httpc
		hc.Timeout = *c.timeout
		c.httpc = &hc
	}

	return c
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type synthesizeResponse struct {
	Audio string `json:"audio"`
	Error string `json:"error,omitempty"`
}

// Synthesize sends text to the remote API and returns the base64 PCM
// payload. Transport failures, non-2xx statuses, and empty audio all map
// to ErrSynthesis.
func (c *Client) Synthesize(ctx context.Context, scriptText, voiceID string) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("%w: no API endpoint configured", ErrSynthesis)
	}

	body, err := json.Marshal(synthesizeRequest{Text: scriptText, Voice: voiceID})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrSynthesis, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrSynthesis, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: %s", ErrSynthesis, resp.Status, firstLine(raw))
	}

	var sr synthesizeResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrSynthesis, err)
	}
	if sr.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrSynthesis, sr.Error)
	}
	if sr.Audio == "" {
		return "", fmt.Errorf("%w: response contained no audio", ErrSynthesis)
	}

	return sr.Audio, nil
}

func firstLine(raw []byte) string {
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		raw = raw[:i]
	}
	const max = 200
	if len(raw) > max {
		raw = raw[:max]
	}
	return string(raw)
}
