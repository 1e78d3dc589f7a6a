package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 8 * time.Second
	maxBodyBytes   = 64 << 10

	prompt = "Suggest one healthy, concrete, screen-free micro-break. Reply with the action only."
)

// Fallbacks are shown whenever the service cannot provide a suggestion.
var Fallbacks = []string{
	"Take 10 deep breaths (4-4-6).",
	"Walk for 2 minutes and drink some water.",
	"Stretch your neck and shoulders for 60 seconds.",
	"Look at a distant point for 30 seconds.",
	"Tidy one thing on your desk.",
}

// Fallback returns a random entry of Fallbacks.
func Fallback() string {
	return Fallbacks[rand.IntN(len(Fallbacks))]
}

type request struct {
	Prompt string `json:"prompt"`
}

type response struct {
	Text string `json:"text"`
}

// Client asks a remote service for a break activity.
type Client struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// NewClient creates a client for endpoint. An empty endpoint disables remote
// calls and every Suggest returns a fallback.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

// Suggest never fails: any error yields a fallback string. Errors other than
// cancellation are logged.
func (c *Client) Suggest(ctx context.Context) string {
	if c == nil || c.endpoint == "" {
		return Fallback()
	}
	text, err := c.fetch(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Warn("break suggestion", "endpoint", c.endpoint, "err", err)
		}
		return Fallback()
	}
	return text
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("http status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return "", fmt.Errorf("unexpected content type %q", ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var out response
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", errors.New("empty suggestion")
	}
	return text, nil
}
