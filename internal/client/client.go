// Package client talks to the recommendation backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/mtlprog/internfinder/internal/domain"
)

const (
	healthPath          = "/health"
	recommendationsPath = "/api/recommendations"

	// maxErrorBody caps how much of a failed response is kept for messages.
	maxErrorBody = 4 << 10
)

// Client calls the recommendation API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets a request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d, Transport: c.httpClient.Transport}
		}
	}
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Recommend posts the payload and decodes the response envelope.
// A non-2xx status yields *domain.APIError with the body text as detail.
func (c *Client) Recommend(ctx context.Context, payload domain.FormPayload) (*domain.RecommendationResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+recommendationsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	slog.Debug("recommendation response", "status_code", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return domain.ParseRecommendationResponse(data)
}

// HealthStatus is the result of a liveness probe.
type HealthStatus struct {
	StatusCode int
	Status     string
	DataLoaded int64
}

// OK reports whether the API answered with a 2xx status.
func (h *HealthStatus) OK() bool {
	return h.StatusCode >= 200 && h.StatusCode <= 299
}

// Health probes GET /health. Any response, whatever its status, is a result;
// only transport failures are errors.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	h := &HealthStatus{StatusCode: resp.StatusCode}
	if gjson.ValidBytes(data) {
		doc := gjson.ParseBytes(data)
		h.Status = doc.Get("status").String()
		h.DataLoaded = doc.Get("data_loaded").Int()
	}
	return h, nil
}

// CheckHealth probes the API and logs the outcome. Failures are swallowed.
func (c *Client) CheckHealth(ctx context.Context) {
	h, err := c.Health(ctx)
	if err != nil {
		slog.Error("API health check failed", "api_url", c.baseURL, "error", err)
		return
	}
	if h.OK() {
		slog.Info("API healthy", "api_url", c.baseURL, "status", h.Status, "data_loaded", h.DataLoaded)
		return
	}
	slog.Warn("API unhealthy", "api_url", c.baseURL, "status_code", h.StatusCode, "status", h.Status)
}
