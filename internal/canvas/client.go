package canvas

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const apiPrefix = "/api/v1"

// Transport performs an authenticated GET and returns the status code and
// raw body. Non-2xx statuses are not errors at this level.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values, token string) (int, []byte, error)
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests; zero disables it.
	RequestsPerSecond float64

	Logger *slog.Logger
}

// Client is the HTTP Transport for a Canvas instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ Transport = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		logger:     cfg.Logger,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, token string) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("canvas request",
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return resp.StatusCode, body, nil
}

// HealthCheck verifies that token is accepted by the instance.
func (c *Client) HealthCheck(ctx context.Context, token string) error {
	status, body, err := c.Get(ctx, apiPrefix+"/users/self", nil, token)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &StatusError{StatusCode: status, Path: apiPrefix + "/users/self", Body: string(body)}
	}
	return nil
}

// StatusError reports a non-success response from the upstream API.
type StatusError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("API error (status %d) on %s: %s", e.StatusCode, e.Path, body)
}

func (e *StatusError) HTTPStatus() int { return e.StatusCode }
