package ssrs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default upper bound for one request.
	DefaultTimeout = 30 * time.Second

	// ProactiveRate is the token-bucket request rate. Report servers
	// are shared infrastructure; two requests per second is plenty for
	// feed polling.
	ProactiveRate = 2.0

	// MaxResponseBytes caps a feed response. SSRS ATOM renders of
	// business reports are small; anything larger is misconfiguration.
	MaxResponseBytes = 32 << 20
)

// Client wraps an HTTP client with throttling for report-server access.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client with the given per-request timeout.
// A zero timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// GetFeed retrieves the body of a feed URL.
func (c *Client) GetFeed(ctx context.Context, url string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/atom+xml, application/xml, text/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch feed: server returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read feed body: %w", err)
	}

	return string(body), nil
}

// Probe checks connectivity to a feed URL without reading the body.
func (c *Client) Probe(ctx context.Context, url string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("probe feed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("probe feed: server returned %s", resp.Status)
	}
	return nil
}
