// Package httpclient provides the outbound HTTP client used for third-party
// APIs, with retries, rate limiting and tracing.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/rate"
)

// Client is an HTTP client with retry logic and rate limiting.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      logx.Logger
	config      Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the per-attempt timeout.
	// Default: 60 seconds
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 2
	MaxRetries int

	// RetryBackoff is the initial backoff, doubled on every retry.
	// Default: 1 second
	RetryBackoff time.Duration

	// MaxRetryBackoff caps the backoff.
	// Default: 15 seconds
	MaxRetryBackoff time.Duration

	UserAgent string

	// RateLimit is the maximum requests per second, 0 disables limiting.
	RateLimit      float64
	RateLimitBurst int

	// Transport overrides the base round tripper. It is wrapped for tracing.
	Transport http.RoundTripper
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         60 * time.Second,
		MaxRetries:      2,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 15 * time.Second,
		UserAgent:       "sleuth/1.0",
		RateLimitBurst:  1,
	}
}

// New creates a client. Zero config values take their defaults; a
// negative MaxRetries disables retries.
func New(config Config, logger logx.Logger) *Client {
	def := DefaultConfig()
	if config.Timeout == 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = def.MaxRetries
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = def.RetryBackoff
	}
	if config.MaxRetryBackoff == 0 {
		config.MaxRetryBackoff = def.MaxRetryBackoff
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}
	if config.RateLimitBurst == 0 {
		config.RateLimitBurst = def.RateLimitBurst
	}

	base := config.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.New(config.RateLimit, config.RateLimitBurst)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		rateLimiter: limiter,
		logger:      logger.With("component", "httpclient"),
		config:      config,
	}
}

// Get performs a GET request with retries. Network errors and 429/5xx
// gateway statuses are retried with exponential backoff.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, errors.Wrap(err, "rate limit wait failed")
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "build request: %v", err)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(ctx.Err(), "request cancelled")
			}
			c.logger.Warn("HTTP request failed",
				"host", req.URL.Host,
				"attempt", attempt+1,
				"error", err.Error(),
				"duration_ms", duration.Milliseconds(),
			)
			lastErr = errors.Wrap(errors.ErrServiceUnavailable, err.Error())
		} else {
			c.logger.Debug("HTTP response received",
				"host", req.URL.Host,
				"status", resp.StatusCode,
				"duration_ms", duration.Milliseconds(),
			)
			if !isRetryableStatus(resp.StatusCode) {
				return resp, nil
			}
			resp.Body.Close()
			lastErr = statusError(resp)
			c.logger.Warn("HTTP request returned retryable status",
				"host", req.URL.Host,
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
		}

		if attempt == c.config.MaxRetries {
			break
		}
		if err := c.backoff(ctx, attempt); err != nil {
			return nil, errors.Wrap(err, "backoff interrupted")
		}
	}

	return nil, errors.Wrapf(lastErr, "request failed after %d attempts", c.config.MaxRetries+1)
}

// GetJSON performs a GET request and returns the 2xx body verbatim. The
// body must be valid JSON.
func (c *Client) GetJSON(ctx context.Context, url string) (json.RawMessage, error) {
	resp, err := c.Get(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	body, err := ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, errors.Wrap(errors.ErrInvalidResponse, "body is not JSON")
	}
	return json.RawMessage(body), nil
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// backoff waits RetryBackoff * 2^attempt, capped at MaxRetryBackoff.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	d := c.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
	if d > c.config.MaxRetryBackoff {
		d = c.config.MaxRetryBackoff
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ReadBody reads and closes the response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return body, nil
}

// CheckStatus maps a non-2xx response to a sentinel error.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return statusError(resp)
}

func statusError(resp *http.Response) error {
	msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.Wrap(errors.ErrRateLimit, msg)
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrap(errors.ErrNotFound, msg)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return errors.Wrap(errors.ErrUnauthorized, msg)
	case resp.StatusCode == http.StatusBadRequest:
		return errors.Wrap(errors.ErrInvalidInput, msg)
	case resp.StatusCode >= 500:
		return errors.Wrap(errors.ErrServiceUnavailable, msg)
	default:
		return errors.Wrap(errors.ErrInvalidResponse, msg)
	}
}

// String returns a human-readable representation of the client configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, max_retries=%d, rate_limit=%.1f/s}",
		c.config.Timeout,
		c.config.MaxRetries,
		c.config.RateLimit,
	)
}
