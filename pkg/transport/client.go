package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 10 << 20

// RetryConfig configures retry behavior for idempotent requests
type RetryConfig struct {
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	BackoffMultiple float64
}

// DefaultRetryConfig provides default retry settings
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     3,
	InitialBackoff:  100 * time.Millisecond,
	MaxBackoff:      2 * time.Second,
	BackoffMultiple: 2.0,
}

// ClientConfig holds the configuration for the HTTP transport
type ClientConfig struct {
	// Timeout bounds a single HTTP attempt
	Timeout time.Duration
	// RequestsPerSecond throttles outgoing requests; zero disables throttling
	RequestsPerSecond float64
	// Burst is the limiter bucket size, at least 1 when throttling is enabled
	Burst int
	// Retry applies to GET requests only; POSTs are sent exactly once
	Retry RetryConfig
	// HttpClient overrides the default client, mainly for tests
	HttpClient *http.Client
}

// DefaultClientConfig returns the transport settings used by the CLI
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:           30 * time.Second,
		RequestsPerSecond: 10,
		Burst:             5,
		Retry:             DefaultRetryConfig,
	}
}

// Client is the net/http backed ITransport
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	retryConfig RetryConfig
	logger      *zap.Logger
}

// NewClient creates a new transport client
func NewClient(cfg *ClientConfig, logger *zap.Logger) *Client {
	if cfg == nil {
		cfg = DefaultClientConfig()
	}

	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	retry := cfg.Retry
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}

	return &Client{
		httpClient:  httpClient,
		limiter:     limiter,
		retryConfig: retry,
		logger:      logger,
	}
}

// Post sends body to url once. Broadcasts are never retried here; a
// duplicate submission is the caller's decision.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, body, headers)
}

// Get fetches url, retrying with backoff on network errors and 5xx responses
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	var (
		resp *Response
		err  error
	)

	backoff := c.retryConfig.InitialBackoff
	for attempt := 0; attempt < c.retryConfig.MaxAttempts; attempt++ {
		resp, err = c.do(ctx, http.MethodGet, url, nil, nil)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}
		if ctx.Err() != nil {
			break
		}

		if attempt < c.retryConfig.MaxAttempts-1 {
			c.logger.Sugar().Debugw("Retrying GET request",
				"url", url,
				"attempt", attempt+1,
				"backoff", backoff,
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, &TransportError{Method: http.MethodGet, URL: url, Err: ctx.Err()}
			}
			backoff = time.Duration(float64(backoff) * c.retryConfig.BackoffMultiple)
			if backoff > c.retryConfig.MaxBackoff {
				backoff = c.retryConfig.MaxBackoff
			}
		}
	}

	return resp, err
}

func (c *Client) do(ctx context.Context, method string, url string, body []byte, headers map[string]string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Sugar().Warnw("HTTP request failed",
			"method", method,
			"url", url,
			"error", err,
		)
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Sugar().Debugw("HTTP request completed",
		"method", method,
		"url", url,
		"status_code", httpResp.StatusCode,
		"duration", time.Since(start),
	)

	return &Response{
		StatusOk:   httpResp.StatusCode >= 200 && httpResp.StatusCode < 300,
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
	}, nil
}
