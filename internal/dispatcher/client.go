// Package dispatcher sends encoded order payloads to the Locus API.
//
// The new-order flow is a single synchronous POST (see Upload). The update
// flow fans one POST per order out to a fixed-size worker pool (see Pool).
// Neither flow retries: every outcome is reported exactly once.
package dispatcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ginjaninja78/locus-order-manager/internal/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is kept for reporting.
const maxBodyBytes = 1 << 20

// ErrMissingCredentials is returned when a client is built without a
// username or password.
var ErrMissingCredentials = errors.New("username and password are required")

// Credentials are the Basic-auth username and password. They live only in
// memory for the duration of a run.
type Credentials struct {
	Username string
	Password string
}

// Valid reports whether both fields are set.
func (c Credentials) Valid() bool {
	return c.Username != "" && c.Password != ""
}

// Response is the part of an HTTP response the flows report on.
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Client posts JSON documents with Basic authentication.
type Client struct {
	httpClient *http.Client
	creds      Credentials
	userAgent  string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRateLimit throttles request starts to rps requests per second.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = nil
		}
	}
}

// NewClient creates a Client from the HTTP settings and credentials.
func NewClient(settings config.HTTPSettings, creds Credentials, opts ...Option) (*Client, error) {
	if !creds.Valid() {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		httpClient: &http.Client{Timeout: settings.Timeout},
		creds:      creds,
		userAgent:  settings.UserAgent,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PostJSON sends body to url and returns the status and body of the reply.
// A non-2xx status is not an error; only transport failures are.
func (c *Client) PostJSON(ctx context.Context, url string, body []byte, requestID string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}

	duration := time.Since(start)
	c.logger.Debug("request completed",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("request_bytes", len(body)),
		zap.Int("response_bytes", len(respBody)),
		zap.Duration("duration", duration),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Duration:   duration,
	}, nil
}
