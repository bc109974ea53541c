// Package httpclient is the outbound client used for every downstream system
// of record. Each Client wraps one service with a per-attempt timeout, bounded
// retries on transient failures, and error translation into
// *ExternalServiceError.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"soukscan/pkg/requestcontext"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 2
)

// FailureRecorder counts calls that ended in an ExternalServiceError.
type FailureRecorder interface {
	IncUpstreamFailure(service string)
}

type leveledSlog struct {
	inner *slog.Logger
}

// Intermediate attempt failures are retried, so they are logged as WARN.
func (l leveledSlog) Error(msg string, keysAndValues ...any) { l.inner.Warn(msg, keysAndValues...) }
func (l leveledSlog) Warn(msg string, keysAndValues ...any)  { l.inner.Warn(msg, keysAndValues...) }
func (l leveledSlog) Info(msg string, keysAndValues ...any)  { l.inner.Debug(msg, keysAndValues...) }
func (l leveledSlog) Debug(msg string, keysAndValues ...any) { l.inner.Debug(msg, keysAndValues...) }

type Option func(*Client, *retryablehttp.Client)

// WithTimeout bounds each individual attempt.
func WithTimeout(d time.Duration) Option {
	return func(_ *Client, rc *retryablehttp.Client) {
		if d > 0 {
			rc.HTTPClient.Timeout = d
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(_ *Client, rc *retryablehttp.Client) {
		if n >= 0 {
			rc.RetryMax = n
		}
	}
}

// WithRetryWait sets the backoff bounds between attempts.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(_ *Client, rc *retryablehttp.Client) {
		rc.RetryWaitMin = minWait
		rc.RetryWaitMax = maxWait
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client, rc *retryablehttp.Client) {
		c.logger = logger
		rc.Logger = retryablehttp.LeveledLogger(leveledSlog{inner: logger.With("subsystem", "httpclient", "service", c.service)})
	}
}

func WithTransport(transport http.RoundTripper) Option {
	return func(_ *Client, rc *retryablehttp.Client) {
		rc.HTTPClient.Transport = transport
	}
}

func WithFailureRecorder(r FailureRecorder) Option {
	return func(c *Client, _ *retryablehttp.Client) {
		c.failures = r
	}
}

// Client calls one downstream service rooted at baseURL.
type Client struct {
	service  string
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	failures FailureRecorder
}

// New builds a client for service. Defaults: 10s per attempt, 2 retries on
// connection errors and 5xx other than 501; 429 is returned, not retried.
func New(service, baseURL string, opts ...Option) *Client {
	c := &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Transport = otelhttp.NewTransport(cleanhttp.DefaultPooledTransport())
	rc.HTTPClient.Timeout = DefaultTimeout
	rc.RetryMax = DefaultMaxRetries
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = retryablehttp.LeveledLogger(leveledSlog{inner: c.logger.With("subsystem", "httpclient", "service", service)})
	rc.CheckRetry = retryPolicy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	for _, opt := range opts {
		opt(c, rc)
	}

	c.http = rc.StandardClient()
	return c
}

// Service returns the downstream service name used in errors.
func (c *Client) Service() string {
	return c.service
}

func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Patch(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, query, body, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do performs one logical call. body is JSON encoded when non-nil; out, when
// non-nil, receives the decoded JSON response. A 2xx without a body while out
// is set fails with ErrEmptyResponse as the cause. The inbound Authorization
// header and request id are forwarded unchanged.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	err := c.do(ctx, method, path, query, body, out)
	if err != nil && c.failures != nil {
		c.failures.IncUpstreamFailure(c.service)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request body: %w", c.service, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := requestcontext.Authorization(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if reqID := requestcontext.RequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "downstream call failed",
			"service", c.service,
			"method", method,
			"path", path,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return &ExternalServiceError{Service: c.service, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &ExternalServiceError{Service: c.service, StatusCode: resp.StatusCode, Cause: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ExternalServiceError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("%s %s: %s", method, path, summarize(data, resp.Status)),
		}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &ExternalServiceError{Service: c.service, StatusCode: resp.StatusCode, Cause: ErrEmptyResponse}
	}
	if p, ok := out.(*RemotePayload); ok {
		p.Service = c.service
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ExternalServiceError{Service: c.service, StatusCode: resp.StatusCode, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func summarize(body []byte, status string) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return status
	}
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return msg
}
