// Package base provides the HTTP plumbing shared by upstream API clients.
package base

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/olgasafonova/wordpress-mcp-server/internal/infra"
	"github.com/olgasafonova/wordpress-mcp-server/metrics"
	"github.com/olgasafonova/wordpress-mcp-server/tracing"
)

const (
	// DefaultTimeout for API requests
	DefaultTimeout = 30 * time.Second

	// MaxConcurrentRequests limits parallel API calls
	MaxConcurrentRequests = 5

	// DefaultUserAgent identifies this client to upstream servers
	DefaultUserAgent = "wordpress-mcp-server/1.0"

	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-ID"
)

// Response is an upstream HTTP response with its body already read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client performs GET requests with a circuit breaker, a concurrency limit,
// optional retries and an optional response cache.
type Client struct {
	HTTPClient     *http.Client
	Logger         *slog.Logger
	CircuitBreaker *infra.CircuitBreaker
	Semaphore      chan struct{}
	UserAgent      string
	MaxRetry       int

	// Cache and Dedup are nil unless WithCache is given.
	Cache    *infra.Cache[*Response]
	Dedup    *infra.RequestDeduplicator[*Response]
	CacheTTL time.Duration
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.HTTPClient = c
	}
}

// WithTimeout replaces the default HTTP client with one using timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(client *Client) {
		client.HTTPClient = newHTTPClient(timeout)
	}
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return func(client *Client) {
		client.Logger = l
	}
}

// WithUserAgent sets the User-Agent header sent upstream
func WithUserAgent(ua string) ClientOption {
	return func(client *Client) {
		if ua != "" {
			client.UserAgent = ua
		}
	}
}

// WithMaxRetries sets the number of attempts per request. 1 disables retries.
func WithMaxRetries(n int) ClientOption {
	return func(client *Client) {
		if n > 0 {
			client.MaxRetry = n
		}
	}
}

// WithMaxConcurrent sets how many upstream requests may run at once.
func WithMaxConcurrent(n int) ClientOption {
	return func(client *Client) {
		if n > 0 {
			client.Semaphore = make(chan struct{}, n)
		}
	}
}

// WithCircuitBreaker sets a custom circuit breaker
func WithCircuitBreaker(cb *infra.CircuitBreaker) ClientOption {
	return func(client *Client) {
		client.CircuitBreaker = cb
	}
}

// WithCache enables caching of successful responses for ttl and coalescing
// of identical in-flight requests. A non-positive ttl leaves caching off.
func WithCache(ttl time.Duration, maxEntries int) ClientOption {
	return func(client *Client) {
		if ttl <= 0 {
			return
		}
		client.Cache = infra.NewCache[*Response](maxEntries)
		client.Dedup = infra.NewRequestDeduplicator[*Response]()
		client.CacheTTL = ttl
	}
}

// NewClient creates a new base client with default settings
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		HTTPClient:     newHTTPClient(DefaultTimeout),
		Logger:         slog.Default(),
		CircuitBreaker: infra.NewCircuitBreaker(),
		Semaphore:      make(chan struct{}, MaxConcurrentRequests),
		UserAgent:      DefaultUserAgent,
		MaxRetry:       1,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Close releases resources held by the client
func (c *Client) Close() {
	if c.Cache != nil {
		c.Cache.Close()
	}
}

// CircuitBreakerStats returns the current circuit breaker state
func (c *Client) CircuitBreakerStats() infra.CircuitBreakerStats {
	return c.CircuitBreaker.Stats()
}

// AcquireSlot blocks until a request slot is available or context is canceled
func (c *Client) AcquireSlot(ctx context.Context) error {
	select {
	case c.Semaphore <- struct{}{}:
		return nil
	default:
	}

	metrics.RateLimitWaits.Inc()
	select {
	case c.Semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context canceled while waiting for rate limiter: %w", ctx.Err())
	}
}

// ReleaseSlot releases a request slot
func (c *Client) ReleaseSlot() {
	<-c.Semaphore
}

// CheckCircuitBreaker returns nil if requests are allowed, or an error if the circuit is open
func (c *Client) CheckCircuitBreaker() error {
	if !c.CircuitBreaker.Allow() {
		metrics.CircuitOpenRejections.Inc()
		stats := c.CircuitBreaker.Stats()
		return &infra.ErrCircuitOpen{
			State:    stats.State,
			RetryAt:  c.CircuitBreaker.RetryAt(),
			Failures: stats.ConsecutiveFails,
		}
	}
	return nil
}

// Get fetches rawURL. endpoint is a low-cardinality label such as "/posts"
// used for metrics and spans. Any HTTP response, whatever its status, is
// returned as a Response; only transport failures produce an error.
//
// With the cache enabled, identical concurrent requests share one upstream
// fetch. That fetch is detached from any single caller's cancellation and
// is bounded by the HTTP client timeout; each caller still stops waiting
// when its own ctx ends.
func (c *Client) Get(ctx context.Context, endpoint, rawURL string) (*Response, error) {
	if c.Cache == nil {
		return c.get(ctx, endpoint, rawURL)
	}

	if cached, ok := c.Cache.Get(rawURL); ok {
		metrics.RecordCacheAccess(true)
		return cached, nil
	}
	metrics.RecordCacheAccess(false)

	fetchCtx := context.WithoutCancel(ctx)
	resp, _, err := c.Dedup.Do(ctx, rawURL, func() (*Response, error) {
		resp, err := c.get(fetchCtx, endpoint, rawURL)
		if err == nil && resp.OK() {
			c.Cache.Set(rawURL, resp, c.CacheTTL)
			metrics.SetCacheSize(c.Cache.Size())
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// get runs one request through the breaker, the semaphore and the retry
// loop. Every path after the breaker admits the request either records an
// outcome or, when the caller gave up, hands the admission back with
// Cancel so an abandoned half-open request cannot wedge the breaker.
func (c *Client) get(ctx context.Context, endpoint, rawURL string) (*Response, error) {
	if err := c.CheckCircuitBreaker(); err != nil {
		return nil, err
	}

	if err := c.AcquireSlot(ctx); err != nil {
		c.CircuitBreaker.Cancel()
		return nil, err
	}
	defer c.ReleaseSlot()

	ctx, span := tracing.StartSpan(ctx, "wordpress.get "+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	tracing.AddUpstreamAttributes(span, endpoint, "")
	span.SetAttributes(attribute.String("url.full", rawURL))

	maxRetry := c.MaxRetry
	if maxRetry <= 0 {
		maxRetry = 1
	}

	abandon := func(err error) (*Response, error) {
		c.CircuitBreaker.Cancel()
		tracing.RecordError(span, err)
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxRetry; attempt++ {
		if attempt > 0 {
			metrics.UpstreamRetries.WithLabelValues(endpoint).Inc()
			backoff := time.Duration(attempt*attempt) * 100 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return abandon(fmt.Errorf("context canceled during backoff: %w", ctx.Err()))
			}
		}

		resp, err := c.do(ctx, endpoint, rawURL)
		if err != nil {
			if ctx.Err() != nil {
				// the caller gave up; WordPress did not fail
				return abandon(err)
			}
			lastErr = err
			continue
		}

		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if retryable && attempt < maxRetry-1 {
			if wait := retryAfter(resp.Header); wait > 0 {
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return abandon(ctx.Err())
				}
			}
			continue
		}

		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		if resp.StatusCode >= 500 {
			c.CircuitBreaker.RecordFailure()
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		} else {
			// 4xx means the request was wrong, not that WordPress is down
			c.CircuitBreaker.RecordSuccess()
		}
		return resp, nil
	}

	c.CircuitBreaker.RecordFailure()
	tracing.RecordError(span, lastErr)
	return nil, lastErr
}

// do performs a single round trip.
func (c *Client) do(ctx context.Context, endpoint, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	httpResp, err := c.HTTPClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordUpstreamCall(endpoint, duration.Seconds(), "error")
		c.Logger.WarnContext(ctx, "WordPress request failed",
			"request_id", requestID,
			"url", rawURL,
			"error", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readAndClose(httpResp)
	if err != nil {
		metrics.RecordUpstreamCall(endpoint, duration.Seconds(), "error")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	metrics.RecordUpstreamCall(endpoint, duration.Seconds(), strconv.Itoa(httpResp.StatusCode))
	c.Logger.DebugContext(ctx, "WordPress request",
		"request_id", requestID,
		"url", rawURL,
		"status", httpResp.StatusCode,
		"bytes", len(body),
		"duration_ms", duration.Milliseconds())

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

// retryAfter parses a Retry-After header given in seconds, capped at 10s.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		return 0
	}
	return min(time.Duration(seconds)*time.Second, 10*time.Second)
}

// readAndClose reads the response body and closes it
func readAndClose(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return body, err
}

// Truncate shortens s to at most maxLen bytes, adding "..." if truncated.
// The cut never splits a UTF-8 sequence.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := max(maxLen, 0)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// newHTTPClient creates an HTTP client with pooled transport settings
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       120 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
