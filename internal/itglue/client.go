// Package itglue is the IT Glue API client: an authenticated JSON:API
// transport, error classification, the partitioned listing merge and one
// service method per supported resource operation.
package itglue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/metrics"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/ratelimit"
)

const (
	mediaType = "application/vnd.api+json"

	// maxResponseBytes bounds how much of an upstream body is read.
	maxResponseBytes = 32 << 20
)

// Transport performs authenticated JSON:API calls against IT Glue.
type Transport interface {
	Get(ctx context.Context, path string, params url.Values) (*jsonapi.Envelope, error)
	Post(ctx context.Context, path string, data any) (*jsonapi.Envelope, error)
	Patch(ctx context.Context, path string, data any) (*jsonapi.Envelope, error)
	Delete(ctx context.Context, path string, data any) (*jsonapi.Envelope, error)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	UserAgent  string

	// Limiter guards the upstream quota; nil disables the guard.
	Limiter ratelimit.RateLimiter

	Logger     *logging.Logger
	HTTPClient *http.Client
}

// Client is the HTTP implementation of Transport.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	maxRetries int
	retryDelay time.Duration
	limiter    ratelimit.RateLimiter
	limiterKey string
	logger     *logging.Logger
	http       *http.Client
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("itglue: base URL is required")
	}
	if opts.APIKey == "" {
		return nil, errors.New("itglue: API key is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("itglue: invalid base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = &ratelimit.NoOpRateLimiter{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "itglue-mcp-server"
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		userAgent:  userAgent,
		maxRetries: max(opts.MaxRetries, 0),
		retryDelay: opts.RetryDelay,
		limiter:    limiter,
		limiterKey: limiterKey(opts.APIKey),
		logger:     logger,
		http:       httpClient,
	}, nil
}

// limiterKey identifies the quota bucket without storing the key itself.
func limiterKey(apiKey string) string {
	if len(apiKey) <= 6 {
		return "itglue"
	}
	return "itglue:" + apiKey[len(apiKey)-6:]
}

// Get fetches path with query params. Server errors and connection failures
// are retried.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*jsonapi.Envelope, error) {
	return c.withRetry(ctx, http.MethodGet, func() (*jsonapi.Envelope, error) {
		return c.do(ctx, http.MethodGet, path, params, nil)
	})
}

// Post sends {"data": data} to path.
func (c *Client) Post(ctx context.Context, path string, data any) (*jsonapi.Envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, data)
}

// Patch sends {"data": data} to path.
func (c *Client) Patch(ctx context.Context, path string, data any) (*jsonapi.Envelope, error) {
	return c.do(ctx, http.MethodPatch, path, nil, data)
}

// Delete sends {"data": data} to path. A nil data sends no body.
func (c *Client) Delete(ctx context.Context, path string, data any) (*jsonapi.Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil, data)
}

func (c *Client) withRetry(ctx context.Context, method string, op func() (*jsonapi.Envelope, error)) (*jsonapi.Envelope, error) {
	if c.maxRetries == 0 {
		return op()
	}

	var policy backoff.BackOff = &backoff.ZeroBackOff{}
	if c.retryDelay > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = c.retryDelay
		exp.MaxElapsedTime = 0
		policy = exp
	}
	policy = backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx)

	attempt := 0
	return backoff.RetryNotifyWithData(func() (*jsonapi.Envelope, error) {
		attempt++
		env, err := op()
		if err != nil && !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return env, err
	}, policy, func(err error, wait time.Duration) {
		metrics.UpstreamRetriesTotal.WithLabelValues(method).Inc()
		c.logger.WarnContext(ctx, "retrying IT Glue request",
			logging.Method(method), logging.Attempt(attempt), logging.Error(err),
			slog.Int64("wait_ms", wait.Milliseconds()))
	})
}

// retryable reports failures worth repeating for an idempotent request:
// upstream 5xx and connections that never reached the server.
func retryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindUpstreamServerError || e.Kind == KindConnectionRefused
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, data any) (*jsonapi.Envelope, error) {
	allowed, err := c.limiter.Allow(ctx, c.limiterKey)
	if err != nil {
		// The guard is advisory; IT Glue enforces the real quota.
		c.logger.WarnContext(ctx, "quota guard unavailable", logging.Error(err))
	} else if !allowed {
		return nil, &Error{Kind: KindRateLimited, Status: http.StatusTooManyRequests, Detail: "local quota guard"}
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body io.Reader
	if data != nil {
		buf, err := json.Marshal(jsonapi.Document{Data: data})
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", mediaType)
	req.Header.Set("Content-Type", mediaType)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	metrics.UpstreamRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(method, "error").Inc()
		classified := Classify(err)
		c.logger.DebugContext(ctx, "IT Glue request failed",
			logging.Method(method), logging.Path(path), logging.Kind(string(classified.Kind)), logging.Error(err))
		return nil, classified
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.DebugContext(ctx, "IT Glue request",
		logging.Method(method), logging.Path(path), logging.Status(resp.StatusCode), logging.Duration(elapsed))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, Classify(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errs []jsonapi.ErrorObject
		if env, perr := jsonapi.ParseEnvelope(raw); perr == nil {
			errs = env.Errors
		}
		return nil, FromStatus(resp.StatusCode, errs)
	}

	env, err := jsonapi.ParseEnvelope(raw)
	if err != nil {
		return nil, &Error{Kind: KindUnclassified, Status: resp.StatusCode, Detail: "IT Glue returned a response that is not valid JSON:API: " + err.Error(), Err: err}
	}
	return env, nil
}
