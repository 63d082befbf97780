package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/translation-desk/internal/config"
	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/metrics"
	"github.com/heartmarshall/translation-desk/pkg/ctxutil"
)

const authPathPrefix = "/api/auth/"

// TokenSource supplies the bearer token of the current session.
type TokenSource interface {
	Token() string
}

// Client is a typed wrapper around the translation backend REST API.
// It holds no domain state.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	uploadClient  *http.Client
	tokens        TokenSource
	retryAttempts int
	retryDelay    time.Duration
	unauthorized  func(path string)
	metrics       *metrics.Metrics
	log           *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource attaches the session token to every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithHTTPClient replaces the HTTP client used for regular and upload calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.uploadClient = hc
	}
}

// WithUnauthorizedHandler registers the callback run on every 401 response
// outside the /api/auth/ endpoints.
func WithUnauthorizedHandler(fn func(path string)) Option {
	return func(c *Client) { c.unauthorized = fn }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client for the configured backend.
func New(cfg config.APIConfig, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		uploadClient:  &http.Client{Timeout: cfg.UploadTimeout},
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		log:           logger.With("adapter", "remote"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON issues a GET and decodes the response into out. Server errors and
// network failures are retried with a constant backoff.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	op := func() error {
		err := c.doJSON(ctx, c.httpClient, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(c.retryDelay)
	b = backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(c.retryAttempts, 0))), ctx)

	return backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		c.log.WarnContext(ctx, "remote retry",
			slog.String("path", path),
			slog.Duration("wait", wait),
			slog.String("reason", err.Error()),
		)
	})
}

// sendJSON issues a mutating request with an optional JSON body.
// Mutations are never retried.
func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}
	return c.doJSON(ctx, c.httpClient, method, path, body, out)
}

func (c *Client) doJSON(ctx context.Context, hc *http.Client, method, path string, body io.Reader, out any) error {
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	resp, err := c.do(ctx, hc, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("remote: decode %s %s: %w", method, path, err)
	}
	return nil
}

// do sends one request and converts transport failures and non-2xx
// responses into errors. On success the caller owns resp.Body.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	ctx, requestID := ctxutil.EnsureRequestID(ctx)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.metrics.ObserveAPI(method, "network_error", time.Since(start))
		if ctx.Err() != nil {
			return nil, fmt.Errorf("remote: %s %s: %w", method, path, ctx.Err())
		}
		c.log.ErrorContext(ctx, "remote request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("remote: %s %s: %w: %w", method, path, domain.ErrNetwork, err)
	}
	c.metrics.ObserveAPI(method, strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := parseAPIError(method, path, resp.StatusCode, raw)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.log.InfoContext(ctx, "remote unauthorized", slog.String("path", path))
		if c.unauthorized != nil && !strings.HasPrefix(path, authPathPrefix) {
			c.unauthorized(path)
		}
	case resp.StatusCode == http.StatusNotFound:
		c.log.WarnContext(ctx, "remote not found",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
		)
	case resp.StatusCode >= 500:
		c.log.ErrorContext(ctx, "remote server error",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("request_id", requestID),
		)
	}

	return nil, apiErr
}
