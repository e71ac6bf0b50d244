package api

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
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 16 << 20

type Options struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is requests per second; zero means unlimited.
	RateLimit float64
	// Retries is the number of extra attempts after a transport failure.
	Retries    uint
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the analysis backend. It is safe for concurrent use.
type Client struct {
	baseURL     string
	client      *http.Client
	rateLimiter *rate.Limiter
	attempts    uint
	logger      *slog.Logger
}

func New(opts Options) *Client {
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	} else {
		limiter = rate.NewLimiter(rate.Inf, 0) // No rate limit
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = consts.DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = consts.DefaultBackendURL
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      httpClient,
		rateLimiter: limiter,
		attempts:    opts.Retries + 1,
		logger:      logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// request is one prepared call; the body is kept as bytes so a retry can
// resend it.
type request struct {
	method      string
	endpoint    consts.Endpoint
	query       url.Values
	contentType string
	body        []byte
}

// transportError marks failures that never produced an HTTP response. Only
// these are retried.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func (c *Client) do(ctx context.Context, r request, out any) error {
	err := c.rateLimiter.Wait(ctx)
	if err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	requestID := uuid.NewString()
	started := time.Now()

	var raw []byte
	err = retry.Do(
		func() error {
			raw, err = c.send(ctx, r, requestID)
			return err
		},
		retry.Attempts(c.attempts),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var te *transportError
			return errors.As(err, &te) && ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			// n counts from zero; the last attempt has nothing left to retry.
			if n+1 >= c.attempts {
				return
			}
			c.logger.Warn("Backend request failed, retrying", "endpoint", r.endpoint, "request_id", requestID, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		c.logger.Debug("Backend request failed", "endpoint", r.endpoint, "request_id", requestID, "error", err)
		var te *transportError
		if errors.As(err, &te) {
			return fmt.Errorf("error sending request: %w", te.err)
		}
		return err
	}

	c.logger.Debug("Backend request finished", "endpoint", r.endpoint, "request_id", requestID, "duration", time.Since(started))

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, r request, requestID string) ([]byte, error) {
	target := c.baseURL + r.endpoint.String()
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	if strings.HasPrefix(r.contentType, "application/json") {
		c.logger.Debug("Raw backend request", "endpoint", r.endpoint, "request_id", requestID, "body", string(r.body))
	} else {
		c.logger.Debug("Backend request", "endpoint", r.endpoint, "request_id", requestID, "bytes", len(r.body))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("error reading response body: %w", err)}
	}

	c.logger.Debug("Raw backend response", "endpoint", r.endpoint, "request_id", requestID, "status", resp.Status, "body", string(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}

	// A type mismatch on one field still fills the others.
	var env structs.Envelope
	_ = json.Unmarshal(raw, &env)
	if env.Failed() {
		msg := errorDetail(raw)
		if msg == "" {
			msg = unknownErrorMessage
		}
		return nil, &APIError{Message: msg}
	}

	return raw, nil
}

// errorDetail pulls the message out of either error shape the backend uses:
// {"status":"error","error":"..."} or FastAPI's {"detail":"..."}.
func errorDetail(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return ""
	}
	for _, path := range []string{"error", "detail", "detail.0.msg", "message"} {
		if v := gjson.GetBytes(raw, path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func (c *Client) postJSON(ctx context.Context, endpoint consts.Endpoint, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		contentType: "application/json",
		body:        payload,
	}, out)
}

func (c *Client) postMultipart(ctx context.Context, endpoint consts.Endpoint, form multipartForm, out any) error {
	payload, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("error building multipart body: %w", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		contentType: contentType,
		body:        payload,
	}, out)
}

func (c *Client) get(ctx context.Context, endpoint consts.Endpoint, query url.Values, out any) error {
	return c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: endpoint,
		query:    query,
	}, out)
}
