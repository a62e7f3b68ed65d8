package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request id used to correlate log lines.
const RequestIDHeader = "X-Request-ID"

type Client struct {
	httpClient      *http.Client
	logger          *zap.Logger
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
}

type RequestOptions struct {
	Method  string
	URL     string
	Headers map[string]string
	// Form is sent as an application/x-www-form-urlencoded body when non-nil.
	Form    url.Values
	Context context.Context
}

// Response is returned for every status code. Interpreting the status is
// left to the caller.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestID  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the underlying http.Client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMaxRetries sets how many times a request failing at the network level
// is retried. Zero disables retries.
func WithMaxRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.maxRetries = retries
		}
	}
}

// WithRetryInterval sets the initial and maximum backoff intervals.
func WithRetryInterval(initial, max time.Duration) Option {
	return func(c *Client) {
		if initial > 0 {
			c.initialInterval = initial
		}
		if max > 0 {
			c.maxInterval = max
		}
	}
}

// WithTransport replaces the round tripper of the underlying http.Client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// NewClientWithLogger creates a new HTTP client with a custom logger. Cookies
// set by the server are stored in jar and attached to later requests.
func NewClientWithLogger(logger *zap.Logger, jar http.CookieJar, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		logger:          logger,
		initialInterval: 100 * time.Millisecond,
		maxInterval:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Do(opts RequestOptions) (*Response, error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	requestID := uuid.NewString()
	body := ""
	if opts.Form != nil {
		body = opts.Form.Encode()
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.initialInterval
	expBackoff.MaxInterval = c.maxInterval
	expBackoff.Reset()

	operation := func() (*Response, error) {
		req, err := c.buildRequest(ctx, opts, body, requestID)
		if err != nil {
			c.logger.Error("Failed to build request", zap.Error(err), zap.String("method", opts.Method), zap.String("url", opts.URL))
			return nil, backoff.Permanent(err)
		}

		c.logger.Debug("Making HTTP request",
			zap.String("method", opts.Method),
			zap.String("url", opts.URL),
			zap.String("request_id", requestID))

		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			c.logger.Warn("HTTP request failed",
				zap.Error(err),
				zap.String("method", opts.Method),
				zap.String("url", opts.URL),
				zap.String("request_id", requestID))
			return nil, err
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			c.logger.Error("Failed to read response body", zap.Error(err), zap.String("request_id", requestID))
			return nil, backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}

		return &Response{
			StatusCode: httpResp.StatusCode,
			Headers:    httpResp.Header,
			Body:       respBody,
			RequestID:  requestID,
		}, nil
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(uint(c.maxRetries)+1),
	)
	if err != nil {
		c.logger.Error("HTTP request failed",
			zap.Error(err),
			zap.String("method", opts.Method),
			zap.String("url", opts.URL),
			zap.String("request_id", requestID))
		return nil, err
	}

	c.logger.Debug("HTTP request completed",
		zap.Int("status_code", resp.StatusCode),
		zap.String("method", opts.Method),
		zap.String("url", opts.URL),
		zap.String("request_id", requestID))

	return resp, nil
}

func (c *Client) buildRequest(ctx context.Context, opts RequestOptions, body, requestID string) (*http.Request, error) {
	if opts.Method == "" {
		return nil, errors.New("method is required")
	}

	var bodyReader io.Reader
	if opts.Form != nil {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if opts.Form != nil {
		req.ContentLength = int64(len(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

func (c *Client) Get(ctx context.Context, endpoint string, headers map[string]string) (*Response, error) {
	return c.Do(RequestOptions{
		Method:  http.MethodGet,
		URL:     endpoint,
		Headers: headers,
		Context: ctx,
	})
}

func (c *Client) Post(ctx context.Context, endpoint string, headers map[string]string, form url.Values) (*Response, error) {
	return c.Do(RequestOptions{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: headers,
		Form:    form,
		Context: ctx,
	})
}

func (c *Client) Put(ctx context.Context, endpoint string, headers map[string]string, form url.Values) (*Response, error) {
	return c.Do(RequestOptions{
		Method:  http.MethodPut,
		URL:     endpoint,
		Headers: headers,
		Form:    form,
		Context: ctx,
	})
}

func (c *Client) Delete(ctx context.Context, endpoint string, headers map[string]string) (*Response, error) {
	return c.Do(RequestOptions{
		Method:  http.MethodDelete,
		URL:     endpoint,
		Headers: headers,
		Context: ctx,
	})
}
