package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// Service names the API in errors and logs, e.g. "rootly".
	Service string

	Timeout time.Duration

	// RequestsPerSecond throttles requests. Zero or negative disables throttling.
	RequestsPerSecond float64

	Retry RetryPolicy

	// BaseTransport is wrapped by the bearer token transport.
	// Defaults to http.DefaultTransport.
	BaseTransport http.RoundTripper
}

// Client performs authenticated, throttled and retried HTTP requests.
type Client struct {
	service string
	http    *http.Client
	limiter *rate.Limiter
	retry   RetryPolicy
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewClient creates a client that sends token as a bearer credential.
func NewClient(token domain.Secret, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	base := opts.BaseTransport
	if base == nil {
		base = http.DefaultTransport
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token.Reveal(), TokenType: "Bearer"},
	)
	hc := &http.Client{
		Transport: &oauth2.Transport{Source: ts, Base: base},
		Timeout:   opts.Timeout,
	}

	return &Client{
		service: opts.Service,
		http:    hc,
		limiter: rate.NewLimiter(limit, 1),
		retry:   opts.Retry,
		sleep:   sleepContext,
		now:     time.Now,
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	return c.Do(ctx, http.MethodGet, rawURL, nil, header)
}

// Post performs a POST request with a body.
func (c *Client) Post(ctx context.Context, rawURL string, body []byte, header http.Header) (*Response, error) {
	return c.Do(ctx, http.MethodPost, rawURL, body, header)
}

// Do sends a request, retrying 429, 5xx and network failures.
// The body is replayed on every attempt.
func (c *Client) Do(ctx context.Context, method, rawURL string, body []byte, header http.Header) (*Response, error) {
	safeURL := redactURL(rawURL)

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: rate limit wait: %w", c.service, err)
		}

		resp, err := c.once(ctx, method, rawURL, body, header)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		var retryAfter time.Duration
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			err = fmt.Errorf("%s: %s %s: %w: %w", c.service, method, safeURL, domain.ErrTransient, unwrapURLError(err))
		} else {
			apiErr := &APIError{
				Service:    c.service,
				StatusCode: resp.StatusCode,
				Method:     method,
				URL:        safeURL,
				Message:    truncate(string(bytes.TrimSpace(resp.Body))),
				RetryAfter: ParseRetryAfter(resp.Header, c.now()),
			}
			if !apiErr.Retryable() {
				return nil, apiErr
			}
			retryAfter = apiErr.RetryAfter
			err = apiErr
		}

		if attempt >= c.retry.MaxRetries {
			return nil, err
		}

		delay := c.retry.Delay(attempt, retryAfter)
		logger.Debug("%s: retrying %s %s in %s (attempt %d/%d): %v",
			c.service, method, safeURL, delay, attempt+1, c.retry.MaxRetries, err)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) once(ctx context.Context, method, rawURL string, body []byte, header http.Header) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// redactURL strips credentials and the query string so logs and errors never carry secrets.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// unwrapURLError drops the *url.Error wrapper, which repeats the full URL.
func unwrapURLError(err error) error {
	if uErr, ok := err.(*url.Error); ok {
		return uErr.Err
	}
	return err
}
