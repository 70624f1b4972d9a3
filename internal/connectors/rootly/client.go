package rootly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/transport"
)

// MediaType is the JSON:API media type.
const MediaType = "application/vnd.api+json"

// Client performs authenticated GETs against the Rootly API.
type Client struct {
	http    *transport.Client
	apiBase *url.URL
	header  http.Header
}

// Option customises a Client.
type Option func(*transport.Options)

// WithRetryPolicy overrides the retry policy derived from settings.
func WithRetryPolicy(p transport.RetryPolicy) Option {
	return func(o *transport.Options) {
		o.Retry = p
	}
}

// WithRoundTripper sets the underlying HTTP transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *transport.Options) {
		o.BaseTransport = rt
	}
}

// NewClient creates a Rootly API client.
func NewClient(token domain.Secret, cfg domain.SourceSettings, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.APIBase, "/"))
	if err != nil || base.Host == "" {
		return nil, domain.NewConfigError("source.api_base", "must be an absolute URL")
	}

	topts := transport.Options{
		Service:           "rootly",
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Retry:             transport.DefaultRetryPolicy(cfg.MaxRetries),
	}
	for _, opt := range opts {
		opt(&topts)
	}

	header := http.Header{}
	header.Set("Accept", MediaType)
	header.Set("Content-Type", MediaType)

	return &Client{
		http:    transport.NewClient(token, topts),
		apiBase: base,
		header:  header,
	}, nil
}

// endpointURL builds the absolute URL of an API path.
func (c *Client) endpointURL(path string, params url.Values) string {
	u := *c.apiBase
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = params.Encode()
	return u.String()
}

// getCollection fetches and decodes one JSON:API collection page.
func (c *Client) getCollection(ctx context.Context, rawURL string) (*collection, error) {
	resp, err := c.http.Get(ctx, rawURL, c.header)
	if err != nil {
		return nil, err
	}

	var doc collection
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return nil, fmt.Errorf("rootly: decode response: %w", err)
	}
	return &doc, nil
}

// List fetches a non-paginated collection, such as an incident's events.
func (c *Client) List(ctx context.Context, path string) ([]resource, error) {
	doc, err := c.getCollection(ctx, c.endpointURL(path, nil))
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// sameHost reports whether u points at the configured API host.
func (c *Client) sameHost(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, c.apiBase.Scheme) && strings.EqualFold(u.Host, c.apiBase.Host)
}
