package glean

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
	"github.com/custodia-labs/rootly-sync/internal/transport"
)

// Ensure Client implements the interface.
var _ driven.Indexer = (*Client)(nil)

// Defaults for the indexing API.
const (
	// APIPath is appended to the API host.
	APIPath = "/api/index/v1"

	// MaxBatchSize is the largest batch /indexdocuments accepts.
	MaxBatchSize = domain.MaxBatchSize

	// HeaderUploadID correlates an upload across client and server logs.
	HeaderUploadID = "X-Upload-Id"
)

// Option customises a Client.
type Option func(*transport.Options)

// WithRetryPolicy overrides the retry policy.
func WithRetryPolicy(p transport.RetryPolicy) Option {
	return func(o *transport.Options) {
		o.Retry = p
	}
}

// Client talks to the Glean indexing API.
type Client struct {
	http        *transport.Client
	baseURL     string
	datasource  string
	displayName string
	webBase     string
	header      http.Header
	newUploadID func() string
}

// NewClient creates an indexing client.
// dest.APIHost may be a bare host ("acme-be.glean.com") or a full origin.
// Timeout and retries come from dest; source.WebBase builds the datasource URL regex.
func NewClient(token domain.Secret, dest domain.DestinationSettings, source domain.SourceSettings, opts ...Option) (*Client, error) {
	base, err := baseURL(dest.APIHost)
	if err != nil {
		return nil, err
	}

	topts := transport.Options{
		Service:           "glean",
		Timeout:           dest.Timeout,
		RequestsPerSecond: dest.RequestsPerSecond,
		Retry:             transport.DefaultRetryPolicy(dest.MaxRetries),
	}
	for _, opt := range opts {
		opt(&topts)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")

	displayName := dest.DisplayName
	if displayName == "" {
		displayName = dest.DatasourceName
	}

	return &Client{
		http:        transport.NewClient(token, topts),
		baseURL:     base,
		datasource:  dest.DatasourceName,
		displayName: displayName,
		webBase:     strings.TrimRight(source.WebBase, "/"),
		header:      header,
		newUploadID: newUploadID,
	}, nil
}

func baseURL(host string) (string, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return "", domain.NewConfigError("destination.api_host", "is required")
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return "", domain.NewConfigError("destination.api_host", "must be a host name or URL")
	}
	return u.Scheme + "://" + u.Host + APIPath, nil
}

// MaxBatchSize returns the largest batch IndexDocuments accepts.
func (c *Client) MaxBatchSize() int {
	return MaxBatchSize
}

// post sends a JSON request and decodes the JSON response into out, if given.
func (c *Client) post(ctx context.Context, endpoint string, in, out any, header http.Header) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("glean: encode %s: %w", endpoint, err)
	}

	h := c.header.Clone()
	for k, vs := range header {
		h[k] = vs
	}

	resp, err := c.http.Post(ctx, c.baseURL+endpoint, body, h)
	if err != nil {
		return err
	}
	if out == nil || len(strings.TrimSpace(string(resp.Body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("glean: decode %s response: %w", endpoint, err)
	}
	return nil
}
