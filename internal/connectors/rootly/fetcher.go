package rootly

import (
	"context"
	"iter"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// paramUpdatedSince filters a collection by modification time.
const paramUpdatedSince = "filter[updated_at][gte]"

// decodeFunc converts one resource into a typed record.
type decodeFunc func(r resource) (domain.Record, error)

// Fetcher pulls one data type page by page.
type Fetcher struct {
	dataType    domain.DataType
	client      *Client
	decode      decodeFunc
	serverSince bool

	// newEnricher is called once per Fetch so lookups are fetched once per run.
	newEnricher func() func(ctx context.Context, rec domain.Record)
}

// Ensure Fetcher implements the interface.
var _ driven.RecordFetcher = (*Fetcher)(nil)

// DataType returns the data type this fetcher serves.
func (f *Fetcher) DataType() domain.DataType {
	return f.dataType
}

// SupportsSinceFilter reports whether the endpoint filters by updated_at server-side.
func (f *Fetcher) SupportsSinceFilter() bool {
	return f.serverSince
}

// Fetch returns a lazy sequence of records.
func (f *Fetcher) Fetch(ctx context.Context, opts driven.FetchOptions) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		var enrich func(context.Context, domain.Record)
		if f.newEnricher != nil {
			enrich = f.newEnricher()
		}

		count := 0
		for page, err := range f.client.pages(ctx, f.dataType.Endpoint(), f.query(opts), opts.MaxPages) {
			if err != nil {
				yield(nil, err)
				return
			}
			for _, res := range page {
				if opts.MaxItems > 0 && count >= opts.MaxItems {
					return
				}
				count++

				rec, err := f.decode(res)
				if err != nil {
					if !yield(nil, err) {
						return
					}
					continue
				}
				if enrich != nil {
					enrich(ctx, rec)
				}
				if !yield(rec, nil) {
					return
				}
			}
			if opts.MaxItems > 0 && count >= opts.MaxItems {
				logger.Debug("rootly: %s: reached max_items=%d", f.dataType, opts.MaxItems)
				return
			}
		}
	}
}

// query builds the first page parameters.
func (f *Fetcher) query(opts driven.FetchOptions) url.Values {
	params := url.Values{}
	if opts.PageLimit > 0 {
		params.Set(paramPageSize, strconv.Itoa(opts.PageLimit))
	}
	if f.serverSince && opts.Since != nil {
		params.Set(paramUpdatedSince, opts.Since.UTC().Format(time.RFC3339))
	}
	return params
}

// NewFetchers builds a fetcher for every data type.
func NewFetchers(client *Client, settings domain.Settings) []driven.RecordFetcher {
	incidents := settings.DataType(domain.DataTypeIncidents)
	return []driven.RecordFetcher{
		NewIncidentFetcher(client, NestedOptions{
			Enabled:            incidents.NestedFetch,
			IncludeEvents:      incidents.IncludeEvents,
			IncludeActionItems: incidents.IncludeActionItems,
		}),
		NewAlertFetcher(client),
		NewScheduleFetcher(client),
		NewEscalationPolicyFetcher(client),
		NewRetrospectiveFetcher(client),
	}
}
