package driven

import (
	"context"
	"iter"
	"time"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

// RecordFetcher pulls the records of one data type from the source API.
// Each data type (incidents, alerts, ...) has its own fetcher.
type RecordFetcher interface {
	// DataType returns the data type this fetcher serves.
	DataType() domain.DataType

	// SupportsSinceFilter reports whether the API filters by modification
	// time server-side. The coordinator filters client-side regardless.
	SupportsSinceFilter() bool

	// Fetch returns a lazy sequence of records across all pages.
	// Nothing is requested until the sequence is ranged over, and each
	// range restarts from the first page.
	//
	// A record that cannot be decoded is yielded as a *domain.MappingError
	// and iteration continues. Any other error is the last element.
	Fetch(ctx context.Context, opts FetchOptions) iter.Seq2[domain.Record, error]
}

// FetchOptions bounds a single fetch.
type FetchOptions struct {
	// Since requests records modified at or after this time. Nil means all.
	Since *time.Time

	// PageLimit is the page size requested from the API.
	PageLimit int

	// MaxItems stops iteration after this many records. Zero means unlimited.
	MaxItems int

	// MaxPages stops iteration after this many pages. Zero means unlimited.
	MaxPages int
}
