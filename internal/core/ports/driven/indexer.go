package driven

import (
	"context"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

// Indexer publishes documents to the search destination.
type Indexer interface {
	// EnsureDatasource registers the datasource and its object definitions.
	// It is idempotent and safe to call before every run.
	EnsureDatasource(ctx context.Context) error

	// IndexDocuments uploads one batch of at most MaxBatchSize documents.
	// A returned error means the whole batch failed. Individual rejections
	// are reported in the result.
	IndexDocuments(ctx context.Context, docs []domain.Document) (*IndexResult, error)

	// MaxBatchSize is the largest batch IndexDocuments accepts.
	MaxBatchSize() int
}

// IndexResult reports per-document outcomes of an upload.
type IndexResult struct {
	// Rejected lists documents the destination refused.
	Rejected []domain.DocumentFailure
}
