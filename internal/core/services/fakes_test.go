package services

import (
	"context"
	"iter"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driving"
)

// fetchItem is one element yielded by fakeFetcher.
type fetchItem struct {
	rec domain.Record
	err error
}

// fakeFetcher yields a fixed list of records.
type fakeFetcher struct {
	dt          domain.DataType
	serverSince bool
	items       []fetchItem

	calls    int
	lastOpts driven.FetchOptions
}

func newFakeFetcher(dt domain.DataType, recs ...domain.Record) *fakeFetcher {
	f := &fakeFetcher{dt: dt}
	for _, r := range recs {
		f.items = append(f.items, fetchItem{rec: r})
	}
	return f
}

func (f *fakeFetcher) DataType() domain.DataType { return f.dt }

func (f *fakeFetcher) SupportsSinceFilter() bool { return f.serverSince }

func (f *fakeFetcher) Fetch(_ context.Context, opts driven.FetchOptions) iter.Seq2[domain.Record, error] {
	f.calls++
	f.lastOpts = opts
	return func(yield func(domain.Record, error) bool) {
		for _, it := range f.items {
			if f.serverSince && opts.Since != nil && it.rec != nil && it.rec.LastModified().Before(*opts.Since) {
				continue
			}
			if !yield(it.rec, it.err) {
				return
			}
		}
	}
}

// fakeIndexer records uploaded batches.
type fakeIndexer struct {
	mu sync.Mutex

	maxBatch    int
	ensureErr   error
	ensureCalls int

	// reject maps document IDs to rejection reasons.
	reject map[string]string
	// batchErrs fails the n-th IndexDocuments call when non-nil.
	batchErrs []error
	// extraRejections is appended to every successful result.
	extraRejections []domain.DocumentFailure

	batches [][]domain.Document
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{maxBatch: domain.MaxBatchSize, reject: make(map[string]string)}
}

func (f *fakeIndexer) EnsureDatasource(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeIndexer) IndexDocuments(_ context.Context, docs []domain.Document) (*driven.IndexResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := len(f.batches)
	f.batches = append(f.batches, slices.Clone(docs))
	if call < len(f.batchErrs) && f.batchErrs[call] != nil {
		return nil, f.batchErrs[call]
	}

	result := &driven.IndexResult{}
	for _, doc := range docs {
		if reason, ok := f.reject[doc.ID]; ok {
			result.Rejected = append(result.Rejected, domain.DocumentFailure{
				ID:     doc.ID,
				Kind:   domain.ErrorKindUpload,
				Reason: reason,
			})
		}
	}
	result.Rejected = append(result.Rejected, f.extraRejections...)
	return result, nil
}

func (f *fakeIndexer) MaxBatchSize() int { return f.maxBatch }

// uploaded returns every uploaded document of a data type in upload order.
func (f *fakeIndexer) uploaded(dt domain.DataType) []domain.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	var docs []domain.Document
	for _, batch := range f.batches {
		for _, doc := range batch {
			if doc.DataType == dt {
				docs = append(docs, doc)
			}
		}
	}
	return docs
}

func (f *fakeIndexer) batchSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sizes := make([]int, 0, len(f.batches))
	for _, batch := range f.batches {
		sizes = append(sizes, len(batch))
	}
	return sizes
}

// fakeCoordinator returns canned reports and counts runs.
type fakeCoordinator struct {
	mu     sync.Mutex
	calls  int
	opts   []driving.RunOptions
	report func(n int) (*domain.RunReport, error)
	ran    chan struct{}
}

func newFakeCoordinator(report func(n int) (*domain.RunReport, error)) *fakeCoordinator {
	return &fakeCoordinator{report: report, ran: make(chan struct{}, 16)}
}

func (f *fakeCoordinator) Run(_ context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.opts = append(f.opts, opts)
	f.mu.Unlock()

	defer func() {
		select {
		case f.ran <- struct{}{}:
		default:
		}
	}()
	return f.report(n)
}

func (f *fakeCoordinator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Record fixtures.

var runStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func incident(id string, updated time.Time) *domain.Incident {
	return &domain.Incident{
		RecordMeta: domain.RecordMeta{ID: id, UpdatedAt: updated},
		Title:      "Incident " + id,
		Status:     "resolved",
	}
}

func alert(id string, updated time.Time) *domain.Alert {
	return &domain.Alert{
		RecordMeta: domain.RecordMeta{ID: id, UpdatedAt: updated},
		Summary:    "Alert " + id,
		Status:     "triggered",
	}
}

func schedule(id string, updated time.Time) *domain.Schedule {
	return &domain.Schedule{
		RecordMeta: domain.RecordMeta{ID: id, UpdatedAt: updated},
		Name:       "Primary on-call " + id,
	}
}

func retrospective(id, incidentID string) *domain.Retrospective {
	return &domain.Retrospective{
		RecordMeta: domain.RecordMeta{ID: id, UpdatedAt: runStart.Add(-time.Hour)},
		Title:      "Review of " + incidentID,
		IncidentID: incidentID,
	}
}

func alerts(n int) []domain.Record {
	recs := make([]domain.Record, 0, n)
	for i := 1; i <= n; i++ {
		recs = append(recs, alert(strconv.Itoa(i), runStart.Add(-time.Duration(i)*time.Minute)))
	}
	return recs
}
