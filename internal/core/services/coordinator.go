package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driving"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// Ensure Coordinator implements the interface.
var _ driving.SyncCoordinator = (*Coordinator)(nil)

// Coordinator runs the fetch, map and upload pipeline for every enabled
// data type. Types run one after another in domain.AllDataTypes order and
// each type block owns its TypeReport.
type Coordinator struct {
	settings   domain.Settings
	fetchers   map[domain.DataType]driven.RecordFetcher
	mappers    driven.MapperRegistry
	indexer    driven.Indexer
	stateStore driven.SyncStateStore

	running atomic.Bool

	now      func() time.Time
	newRunID func() string
}

// NewCoordinator creates a coordinator. stateStore is optional; without it
// watermarks are neither read nor saved.
func NewCoordinator(
	settings domain.Settings,
	fetchers []driven.RecordFetcher,
	mappers driven.MapperRegistry,
	indexer driven.Indexer,
	stateStore driven.SyncStateStore,
) *Coordinator {
	byType := make(map[domain.DataType]driven.RecordFetcher, len(fetchers))
	for _, f := range fetchers {
		byType[f.DataType()] = f
	}
	return &Coordinator{
		settings:   settings,
		fetchers:   byType,
		mappers:    mappers,
		indexer:    indexer,
		stateStore: stateStore,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

// Run performs one synchronisation pass.
func (c *Coordinator) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	selected, err := c.selectTypes(opts.Only)
	if err != nil {
		return nil, err
	}
	if !c.running.CompareAndSwap(false, true) {
		return nil, domain.ErrSyncInProgress
	}
	defer c.running.Store(false)

	report := domain.NewRunReport(c.newRunID(), c.now())
	log := logger.With("run_id", report.RunID)
	log.Infow("sync started", "types", selected)

	if err := c.indexer.EnsureDatasource(ctx); err != nil {
		log.Errorw("datasource setup failed", "error", err)
		setupErr := fmt.Errorf("ensure datasource: %w", err)
		for _, dt := range domain.AllDataTypes() {
			if !slices.Contains(selected, dt) {
				report.Add(domain.SkippedReport(dt))
				continue
			}
			tr := domain.NewTypeReport(dt)
			tr.Err = setupErr
			tr.StartedAt = c.now()
			tr.EndedAt = tr.StartedAt
			report.Add(tr)
		}
		report.EndedAt = c.now()
		return report, nil
	}

	for _, dt := range domain.AllDataTypes() {
		if !slices.Contains(selected, dt) {
			report.Add(domain.SkippedReport(dt))
			continue
		}
		logger.Section(dt.Description())
		since := c.since(ctx, dt, opts)
		tr := c.syncType(ctx, dt, since)
		report.Add(tr)
		logTypeReport(log, tr)

		if tr.Status() == domain.TypeStatusSucceeded {
			c.saveWatermark(ctx, dt, report.StartedAt)
		}
	}

	report.EndedAt = c.now()
	log.Infow("sync finished",
		"uploaded", report.TotalUploaded(),
		"failed", report.TotalFailed(),
		"duration", report.EndedAt.Sub(report.StartedAt))
	return report, nil
}

// selectTypes returns the enabled types of the run in run order.
func (c *Coordinator) selectTypes(only []domain.DataType) ([]domain.DataType, error) {
	for _, dt := range only {
		if !dt.IsValid() {
			return nil, domain.NewConfigError("types", "unknown data type %q", string(dt))
		}
		if !c.settings.IsEnabled(dt) {
			return nil, domain.NewConfigError("types", "data type %q is not enabled", string(dt))
		}
	}

	var selected []domain.DataType
	for _, dt := range c.settings.EnabledTypes() {
		if len(only) == 0 || slices.Contains(only, dt) {
			selected = append(selected, dt)
		}
	}
	return selected, nil
}

// since resolves the modified-since bound of a type.
// An explicit bound wins over the stored watermark.
func (c *Coordinator) since(ctx context.Context, dt domain.DataType, opts driving.RunOptions) *time.Time {
	if opts.Since != nil {
		return opts.Since
	}
	if !opts.Resume || c.stateStore == nil {
		return nil
	}

	state, err := c.stateStore.Get(ctx, dt)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("no watermark for %s, running a full sync", dt)
		return nil
	case err != nil:
		logger.Warn("read watermark for %s: %v; running a full sync", dt, err)
		return nil
	case state.Watermark.IsZero():
		return nil
	}
	watermark := state.Watermark
	logger.Debug("resuming %s from %s", dt, watermark.Format(time.RFC3339))
	return &watermark
}

// syncType runs the fetch, map and upload block of one data type.
func (c *Coordinator) syncType(ctx context.Context, dt domain.DataType, since *time.Time) *domain.TypeReport {
	tr := domain.NewTypeReport(dt)
	tr.StartedAt = c.now()
	defer func() { tr.EndedAt = c.now() }()

	fetcher, ok := c.fetchers[dt]
	if !ok {
		tr.Err = fmt.Errorf("%w: no fetcher for %s", domain.ErrUnsupportedType, dt)
		return tr
	}
	mapper, err := c.mappers.Get(dt)
	if err != nil {
		tr.Err = err
		return tr
	}

	cfg := c.settings.DataType(dt)
	fetchOpts := driven.FetchOptions{
		Since:     since,
		PageLimit: cfg.PageLimit,
		MaxItems:  cfg.MaxItems,
		MaxPages:  c.settings.Processing.MaxPages,
	}

	batchSize := c.batchSize()
	pending := make([]domain.Document, 0, batchSize)
	seen := make(map[string]struct{})

	for rec, err := range fetcher.Fetch(ctx, fetchOpts) {
		if err != nil {
			if domain.IsMappingError(err) {
				tr.Fetched++
				tr.RecordFailure(failureFor(mappingRecordID(err), err))
				continue
			}
			tr.Err = fmt.Errorf("fetch %s: %w", dt, err)
			break
		}
		tr.Fetched++

		if since != nil && isBefore(rec.LastModified(), *since) {
			tr.Filtered++
			continue
		}
		if inc, ok := rec.(*domain.Incident); ok && len(inc.Degraded) > 0 {
			tr.Degraded++
			logger.Debug("incident %s is missing nested detail: %v", inc.ID, inc.Degraded)
		}

		doc, err := mapper.Map(rec)
		if err != nil {
			tr.RecordFailure(failureFor(rec.ExternalID(), err))
			continue
		}
		tr.Mapped++

		if _, dup := seen[doc.ID]; dup {
			tr.Duplicates++
			continue
		}
		seen[doc.ID] = struct{}{}

		pending = append(pending, *doc)
		if len(pending) < batchSize {
			continue
		}
		if abort := c.upload(ctx, tr, pending); abort {
			return tr
		}
		pending = make([]domain.Document, 0, batchSize)
	}

	if len(pending) > 0 && ctx.Err() == nil {
		c.upload(ctx, tr, pending)
	}
	return tr
}

// upload sends one batch and records the outcome. It reports whether the
// type block must stop. A batch-level error fails every document of the batch.
func (c *Coordinator) upload(ctx context.Context, tr *domain.TypeReport, docs []domain.Document) bool {
	logger.Debug("uploading %d %s documents", len(docs), tr.DataType)

	result, err := c.indexer.IndexDocuments(ctx, docs)
	if err != nil {
		kind := domain.ClassifyError(err)
		for _, doc := range docs {
			tr.RecordFailure(domain.DocumentFailure{ID: doc.ID, Kind: kind, Reason: err.Error()})
		}
		if ctx.Err() != nil || errors.Is(err, domain.ErrAuthInvalid) {
			tr.Err = fmt.Errorf("upload %s: %w", tr.DataType, err)
			return true
		}
		return false
	}

	inBatch := make(map[string]bool, len(docs))
	for _, doc := range docs {
		inBatch[doc.ID] = true
	}
	rejected := make(map[string]bool)
	if result != nil {
		for _, f := range result.Rejected {
			switch {
			case !inBatch[f.ID]:
				logger.Debug("ignoring rejection of %q: not in the %s batch", f.ID, tr.DataType)
			case rejected[f.ID]:
				logger.Debug("ignoring repeated rejection of %s", f.ID)
			default:
				rejected[f.ID] = true
				tr.RecordFailure(f)
			}
		}
	}
	tr.Uploaded += len(docs) - len(rejected)
	return false
}

func (c *Coordinator) batchSize() int {
	size := c.settings.Destination.BatchSize
	if limit := c.indexer.MaxBatchSize(); limit > 0 {
		size = min(size, limit)
	}
	return max(size, 1)
}

func (c *Coordinator) saveWatermark(ctx context.Context, dt domain.DataType, watermark time.Time) {
	if c.stateStore == nil {
		return
	}
	state := domain.SyncState{DataType: dt, Watermark: watermark, LastRun: c.now()}
	if err := c.stateStore.Save(ctx, state); err != nil {
		logger.Warn("save watermark for %s: %v", dt, err)
	}
}

func logTypeReport(log *zap.SugaredLogger, tr *domain.TypeReport) {
	log.Infow("data type finished",
		"data_type", tr.DataType,
		"status", tr.Status(),
		"fetched", tr.Fetched,
		"filtered", tr.Filtered,
		"mapped", tr.Mapped,
		"duplicates", tr.Duplicates,
		"uploaded", tr.Uploaded,
		"failed", tr.Failed,
		"degraded", tr.Degraded)
	if tr.Err != nil {
		logger.Error("%s: %v", tr.DataType, tr.Err)
	}
	for _, f := range tr.Failures {
		logger.Debug("%s failure %s (%s): %s", tr.DataType, f.ID, f.Kind, f.Reason)
	}
}

// isBefore reports whether t is known and strictly earlier than since.
// Records with an unknown modification time always pass.
func isBefore(t, since time.Time) bool {
	return !t.IsZero() && t.Before(since)
}

func failureFor(id string, err error) domain.DocumentFailure {
	return domain.DocumentFailure{ID: id, Kind: domain.ClassifyError(err), Reason: err.Error()}
}

func mappingRecordID(err error) string {
	var mErr *domain.MappingError
	if errors.As(err, &mErr) {
		return mErr.RecordID
	}
	return ""
}
