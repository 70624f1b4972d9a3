package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/rootly-sync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driving"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// mockCoordinator implements driving.SyncCoordinator for testing.
type mockCoordinator struct {
	mu     sync.Mutex
	calls  []driving.RunOptions
	report *domain.RunReport
	err    error
	onRun  func()
}

func (m *mockCoordinator) Run(_ context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	m.mu.Lock()
	m.calls = append(m.calls, opts)
	onRun := m.onRun
	m.mu.Unlock()
	if onRun != nil {
		onRun()
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return succeededReport(), nil
}

func (m *mockCoordinator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockIndexer implements driven.Indexer for testing.
type mockIndexer struct {
	ensureErr   error
	ensureCalls int
}

func (m *mockIndexer) EnsureDatasource(context.Context) error {
	m.ensureCalls++
	return m.ensureErr
}

func (m *mockIndexer) IndexDocuments(context.Context, []domain.Document) (*driven.IndexResult, error) {
	return &driven.IndexResult{}, nil
}

func (m *mockIndexer) MaxBatchSize() int { return domain.MaxBatchSize }

func testSettings() domain.Settings {
	s := domain.DefaultSettings()
	s.Destination.APIHost = "acme-be.glean.com"
	s.Destination.DatasourceName = "rootly"
	return s
}

// stubApp counts how often the command tree built the app.
type stubApp struct {
	app   *App
	built int
}

// setupApp replaces newApp with one returning the given fakes.
func setupApp(t *testing.T, coordinator driving.SyncCoordinator, indexer driven.Indexer) *stubApp {
	t.Helper()
	stub := &stubApp{app: &App{
		Settings:    testSettings(),
		Coordinator: coordinator,
		Indexer:     indexer,
		States:      memory.NewSyncStateStore(),
		History:     memory.NewSchedulerStore(),
	}}
	old := newApp
	newApp = func(appOptions) (*App, error) {
		stub.built++
		return stub.app, nil
	}
	t.Cleanup(func() { newApp = old })
	return stub
}

// execute runs the command tree with args and returns its output.
func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return buf.String(), err
}

func succeededReport() *domain.RunReport {
	r := domain.NewRunReport("run-1", testStart)
	r.EndedAt = testStart.Add(1500 * time.Millisecond)
	tr := domain.NewTypeReport(domain.DataTypeIncidents)
	tr.Fetched, tr.Mapped, tr.Uploaded = 3, 3, 3
	r.Add(tr)
	r.Add(domain.SkippedReport(domain.DataTypeAlerts))
	return r
}

func failedReport() *domain.RunReport {
	r := domain.NewRunReport("run-2", testStart)
	r.EndedAt = testStart.Add(time.Second)
	tr := domain.NewTypeReport(domain.DataTypeAlerts)
	tr.Fetched = 2
	tr.Err = domain.ErrAuthInvalid
	r.Add(tr)
	return r
}
