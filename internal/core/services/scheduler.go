package services

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driving"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// DefaultHistoryLimit is the number of run results kept per task.
const DefaultHistoryLimit = 100

// Scheduler runs the sync on a fixed interval in serve mode.
// Runs never overlap: a tick that fires while a run is in progress is skipped.
type Scheduler struct {
	interval     time.Duration
	store        driven.SchedulerStore
	coordinator  driving.SyncCoordinator
	runOpts      driving.RunOptions
	historyLimit int

	// OnReport, if set, receives every completed run report.
	OnReport func(*domain.RunReport)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	cron    *cron.Cron
	wg      sync.WaitGroup

	now func() time.Time
}

// NewScheduler creates a scheduler that triggers coordinator every interval.
func NewScheduler(
	interval time.Duration,
	store driven.SchedulerStore,
	coordinator driving.SyncCoordinator,
	runOpts driving.RunOptions,
) *Scheduler {
	return &Scheduler{
		interval:     interval,
		store:        store,
		coordinator:  coordinator,
		runOpts:      runOpts,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
	}
}

// Start runs the first sync immediately and then every interval.
// This method blocks until Stop is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.cron = cron.New(cron.WithLogger(cronLogger{}))
	stopCh := s.stopCh
	s.mu.Unlock()

	if err := s.ensureTask(ctx); err != nil {
		logger.Warn("scheduler: failed to initialise task: %v", err)
	}

	job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{})).
		Then(cron.FuncJob(func() { s.runOnce(ctx) }))

	s.cron.Schedule(cron.Every(s.interval), job)
	s.cron.Start()
	logger.Info("scheduler: syncing every %s", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()

	select {
	case <-ctx.Done():
		s.halt()
		return ctx.Err()
	case <-stopCh:
		return nil
	}
}

// Stop stops scheduling and waits for a running sync to finish.
func (s *Scheduler) Stop() error {
	s.halt()
	return nil
}

func (s *Scheduler) halt() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	c := s.cron
	s.mu.Unlock()

	<-c.Stop().Done()
	s.wg.Wait()
}

// ensureTask creates or updates the sync task in the store.
func (s *Scheduler) ensureTask(ctx context.Context) error {
	task, err := s.store.GetTask(ctx, domain.TaskIDSync)
	if err != nil {
		return err
	}
	if task == nil {
		task = &domain.ScheduledTask{
			ID:   domain.TaskIDSync,
			Name: "Rootly Sync",
		}
	}
	task.Interval = s.interval
	return s.store.SaveTask(ctx, task)
}

// runOnce performs a single run and records it in the task history.
func (s *Scheduler) runOnce(ctx context.Context) {
	startedAt := s.now()
	report, err := s.coordinator.Run(ctx, s.runOpts)

	var result domain.TaskResult
	if err != nil {
		logger.Error("scheduler: sync failed: %v", err)
		result = domain.TaskResult{
			TaskID:    domain.TaskIDSync,
			StartedAt: startedAt,
			EndedAt:   s.now(),
			Error:     err.Error(),
		}
	} else {
		result = domain.TaskResultFromReport(domain.TaskIDSync, report)
	}

	// Store writes must outlive a cancelled run context.
	storeCtx := context.WithoutCancel(ctx)

	task, getErr := s.store.GetTask(storeCtx, domain.TaskIDSync)
	if getErr != nil {
		logger.Warn("scheduler: failed to load task: %v", getErr)
	}
	if task == nil {
		task = &domain.ScheduledTask{ID: domain.TaskIDSync, Name: "Rootly Sync"}
	}
	task.Interval = s.interval
	task.LastRun = result.StartedAt
	if result.Success {
		task.LastError = ""
		task.LastSuccess = result.EndedAt
	} else {
		task.LastError = result.Error
	}

	if saveErr := s.store.SaveTask(storeCtx, task); saveErr != nil {
		logger.Warn("scheduler: failed to save task %s: %v", task.ID, saveErr)
	}
	if recordErr := s.store.RecordResult(storeCtx, &result); recordErr != nil {
		logger.Warn("scheduler: failed to record result for %s: %v", task.ID, recordErr)
	}
	if pruneErr := s.store.PruneHistory(storeCtx, s.historyLimit); pruneErr != nil {
		logger.Warn("scheduler: failed to prune history: %v", pruneErr)
	}

	if report != nil && s.OnReport != nil {
		s.OnReport(report)
	}
}

// cronLogger routes cron's internal messages to the process logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.With(keysAndValues...).Debugw("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.With(keysAndValues...).Errorw("cron: "+msg, "error", err)
}
