package driven

import (
	"context"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

// SchedulerStore persists serve-mode task state and run history.
type SchedulerStore interface {
	// GetTask returns the task, or nil and no error when it was never saved.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// SaveTask upserts the task by ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// RecordResult appends one run to the history.
	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// GetTaskHistory returns up to limit runs, newest first.
	// A limit of zero or less returns every run.
	GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)

	// PruneHistory keeps the newest keep runs of each task.
	PruneHistory(ctx context.Context, keep int) error
}
