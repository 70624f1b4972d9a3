package domain

import (
	"strings"
	"time"
)

// TaskIDSync identifies the periodic sync task in serve mode.
const TaskIDSync = "rootly-sync"

// ScheduledTask is the persisted state of a recurring task.
type ScheduledTask struct {
	// ID is the unique identifier for the task.
	ID string

	// Name is a human-readable name for the task.
	Name string

	// Interval defines how often the task runs.
	Interval time.Duration

	// LastRun is when the task last ran.
	LastRun time.Time

	// LastError contains the last error message, if any.
	LastError string

	// LastSuccess is when the task last completed without a failed type.
	LastSuccess time.Time
}

// TaskResult is the history entry of one task execution.
type TaskResult struct {
	// TaskID identifies which task was run.
	TaskID string

	// RunID correlates the entry with log lines of the run.
	RunID string

	// StartedAt is when the run started.
	StartedAt time.Time

	// EndedAt is when the run completed.
	EndedAt time.Time

	// Success is false when any enabled data type failed.
	Success bool

	// Error summarises what went wrong if Success is false.
	Error string

	// ItemsProcessed is the number of documents uploaded.
	ItemsProcessed int

	// ItemsFailed is the number of records or documents that failed.
	ItemsFailed int
}

// Duration returns how long the run took.
func (r TaskResult) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// TaskResultFromReport summarises a run report as a history entry.
func TaskResultFromReport(taskID string, report *RunReport) TaskResult {
	result := TaskResult{
		TaskID:         taskID,
		RunID:          report.RunID,
		StartedAt:      report.StartedAt,
		EndedAt:        report.EndedAt,
		Success:        !report.Failed(),
		ItemsProcessed: report.TotalUploaded(),
		ItemsFailed:    report.TotalFailed(),
	}
	if !result.Success {
		var failed []string
		for _, tr := range report.Types {
			if tr.Status() == TypeStatusFailed {
				failed = append(failed, string(tr.DataType))
			}
		}
		result.Error = "failed: " + strings.Join(failed, ", ")
	}
	return result
}
