package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskResultFromReport_Success(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	report := NewRunReport("run-1", start)
	report.EndedAt = start.Add(90 * time.Second)
	report.Add(&TypeReport{DataType: DataTypeIncidents, Enabled: true, Uploaded: 7, Failed: 1})

	result := TaskResultFromReport(TaskIDSync, report)

	assert.Equal(t, TaskIDSync, result.TaskID)
	assert.Equal(t, "run-1", result.RunID)
	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Equal(t, 7, result.ItemsProcessed)
	assert.Equal(t, 1, result.ItemsFailed)
	assert.Equal(t, 90*time.Second, result.Duration())
}

func TestTaskResultFromReport_Failure(t *testing.T) {
	report := NewRunReport("run-2", time.Now())
	report.Add(&TypeReport{DataType: DataTypeAlerts, Enabled: true, Err: ErrAuthInvalid})
	report.Add(&TypeReport{DataType: DataTypeSchedules, Enabled: true, Uploaded: 1})

	result := TaskResultFromReport(TaskIDSync, report)

	assert.False(t, result.Success)
	assert.Equal(t, "failed: alerts", result.Error)
}
