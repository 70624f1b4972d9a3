package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

// ==================== SchedulerStore Tests ====================

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	now := time.Now().UTC()
	task := &domain.ScheduledTask{
		ID:          domain.TaskIDSync,
		Name:        "Rootly Sync",
		Interval:    45 * time.Minute,
		LastRun:     now.Add(-30 * time.Minute),
		LastError:   "failed: alerts",
		LastSuccess: now.Add(-90 * time.Minute),
	}
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	retrieved, err := schedulerStore.GetTask(ctx, domain.TaskIDSync)
	require.NoError(t, err)
	require.NotNil(t, retrieved)

	assert.Equal(t, task.ID, retrieved.ID)
	assert.Equal(t, task.Name, retrieved.Name)
	assert.Equal(t, task.Interval, retrieved.Interval)
	assert.Equal(t, task.LastError, retrieved.LastError)
	assert.WithinDuration(t, task.LastRun, retrieved.LastRun, time.Microsecond)
	assert.WithinDuration(t, task.LastSuccess, retrieved.LastSuccess, time.Microsecond)
}

func TestSchedulerStore_GetTask_NotFound(t *testing.T) {
	store := setupTestStore(t)

	// Get non-existent task should return nil, nil
	task, err := store.SchedulerStore().GetTask(context.Background(), "non-existent")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestSchedulerStore_SaveTask_Update(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	task := &domain.ScheduledTask{ID: "test-task", Name: "Test Task", Interval: time.Hour, LastError: "boom"}
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	task.Interval = 2 * time.Hour
	task.LastError = ""
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	retrieved, err := schedulerStore.GetTask(ctx, "test-task")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, retrieved.Interval)
	assert.Empty(t, retrieved.LastError)
	assert.True(t, retrieved.LastRun.IsZero())
}

func TestSchedulerStore_NilInput(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.SchedulerStore().SaveTask(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SchedulerStore().RecordResult(ctx, nil), domain.ErrInvalidInput)
}

func TestSchedulerStore_RecordAndGetHistory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range 5 {
		started := base.Add(time.Duration(i) * time.Hour)
		var errMsg string
		if i%2 != 0 {
			errMsg = "failed: alerts"
		}
		require.NoError(t, schedulerStore.RecordResult(ctx, &domain.TaskResult{
			TaskID:         domain.TaskIDSync,
			RunID:          "run-" + string(rune('a'+i)),
			StartedAt:      started,
			EndedAt:        started.Add(90 * time.Second),
			Success:        i%2 == 0,
			Error:          errMsg,
			ItemsProcessed: i * 10,
			ItemsFailed:    i,
		}))
	}

	history, err := schedulerStore.GetTaskHistory(ctx, domain.TaskIDSync, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)

	latest := history[0]
	assert.Equal(t, "run-e", latest.RunID)
	assert.True(t, latest.Success)
	assert.Empty(t, latest.Error)
	assert.Equal(t, 40, latest.ItemsProcessed)
	assert.Equal(t, 4, latest.ItemsFailed)
	assert.True(t, base.Add(4*time.Hour).Equal(latest.StartedAt))
	assert.Equal(t, 90*time.Second, latest.Duration())

	assert.Equal(t, "run-d", history[1].RunID)
	assert.False(t, history[1].Success)
	assert.Equal(t, "failed: alerts", history[1].Error)

	all, err := schedulerStore.GetTaskHistory(ctx, domain.TaskIDSync, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := schedulerStore.GetTaskHistory(ctx, "other", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSchedulerStore_PruneHistory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, taskID := range []string{"a", "b"} {
		for i := range 4 {
			require.NoError(t, schedulerStore.RecordResult(ctx, &domain.TaskResult{
				TaskID:         taskID,
				StartedAt:      base.Add(time.Duration(i) * time.Minute),
				EndedAt:        base.Add(time.Duration(i)*time.Minute + time.Second),
				ItemsProcessed: i,
			}))
		}
	}

	require.NoError(t, schedulerStore.PruneHistory(ctx, 2))

	for _, taskID := range []string{"a", "b"} {
		history, err := schedulerStore.GetTaskHistory(ctx, taskID, 10)
		require.NoError(t, err)
		require.Len(t, history, 2, taskID)
		assert.Equal(t, 3, history[0].ItemsProcessed)
		assert.Equal(t, 2, history[1].ItemsProcessed)
	}
}
