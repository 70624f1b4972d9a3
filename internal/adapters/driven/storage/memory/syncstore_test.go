package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

func TestNewSyncStateStore(t *testing.T) {
	store := NewSyncStateStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.states)
}

func TestSyncStateStore_SaveAndGet(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	now := time.Now()
	state := domain.SyncState{
		DataType:  domain.DataTypeIncidents,
		Watermark: now.Add(-time.Minute),
		LastRun:   now,
	}

	require.NoError(t, store.Save(ctx, state))

	saved, err := store.Get(ctx, domain.DataTypeIncidents)
	require.NoError(t, err)
	assert.Equal(t, state, *saved)
}

func TestSyncStateStore_Save_Update(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	time1 := time.Now()
	time2 := time1.Add(time.Hour)

	require.NoError(t, store.Save(ctx, domain.SyncState{DataType: domain.DataTypeAlerts, Watermark: time1}))
	require.NoError(t, store.Save(ctx, domain.SyncState{DataType: domain.DataTypeAlerts, Watermark: time2}))

	saved, err := store.Get(ctx, domain.DataTypeAlerts)
	require.NoError(t, err)
	assert.Equal(t, time2, saved.Watermark)
}

func TestSyncStateStore_TypesAreIndependent(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	now := time.Now()
	for i, dt := range domain.AllDataTypes() {
		require.NoError(t, store.Save(ctx, domain.SyncState{DataType: dt, Watermark: now.Add(time.Duration(i) * time.Hour)}))
	}

	for i, dt := range domain.AllDataTypes() {
		saved, err := store.Get(ctx, dt)
		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Duration(i)*time.Hour), saved.Watermark)
	}
}

func TestSyncStateStore_Get_NotFound(t *testing.T) {
	store := NewSyncStateStore()

	state, err := store.Get(context.Background(), domain.DataTypeSchedules)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, state)
}

func TestSyncStateStore_Get_ReturnsCopy(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.SyncState{DataType: domain.DataTypeIncidents}))

	saved, err := store.Get(ctx, domain.DataTypeIncidents)
	require.NoError(t, err)
	saved.Watermark = time.Now()

	again, err := store.Get(ctx, domain.DataTypeIncidents)
	require.NoError(t, err)
	assert.True(t, again.Watermark.IsZero())
}

func TestSyncStateStore_Delete(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.SyncState{DataType: domain.DataTypeIncidents}))

	require.NoError(t, store.Delete(ctx, domain.DataTypeIncidents))
	require.NoError(t, store.Delete(ctx, domain.DataTypeIncidents))

	_, err := store.Get(ctx, domain.DataTypeIncidents)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncStateStore_Concurrent(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, dt := range domain.AllDataTypes() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_ = store.Save(ctx, domain.SyncState{DataType: dt, LastRun: time.Now()})
				_, _ = store.Get(ctx, dt)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, store.states, len(domain.AllDataTypes()))
}
