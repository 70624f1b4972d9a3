package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore is an in-memory implementation of driven.SyncStateStore.
// Watermarks live only as long as the process, which suits serve mode
// without a state directory.
type SyncStateStore struct {
	mu     sync.RWMutex
	states map[domain.DataType]domain.SyncState
}

// NewSyncStateStore creates a new in-memory sync state store.
func NewSyncStateStore() *SyncStateStore {
	return &SyncStateStore{
		states: make(map[domain.DataType]domain.SyncState),
	}
}

// Save stores or updates sync state.
func (s *SyncStateStore) Save(_ context.Context, state domain.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.DataType] = state
	return nil
}

// Get retrieves sync state for a data type.
func (s *SyncStateStore) Get(_ context.Context, dt domain.DataType) (*domain.SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[dt]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

// Delete removes sync state for a data type.
func (s *SyncStateStore) Delete(_ context.Context, dt domain.DataType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, dt)
	return nil
}
