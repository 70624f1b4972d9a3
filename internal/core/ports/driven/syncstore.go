package driven

import (
	"context"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

// SyncStateStore persists per data type watermarks.
type SyncStateStore interface {
	// Save stores or updates sync state.
	Save(ctx context.Context, state domain.SyncState) error

	// Get retrieves sync state for a data type.
	// Returns domain.ErrNotFound if nothing was saved yet.
	Get(ctx context.Context, dt domain.DataType) (*domain.SyncState, error)

	// Delete removes sync state for a data type.
	Delete(ctx context.Context, dt domain.DataType) error
}
