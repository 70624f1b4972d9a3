package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	store *Store
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

// Save stores or updates sync state.
func (s *syncStateStore) Save(ctx context.Context, state domain.SyncState) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_state (data_type, watermark, last_run)
		VALUES (?, ?, ?)
		ON CONFLICT(data_type) DO UPDATE SET
			watermark = excluded.watermark,
			last_run = excluded.last_run
	`, string(state.DataType), formatNullableTime(state.Watermark), formatNullableTime(state.LastRun))

	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}
	return nil
}

// Get retrieves sync state for a data type.
func (s *syncStateStore) Get(ctx context.Context, dt domain.DataType) (*domain.SyncState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT data_type, watermark, last_run
		FROM sync_state WHERE data_type = ?
	`, string(dt))

	var dataType string
	var watermark, lastRun sql.NullString
	if err := row.Scan(&dataType, &watermark, &lastRun); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning sync state: %w", err)
	}

	return &domain.SyncState{
		DataType:  domain.DataType(dataType),
		Watermark: parseNullableTime(watermark),
		LastRun:   parseNullableTime(lastRun),
	}, nil
}

// Delete removes sync state for a data type.
func (s *syncStateStore) Delete(ctx context.Context, dt domain.DataType) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sync_state WHERE data_type = ?", string(dt))
	if err != nil {
		return fmt.Errorf("deleting sync state: %w", err)
	}
	return nil
}
