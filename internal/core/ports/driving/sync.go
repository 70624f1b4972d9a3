package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

// SyncCoordinator runs one synchronisation pass over every enabled data type.
type SyncCoordinator interface {
	// Run performs a full pass and returns the merged report.
	// Only setup failures are returned as errors; per type problems are
	// recorded in the report.
	Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error)
}

// RunOptions customises a single run.
type RunOptions struct {
	// Since applies a modified-since filter to every data type.
	Since *time.Time

	// Resume uses each type's stored watermark when Since is nil.
	Resume bool

	// Only restricts the run to these data types. Empty means all enabled.
	Only []domain.DataType
}
