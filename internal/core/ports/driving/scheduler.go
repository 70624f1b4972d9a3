package driving

import "context"

// Scheduler runs the sync periodically in serve mode.
type Scheduler interface {
	// Start runs the first sync immediately and then on every interval.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop waits for a running sync to finish and stops scheduling.
	Stop() error
}
