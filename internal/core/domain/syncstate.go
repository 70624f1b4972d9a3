package domain

import "time"

// SyncState is the persisted watermark for one data type.
type SyncState struct {
	// DataType identifies which family the watermark belongs to.
	DataType DataType

	// Watermark is the start time of the last clean run.
	// Records modified before it were already uploaded.
	Watermark time.Time

	// LastRun is when the data type was last synchronised, clean or not.
	LastRun time.Time
}
