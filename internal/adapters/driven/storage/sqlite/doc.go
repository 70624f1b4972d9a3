// Package sqlite persists sync state in a local SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single database file backs two store interfaces:
//
//   - SyncStateStore: per data type watermarks used by --resume
//   - SchedulerStore: serve-mode task state and run history
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Applied versions are tracked in schema_migrations.
//
// # Data Location
//
// The database is stored at <state.dir>/state.db.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
