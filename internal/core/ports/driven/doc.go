// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a sync run:
//
//   - RecordFetcher: Pulls records of one data type from Rootly
//   - DocumentMapper: Transforms a record into a destination document
//   - Indexer: Registers the datasource and uploads document batches
//   - SettingsLoader: Loads and validates configuration
//   - SecretsProvider: Supplies the API tokens
//   - SchedulerStore: Run history, serve mode only
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SyncStateStore: Watermark persistence. Without it --resume starts from scratch.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
