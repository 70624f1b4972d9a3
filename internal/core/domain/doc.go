// Package domain defines the core business entities for rootly-sync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DataType: One of the synchronised Rootly record families
//   - Record: A validated source record (Incident, Alert, ...)
//   - Document: A destination search document
//   - RunReport: The outcome of a sync run, per data type
//   - Settings: Validated runtime configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
