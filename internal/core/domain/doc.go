// Package domain defines the core business entities for Recsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FeedDescriptor: A classified SSRS report feed
//   - Record: A canonical business record as fetched from a feed
//   - Entity: The persisted canonical record keyed by (type, external id)
//   - SyncRun: One execution of the sync state machine, kept as history
//   - ChangeRecord: The field-level audit trail produced by reconciliation
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
