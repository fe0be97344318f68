// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - FeedStore: Feed descriptor persistence
//   - EntityStore: Canonical entity persistence and detail-field discovery
//   - SyncStore: Sync run history and change record persistence
//   - Fetcher: Retrieves and parses feed content from the report server
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Notifier: Outbound sync notifications. Without it, consumers must poll.
//   - SchedulerStore: Scheduler state. Without it, background sync is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
