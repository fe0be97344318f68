// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The sync orchestrator and reconciler form the write path; feeds,
// diagnostics and settings are thin coordination layers over the stores.
package services
