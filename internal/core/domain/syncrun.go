package domain

import "time"

// SyncStatus is the state of a sync run.
type SyncStatus string

const (
	// SyncStatusPending means the run is enqueued but not yet started.
	SyncStatusPending SyncStatus = "PENDING"

	// SyncStatusRunning means the run is actively processing records.
	SyncStatusRunning SyncStatus = "RUNNING"

	// SyncStatusCompleted means the run finished successfully. Terminal.
	SyncStatusCompleted SyncStatus = "COMPLETED"

	// SyncStatusFailed means the run aborted or was cancelled. Terminal.
	// Cancellation is distinguished by SyncRun.Cancelled.
	SyncStatusFailed SyncStatus = "FAILED"
)

// IsValid returns true if the status is recognised.
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusPending, SyncStatusRunning, SyncStatusCompleted, SyncStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the run can no longer change.
func (s SyncStatus) IsTerminal() bool {
	return s == SyncStatusCompleted || s == SyncStatusFailed
}

// IsActive returns true while the run holds its type's exclusivity slot.
func (s SyncStatus) IsActive() bool {
	return s == SyncStatusPending || s == SyncStatusRunning
}

// String returns the string representation.
func (s SyncStatus) String() string {
	return string(s)
}

// SyncTrigger records what initiated a sync run.
type SyncTrigger string

const (
	// TriggerManual is a user-initiated sync.
	TriggerManual SyncTrigger = "manual"

	// TriggerScheduled is a sync started by the background scheduler.
	TriggerScheduled SyncTrigger = "scheduled"

	// TriggerVersionBump is a sync forced by an application upgrade.
	TriggerVersionBump SyncTrigger = "version-bump"
)

// IsValid returns true if the trigger is recognised.
func (t SyncTrigger) IsValid() bool {
	switch t {
	case TriggerManual, TriggerScheduled, TriggerVersionBump:
		return true
	default:
		return false
	}
}

// SyncRun is the history record of one sync execution. At most one run
// per feed type may be PENDING or RUNNING at any time. Once terminal,
// the row is immutable.
type SyncRun struct {
	// ID is the unique identifier for the run.
	ID string

	// Type is the feed type being synced.
	Type FeedType

	// Status is the current state.
	Status SyncStatus

	// Trigger records what initiated the run.
	Trigger SyncTrigger

	// Cancelled marks a FAILED run that terminated by cancellation
	// rather than by error. Cancelled runs are never retried.
	Cancelled bool

	// StartedAt is when the run entered RUNNING.
	StartedAt time.Time

	// CompletedAt is when the run reached a terminal status.
	CompletedAt time.Time

	// RecordsProcessed counts records offered to the reconciler.
	RecordsProcessed int

	// RecordsCreated counts CREATED reconciliation outcomes.
	RecordsCreated int

	// RecordsUpdated counts UPDATED reconciliation outcomes.
	RecordsUpdated int

	// RecordsUnchanged counts UNCHANGED reconciliation outcomes.
	RecordsUnchanged int

	// RecordsFailed counts records that could not be reconciled.
	RecordsFailed int

	// ErrorMessage holds the failure cause for FAILED runs.
	ErrorMessage string

	// CreatedAt is when the run row was enqueued.
	CreatedAt time.Time
}

// SyncRunFilter selects sync runs for history queries.
type SyncRunFilter struct {
	// Type restricts to one feed type when non-empty.
	Type FeedType

	// Status restricts to one status when non-empty.
	Status SyncStatus

	// Limit caps the number of rows returned; 0 means no cap.
	Limit int

	// Offset skips rows for pagination.
	Offset int
}

// TypeStatus summarises the latest sync outcome for one feed type.
type TypeStatus struct {
	// Type is the feed type.
	Type FeedType

	// LastSync is when the type last completed successfully.
	LastSync time.Time

	// LastSyncID is the run id of that completion.
	LastSyncID string

	// RecordsSynced is the processed count of that completion.
	RecordsSynced int
}
