package driven

import "github.com/recsync/recsync-cli/internal/core/domain"

// Notifier receives outbound sync notifications. Calls are
// fire-and-forget and informational only: implementations must not
// block, and consumers must re-query authoritative state rather than
// trust a notification payload to be complete.
type Notifier interface {
	// SyncStarted fires when a run enters RUNNING.
	SyncStarted(run domain.SyncRun)

	// SyncProgress fires periodically while records are processed.
	SyncProgress(runID string, processed int)

	// SyncCompleted fires when a run reaches COMPLETED.
	SyncCompleted(run domain.SyncRun)

	// SyncFailed fires when a run reaches FAILED, including
	// cancellation.
	SyncFailed(run domain.SyncRun)
}
