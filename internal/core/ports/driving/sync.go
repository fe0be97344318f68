package driving

import (
	"context"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

// SyncOrchestrator owns the per-feed-type sync state machine. At most
// one run per type is PENDING or RUNNING at any time; that exclusivity
// is the concurrency-control mechanism protecting the store.
type SyncOrchestrator interface {
	// Request enqueues a sync run for a feed type. If a run for the
	// type is already PENDING or RUNNING its id is returned and no new
	// row is created.
	Request(ctx context.Context, t domain.FeedType, trigger domain.SyncTrigger) (string, error)

	// RequestAll fans out one independent request per syncable type and
	// returns the run ids in SyncableFeedTypes order.
	RequestAll(ctx context.Context, trigger domain.SyncTrigger) ([]string, error)

	// Cancel stops a PENDING or RUNNING run. Cancelling a terminal run
	// returns domain.ErrSyncNotActive.
	Cancel(ctx context.Context, id string) error

	// Status reports the latest completed outcome per type plus every
	// currently active run.
	Status(ctx context.Context) (*SyncStatus, error)

	// History returns run rows matching the filter, newest first.
	History(ctx context.Context, filter domain.SyncRunFilter) ([]domain.SyncRun, error)

	// Changes returns a run's change records grouped by entity.
	Changes(ctx context.Context, runID string) ([]domain.EntityChanges, error)

	// ClearHistory atomically deletes all runs and change records and
	// returns the deleted counts.
	ClearHistory(ctx context.Context) (runs int, changes int, err error)

	// Wait blocks until every active run has finished. Used by the CLI
	// and tests; callers that only enqueue need not wait.
	Wait()
}

// SyncStatus is the aggregate view returned by Status.
type SyncStatus struct {
	// Types summarises the last completed sync per feed type, in
	// SyncableFeedTypes order.
	Types []domain.TypeStatus

	// Active lists every PENDING or RUNNING run.
	Active []domain.SyncRun
}
