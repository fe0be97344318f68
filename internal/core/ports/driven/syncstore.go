package driven

import (
	"context"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

// SyncStore persists sync run history and the append-only change log.
type SyncStore interface {
	// CreateRun inserts a new run row.
	CreateRun(ctx context.Context, run *domain.SyncRun) error

	// UpdateRun persists run state. Updating a run whose stored status
	// is already terminal returns domain.ErrRunImmutable.
	UpdateRun(ctx context.Context, run *domain.SyncRun) error

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, id string) (*domain.SyncRun, error)

	// FindActive returns the PENDING or RUNNING run for a feed type,
	// or domain.ErrNotFound when the type is idle.
	FindActive(ctx context.Context, t domain.FeedType) (*domain.SyncRun, error)

	// ListActive returns every PENDING or RUNNING run.
	ListActive(ctx context.Context) ([]domain.SyncRun, error)

	// ListRuns returns history rows matching the filter, newest first.
	ListRuns(ctx context.Context, filter domain.SyncRunFilter) ([]domain.SyncRun, error)

	// LastCompleted returns the most recent COMPLETED run for a type,
	// or domain.ErrNotFound.
	LastCompleted(ctx context.Context, t domain.FeedType) (*domain.SyncRun, error)

	// AppendChanges writes change records for a run. Records are
	// append-only and never mutated afterwards.
	AppendChanges(ctx context.Context, runID string, changes []domain.ChangeRecord) error

	// GetChanges returns a run's change records grouped by entity,
	// in write order.
	GetChanges(ctx context.Context, runID string) ([]domain.EntityChanges, error)

	// ClearHistory deletes all runs and change records as one atomic
	// operation and returns the deleted counts. Clearing an empty
	// history succeeds with zero counts.
	ClearHistory(ctx context.Context) (runs int, changes int, err error)
}
