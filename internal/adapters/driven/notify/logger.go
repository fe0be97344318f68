// Package notify provides driven.Notifier implementations for observing
// sync run lifecycle events.
package notify

import (
	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
	"github.com/recsync/recsync-cli/internal/logger"
)

// Ensure LogNotifier implements the interface.
var _ driven.Notifier = (*LogNotifier)(nil)

// LogNotifier writes sync lifecycle events to the application log.
type LogNotifier struct{}

// NewLogNotifier creates a logging notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SyncStarted logs a run entering RUNNING.
func (n *LogNotifier) SyncStarted(run domain.SyncRun) {
	logger.Info("Sync started: %s (%s, %s)", run.ID, run.Type, run.Trigger)
}

// SyncProgress logs periodic record progress.
func (n *LogNotifier) SyncProgress(runID string, processed int) {
	logger.Debug("Sync %s processed %d record(s)", runID, processed)
}

// SyncCompleted logs a successful completion with outcome counts.
func (n *LogNotifier) SyncCompleted(run domain.SyncRun) {
	logger.Info("Sync completed: %s (%d processed, %d created, %d updated, %d unchanged, %d failed)",
		run.ID, run.RecordsProcessed, run.RecordsCreated, run.RecordsUpdated,
		run.RecordsUnchanged, run.RecordsFailed)
}

// SyncFailed logs a failed or cancelled run.
func (n *LogNotifier) SyncFailed(run domain.SyncRun) {
	if run.Cancelled {
		logger.Info("Sync cancelled: %s after %d record(s)", run.ID, run.RecordsProcessed)
		return
	}
	logger.Error("Sync failed: %s: %s", run.ID, run.ErrorMessage)
}
