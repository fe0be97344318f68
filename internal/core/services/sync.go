package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
	"github.com/recsync/recsync-cli/internal/core/ports/driving"
	"github.com/recsync/recsync-cli/internal/logger"
)

// progressEvery is the record interval between progress notifications.
const progressEvery = 25

var _ driving.SyncOrchestrator = (*SyncService)(nil)

// SyncService coordinates feed synchronisation runs. At most one run per
// feed type is active at a time; requesting a sync for a type that already
// has an active run returns the existing run's ID.
type SyncService struct {
	feedStore  driven.FeedStore
	syncStore  driven.SyncStore
	fetcher    driven.Fetcher
	reconciler *Reconciler
	notifier   driven.Notifier
	settings   domain.Settings

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewSyncService creates a sync orchestrator. The notifier may be nil.
func NewSyncService(
	feedStore driven.FeedStore,
	syncStore driven.SyncStore,
	fetcher driven.Fetcher,
	reconciler *Reconciler,
	notifier driven.Notifier,
	settings domain.Settings,
) *SyncService {
	return &SyncService{
		feedStore:  feedStore,
		syncStore:  syncStore,
		fetcher:    fetcher,
		reconciler: reconciler,
		notifier:   notifier,
		settings:   settings,
		cancels:    make(map[string]context.CancelFunc),
	}
}

// Request enqueues a sync run for the given feed type. If a run for that
// type is already pending or running its ID is returned instead of starting
// a second one.
func (s *SyncService) Request(ctx context.Context, feedType domain.FeedType, trigger domain.SyncTrigger) (string, error) {
	if !feedType.IsSyncable() {
		return "", fmt.Errorf("%w: feed type %q is not syncable", domain.ErrInvalidInput, feedType)
	}
	if trigger == "" {
		trigger = domain.TriggerManual
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.syncStore.FindActive(ctx, feedType)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("failed to check for active run: %w", err)
	}
	if active != nil {
		logger.Debug("Sync for %s already active (run %s)", feedType, active.ID)
		return active.ID, nil
	}

	run := &domain.SyncRun{
		ID:        uuid.New().String(),
		Type:      feedType,
		Status:    domain.SyncStatusPending,
		Trigger:   trigger,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.syncStore.CreateRun(ctx, run); err != nil {
		return "", fmt.Errorf("failed to create sync run: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancels[run.ID] = cancel
	s.wg.Add(1)
	go s.execute(runCtx, run)

	return run.ID, nil
}

// RequestAll enqueues a run for every syncable feed type.
func (s *SyncService) RequestAll(ctx context.Context, trigger domain.SyncTrigger) ([]string, error) {
	var (
		ids  []string
		errs []error
	)
	for _, feedType := range domain.SyncableFeedTypes() {
		id, err := s.Request(ctx, feedType, trigger)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", feedType, err))
			continue
		}
		ids = append(ids, id)
	}
	return ids, errors.Join(errs...)
}

// Cancel marks a run cancelled. The run's worker observes the cancellation
// at its next record boundary; entities committed before that point remain.
func (s *SyncService) Cancel(ctx context.Context, runID string) error {
	run, err := s.syncStore.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status.IsTerminal() {
		return fmt.Errorf("%w: run %s already %s", domain.ErrSyncNotActive, runID, run.Status)
	}

	s.mu.Lock()
	cancel, ok := s.cancels[runID]
	s.mu.Unlock()

	if ok {
		cancel()
		return nil
	}

	// No live worker for this run (stale row from a previous process).
	// Finalise it directly.
	return s.finish(context.Background(), run, domain.SyncStatusFailed, true, "cancelled")
}

// Status reports per-type last-sync summaries plus all currently active runs.
func (s *SyncService) Status(ctx context.Context) (*driving.SyncStatus, error) {
	status := &driving.SyncStatus{}

	for _, feedType := range domain.SyncableFeedTypes() {
		ts := domain.TypeStatus{Type: feedType}
		last, err := s.syncStore.LastCompleted(ctx, feedType)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to load last completed run: %w", err)
		}
		if last != nil {
			ts.LastSyncID = last.ID
			ts.RecordsSynced = last.RecordsProcessed
			ts.LastSync = last.CompletedAt
		}
		status.Types = append(status.Types, ts)
	}

	active, err := s.syncStore.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active runs: %w", err)
	}
	status.Active = active
	return status, nil
}

// History lists past sync runs matching the filter.
func (s *SyncService) History(ctx context.Context, filter domain.SyncRunFilter) ([]domain.SyncRun, error) {
	return s.syncStore.ListRuns(ctx, filter)
}

// Changes returns the change records grouped by entity for a single run.
func (s *SyncService) Changes(ctx context.Context, runID string) ([]domain.EntityChanges, error) {
	if _, err := s.syncStore.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.syncStore.GetChanges(ctx, runID)
}

// ClearHistory removes all terminal runs and their change records.
func (s *SyncService) ClearHistory(ctx context.Context) (int, int, error) {
	return s.syncStore.ClearHistory(ctx)
}

// Wait blocks until all in-flight sync workers have finished.
func (s *SyncService) Wait() {
	s.wg.Wait()
}

// execute is the per-run worker. It owns the run row from RUNNING through
// its terminal state.
func (s *SyncService) execute(ctx context.Context, run *domain.SyncRun) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		if cancel, ok := s.cancels[run.ID]; ok {
			cancel()
			delete(s.cancels, run.ID)
		}
		s.mu.Unlock()
	}()

	now := time.Now().UTC()
	run.Status = domain.SyncStatusRunning
	run.StartedAt = now
	if err := s.syncStore.UpdateRun(ctx, run); err != nil {
		logger.Error("Failed to mark run %s running: %v", run.ID, err)
		cancelled := ctx.Err() != nil
		msg := err.Error()
		if cancelled {
			msg = "cancelled"
		}
		if ferr := s.finish(context.Background(), run, domain.SyncStatusFailed, cancelled, msg); ferr != nil {
			logger.Error("Failed to finalise run %s: %v", run.ID, ferr)
		}
		return
	}
	s.notifyStarted(run)

	if err := s.executeFeeds(ctx, run); err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			logger.Info("Sync run %s cancelled after %d record(s)", run.ID, run.RecordsProcessed)
			if ferr := s.finish(context.Background(), run, domain.SyncStatusFailed, true, "cancelled"); ferr != nil {
				logger.Error("Failed to finalise cancelled run %s: %v", run.ID, ferr)
			}
			return
		}
		logger.Error("Sync run %s failed: %v", run.ID, err)
		if ferr := s.finish(context.Background(), run, domain.SyncStatusFailed, false, err.Error()); ferr != nil {
			logger.Error("Failed to finalise failed run %s: %v", run.ID, ferr)
		}
		return
	}

	// Terminal writes never use the run context: a cancel racing the
	// last record boundary must not leave the row stuck in RUNNING.
	if err := s.finish(context.Background(), run, domain.SyncStatusCompleted, false, ""); err != nil {
		logger.Error("Failed to finalise run %s: %v", run.ID, err)
	}
}

// executeFeeds fetches and reconciles every active feed of the run's type.
func (s *SyncService) executeFeeds(ctx context.Context, run *domain.SyncRun) error {
	feeds, err := s.feedStore.ListActiveByType(ctx, run.Type)
	if err != nil {
		return fmt.Errorf("failed to list feeds: %w", err)
	}
	if len(feeds) == 0 {
		return fmt.Errorf("%w: no active feeds of type %s", domain.ErrNoFeeds, run.Type)
	}

	consecutiveFailures := 0
	threshold := s.settings.FailureThreshold
	if threshold <= 0 {
		threshold = domain.DefaultSettings().FailureThreshold
	}

	for i := range feeds {
		feed := &feeds[i]

		if err := checkCancelled(ctx); err != nil {
			return err
		}

		entries, err := s.fetcher.Fetch(ctx, feed.URL)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return domain.ErrCancelled
			}
			return fmt.Errorf("failed to fetch feed %q: %w", feed.Name, err)
		}
		logger.Info("Fetched %d record(s) from feed %q", len(entries), feed.Name)

		details, err := s.fetchDetailIndex(ctx, feed)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if err := checkCancelled(ctx); err != nil {
				return err
			}

			record, ok := entryToRecord(entry, run.Type)
			if !ok {
				run.RecordsFailed++
				consecutiveFailures++
				logger.Debug("Skipping record with no external id in feed %q", feed.Name)
				if consecutiveFailures >= threshold {
					return fmt.Errorf("aborted after %d consecutive record failures", consecutiveFailures)
				}
				continue
			}

			run.RecordsProcessed++
			result, err := s.reconciler.Reconcile(ctx, record)
			if err != nil {
				run.RecordsFailed++
				consecutiveFailures++
				logger.Debug("Failed to reconcile record %s: %v", record.ExternalID, err)
				if consecutiveFailures >= threshold {
					return fmt.Errorf("aborted after %d consecutive record failures", consecutiveFailures)
				}
				continue
			}
			consecutiveFailures = 0

			switch result.Outcome {
			case OutcomeCreated:
				run.RecordsCreated++
			case OutcomeUpdated:
				run.RecordsUpdated++
			case OutcomeUnchanged:
				run.RecordsUnchanged++
			}

			if result.Change != nil {
				result.Change.SyncRunID = run.ID
				if err := s.syncStore.AppendChanges(ctx, run.ID, []domain.ChangeRecord{*result.Change}); err != nil {
					return fmt.Errorf("failed to record changes: %w", err)
				}
			}

			if detail, ok := details[record.ExternalID]; ok {
				if _, err := s.reconciler.MergeDetail(ctx, result.Entity, detail); err != nil {
					logger.Debug("Failed to merge detail for %s: %v", record.ExternalID, err)
				}
			}

			if run.RecordsProcessed%progressEvery == 0 {
				s.notifyProgress(run)
				if err := s.syncStore.UpdateRun(ctx, run); err != nil {
					logger.Debug("Failed to checkpoint run %s: %v", run.ID, err)
				}
			}
		}

		feed.LastSync = time.Now().UTC()
		if err := s.feedStore.Save(ctx, feed); err != nil {
			logger.Error("Failed to record last sync for feed %q: %v", feed.Name, err)
		}
	}

	return nil
}

// fetchDetailIndex fetches the linked detail feed, if any, and indexes its
// records by external ID for merging during reconciliation.
func (s *SyncService) fetchDetailIndex(ctx context.Context, feed *domain.FeedDescriptor) (map[string]map[string]string, error) {
	if feed.DetailFeedID == "" {
		return nil, nil
	}

	detailFeed, err := s.feedStore.Get(ctx, feed.DetailFeedID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Error("Feed %q links missing detail feed %s", feed.Name, feed.DetailFeedID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load detail feed: %w", err)
	}

	entries, err := s.fetcher.Fetch(ctx, detailFeed.URL)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, domain.ErrCancelled
		}
		logger.Error("Failed to fetch detail feed %q: %v", detailFeed.Name, err)
		return nil, nil
	}

	entityType, ok := feed.Type.EntityType()
	if !ok {
		return nil, nil
	}

	index := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		id := externalID(entry.Fields, entityType)
		if id == "" {
			continue
		}
		index[id] = entry.Fields
	}
	logger.Debug("Indexed %d detail record(s) from feed %q", len(index), detailFeed.Name)
	return index, nil
}

// finish writes the terminal state of a run.
func (s *SyncService) finish(ctx context.Context, run *domain.SyncRun, status domain.SyncStatus, cancelled bool, errMsg string) error {
	now := time.Now().UTC()
	run.Status = status
	run.Cancelled = cancelled
	run.CompletedAt = now
	run.ErrorMessage = errMsg
	if err := s.syncStore.UpdateRun(ctx, run); err != nil {
		return err
	}

	if status == domain.SyncStatusFailed {
		s.notifyFailed(run)
	} else {
		s.notifyCompleted(run)
	}
	return nil
}

func (s *SyncService) notifyStarted(run *domain.SyncRun) {
	if s.notifier != nil {
		s.notifier.SyncStarted(*run)
	}
}

func (s *SyncService) notifyProgress(run *domain.SyncRun) {
	if s.notifier != nil {
		s.notifier.SyncProgress(run.ID, run.RecordsProcessed)
	}
}

func (s *SyncService) notifyCompleted(run *domain.SyncRun) {
	if s.notifier != nil {
		s.notifier.SyncCompleted(*run)
	}
}

func (s *SyncService) notifyFailed(run *domain.SyncRun) {
	if s.notifier != nil {
		s.notifier.SyncFailed(*run)
	}
}

// entryToRecord converts a fetched entry into a record, resolving the
// external ID from the type's candidate field names.
func entryToRecord(entry domain.FeedEntry, feedType domain.FeedType) (domain.Record, bool) {
	entityType, ok := feedType.EntityType()
	if !ok {
		return domain.Record{}, false
	}
	id := externalID(entry.Fields, entityType)
	if id == "" {
		return domain.Record{}, false
	}
	return domain.Record{
		Type:       entityType,
		ExternalID: id,
		Fields:     entry.Fields,
		Raw:        entry.Raw,
	}, true
}

// externalID returns the first non-empty candidate ID field value.
func externalID(fields map[string]string, entityType domain.EntityType) string {
	for _, name := range domain.ExternalIDFields(entityType) {
		if v, ok := fields[name]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return domain.ErrCancelled
	default:
		return nil
	}
}
