package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
)

// Ensure SyncStore implements the interface.
var _ driven.SyncStore = (*SyncStore)(nil)

// SyncStore is an in-memory implementation of driven.SyncStore.
type SyncStore struct {
	mu      sync.RWMutex
	runs    map[string]domain.SyncRun
	changes map[string][]domain.ChangeRecord
	order   []string
}

// NewSyncStore creates a new in-memory sync store.
func NewSyncStore() *SyncStore {
	return &SyncStore{
		runs:    make(map[string]domain.SyncRun),
		changes: make(map[string][]domain.ChangeRecord),
	}
}

// CreateRun inserts a new run row.
func (s *SyncStore) CreateRun(_ context.Context, run *domain.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.runs[run.ID] = *run
	s.order = append(s.order, run.ID)
	return nil
}

// UpdateRun persists run state. Terminal rows are immutable.
func (s *SyncStore) UpdateRun(_ context.Context, run *domain.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.runs[run.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status.IsTerminal() {
		return domain.ErrRunImmutable
	}
	s.runs[run.ID] = *run
	return nil
}

// GetRun retrieves a run by ID.
func (s *SyncStore) GetRun(_ context.Context, id string) (*domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// FindActive returns the PENDING or RUNNING run for a feed type.
func (s *SyncStore) FindActive(_ context.Context, t domain.FeedType) (*domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, run := range s.runs {
		if run.Type == t && run.Status.IsActive() {
			r := run
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListActive returns every PENDING or RUNNING run.
func (s *SyncStore) ListActive(_ context.Context) ([]domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.SyncRun
	for _, id := range s.order {
		if run := s.runs[id]; run.Status.IsActive() {
			result = append(result, run)
		}
	}
	return result, nil
}

// ListRuns returns history rows matching the filter, newest first.
func (s *SyncStore) ListRuns(_ context.Context, filter domain.SyncRunFilter) ([]domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.SyncRun
	for _, id := range s.order {
		run := s.runs[id]
		if filter.Type != "" && run.Type != filter.Type {
			continue
		}
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		result = append(result, run)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// LastCompleted returns the most recent COMPLETED run for a type.
func (s *SyncStore) LastCompleted(_ context.Context, t domain.FeedType) (*domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *domain.SyncRun
	for _, run := range s.runs {
		if run.Type != t || run.Status != domain.SyncStatusCompleted {
			continue
		}
		r := run
		if latest == nil || r.CompletedAt.After(latest.CompletedAt) {
			latest = &r
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

// AppendChanges writes change records for a run.
func (s *SyncStore) AppendChanges(_ context.Context, runID string, changes []domain.ChangeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes[runID] = append(s.changes[runID], changes...)
	return nil
}

// GetChanges returns a run's change records grouped by entity.
func (s *SyncStore) GetChanges(_ context.Context, runID string) ([]domain.EntityChanges, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type groupKey struct {
		t  domain.EntityType
		id string
	}
	var (
		order  []groupKey
		groups = make(map[groupKey][]domain.ChangeRecord)
	)
	for _, change := range s.changes[runID] {
		key := groupKey{change.EntityType, change.ExternalID}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], change)
	}

	result := make([]domain.EntityChanges, 0, len(order))
	for _, key := range order {
		result = append(result, domain.EntityChanges{
			EntityType: key.t,
			ExternalID: key.id,
			Records:    groups[key],
		})
	}
	return result, nil
}

// ClearHistory deletes all runs and change records.
func (s *SyncStore) ClearHistory(_ context.Context) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := len(s.runs)
	changes := 0
	for _, list := range s.changes {
		changes += len(list)
	}
	s.runs = make(map[string]domain.SyncRun)
	s.changes = make(map[string][]domain.ChangeRecord)
	s.order = nil
	return runs, changes, nil
}
