package services

import (
	"context"
	"sync"

	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
)

// mockFetcher serves canned entries per URL. An optional gate holds Fetch
// until released so tests can observe runs mid-flight.
type mockFetcher struct {
	mu      sync.Mutex
	entries map[string][]domain.FeedEntry
	errs    map[string]error
	gate    chan struct{}
	fetches int
}

var _ driven.Fetcher = (*mockFetcher)(nil)

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		entries: make(map[string][]domain.FeedEntry),
		errs:    make(map[string]error),
	}
}

func (f *mockFetcher) Fetch(ctx context.Context, url string) ([]domain.FeedEntry, error) {
	f.mu.Lock()
	gate := f.gate
	f.fetches++
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	return f.entries[url], nil
}

func (f *mockFetcher) Probe(ctx context.Context, url string) error {
	_, err := f.Fetch(ctx, url)
	return err
}

func (f *mockFetcher) setEntries(url string, fields ...map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []domain.FeedEntry
	for _, m := range fields {
		entries = append(entries, domain.FeedEntry{Fields: m})
	}
	f.entries[url] = entries
}

// mockNotifier records lifecycle events for assertions.
type mockNotifier struct {
	mu        sync.Mutex
	started   []string
	completed []string
	failed    []string
}

var _ driven.Notifier = (*mockNotifier)(nil)

func (n *mockNotifier) SyncStarted(run domain.SyncRun) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started = append(n.started, run.ID)
}

func (n *mockNotifier) SyncProgress(string, int) {}

func (n *mockNotifier) SyncCompleted(run domain.SyncRun) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, run.ID)
}

func (n *mockNotifier) SyncFailed(run domain.SyncRun) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, run.ID)
}

func (n *mockNotifier) failedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.failed)
}

func (n *mockNotifier) completedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.completed)
}
