package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
)

// Ensure FeedStore implements the interface.
var _ driven.FeedStore = (*FeedStore)(nil)

// FeedStore is an in-memory implementation of driven.FeedStore.
type FeedStore struct {
	mu    sync.RWMutex
	feeds map[string]domain.FeedDescriptor
}

// NewFeedStore creates a new in-memory feed store.
func NewFeedStore() *FeedStore {
	return &FeedStore{
		feeds: make(map[string]domain.FeedDescriptor),
	}
}

// Save stores or updates a feed descriptor.
func (s *FeedStore) Save(_ context.Context, feed *domain.FeedDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds[feed.ID] = *feed
	return nil
}

// Get retrieves a feed by ID.
func (s *FeedStore) Get(_ context.Context, id string) (*domain.FeedDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feed, ok := s.feeds[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &feed, nil
}

// Delete removes a feed.
func (s *FeedStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.feeds, id)
	return nil
}

// List returns all configured feeds in creation order.
func (s *FeedStore) List(_ context.Context) ([]domain.FeedDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.FeedDescriptor, 0, len(s.feeds))
	for _, feed := range s.feeds {
		result = append(result, feed)
	}
	sortFeeds(result)
	return result, nil
}

// ListActiveByType returns the active feeds of one type in creation order.
func (s *FeedStore) ListActiveByType(_ context.Context, t domain.FeedType) ([]domain.FeedDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.FeedDescriptor
	for _, feed := range s.feeds {
		if feed.Type == t && feed.Active {
			result = append(result, feed)
		}
	}
	sortFeeds(result)
	return result, nil
}

func sortFeeds(feeds []domain.FeedDescriptor) {
	sort.Slice(feeds, func(i, j int) bool {
		if feeds[i].CreatedAt.Equal(feeds[j].CreatedAt) {
			return feeds[i].ID < feeds[j].ID
		}
		return feeds[i].CreatedAt.Before(feeds[j].CreatedAt)
	})
}
