package driven

import (
	"context"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

// FeedStore persists feed descriptors.
type FeedStore interface {
	// Save stores or updates a feed descriptor.
	Save(ctx context.Context, feed *domain.FeedDescriptor) error

	// Get retrieves a feed by ID.
	Get(ctx context.Context, id string) (*domain.FeedDescriptor, error)

	// Delete removes a feed.
	Delete(ctx context.Context, id string) error

	// List returns all configured feeds.
	List(ctx context.Context) ([]domain.FeedDescriptor, error)

	// ListActiveByType returns the active feeds of one type,
	// in creation order.
	ListActiveByType(ctx context.Context, t domain.FeedType) ([]domain.FeedDescriptor, error)
}
