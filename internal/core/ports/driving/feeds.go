package driving

import (
	"context"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

// FeedService manages feed descriptors: import, classification,
// linkage, templates, and connectivity tests.
type FeedService interface {
	// List returns all configured feeds.
	List(ctx context.Context) ([]domain.FeedDescriptor, error)

	// Import parses ATOMSVC document content and persists the resulting
	// descriptors. A parse failure aborts before anything is stored.
	// typeOverride, when valid, replaces the inferred type on every
	// imported feed; pass empty to keep classification.
	Import(ctx context.Context, content string, typeOverride domain.FeedType) ([]domain.FeedDescriptor, error)

	// ImportFile reads and imports an ATOMSVC document from disk.
	ImportFile(ctx context.Context, path string, typeOverride domain.FeedType) ([]domain.FeedDescriptor, error)

	// Get retrieves a feed by ID.
	Get(ctx context.Context, id string) (*domain.FeedDescriptor, error)

	// Delete removes a feed. Detail links pointing at it are cleared.
	Delete(ctx context.Context, id string) error

	// Test fetches and classifies a feed URL without persisting
	// anything, bounded by the configured fetch timeout. Returns the
	// inferred type and the number of entries seen.
	Test(ctx context.Context, url string) (domain.FeedType, int, error)

	// Probe checks connectivity to a feed URL without downloading or
	// interpreting the response body, bounded by the configured fetch
	// timeout.
	Probe(ctx context.Context, url string) error

	// Rename changes a feed's display name.
	Rename(ctx context.Context, id, name string) error

	// Retype changes a feed's type. Retyping a PROJECTS feed away from
	// PROJECTS clears its detail link; retyping a linked PROJECT_DETAIL
	// target is rejected while links reference it.
	Retype(ctx context.Context, id string, t domain.FeedType) error

	// SetActive enables or disables a feed.
	SetActive(ctx context.Context, id string, active bool) error

	// LinkDetail links a PROJECT_DETAIL feed to a PROJECTS feed.
	LinkDetail(ctx context.Context, feedID, detailFeedID string) error

	// UnlinkDetail clears a PROJECTS feed's detail link.
	UnlinkDetail(ctx context.Context, feedID string) error

	// ListDetailFeeds returns all PROJECT_DETAIL feeds.
	ListDetailFeeds(ctx context.Context) ([]domain.FeedDescriptor, error)

	// ExportTemplates renders all feeds as portable templates.
	ExportTemplates(ctx context.Context) ([]domain.FeedTemplate, error)

	// ImportTemplates creates feeds from templates, skipping templates
	// whose URL already exists. Returns the created descriptors.
	ImportTemplates(ctx context.Context, templates []domain.FeedTemplate) ([]domain.FeedDescriptor, error)

	// DebugFetchDetail fetches a single entity's detail payload from a
	// linked detail feed without persisting it.
	DebugFetchDetail(ctx context.Context, feedID, externalID string) (map[string]string, error)
}
