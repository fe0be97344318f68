package driving

import (
	"context"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

// Diagnostics provides read-only aggregate reports over persisted
// state. Calls are pure, deterministic projections with no write path.
type Diagnostics interface {
	// FeedLinkage summarises feeds and their detail links, including
	// dangling and inactive link targets.
	FeedLinkage(ctx context.Context) (*domain.FeedLinkageSummary, error)

	// DetailFieldCoverage reports, for every discovered detail field,
	// how many of up to sampleSize sampled projects carry it.
	DetailFieldCoverage(ctx context.Context, sampleSize int) ([]domain.DetailFieldCoverage, error)
}
