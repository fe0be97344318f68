package driven

import (
	"context"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

// Fetcher retrieves feed content from the report server and parses it
// into entries. Implementations must honour context cancellation and
// carry an upper-bound timeout so a hung transport can never wedge a
// sync or a connectivity test.
type Fetcher interface {
	// Fetch retrieves a feed URL and parses its ATOM entries.
	Fetch(ctx context.Context, url string) ([]domain.FeedEntry, error)

	// Probe tests connectivity to a feed URL without interpreting the
	// response beyond a status check.
	Probe(ctx context.Context, url string) error
}
