package ssrs

import (
	"context"
	"fmt"
	"time"

	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves and parses SSRS ATOM data feeds.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: NewClient(timeout)}
}

// Fetch retrieves a feed URL and parses its entries.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]domain.FeedEntry, error) {
	if url == "" {
		return nil, fmt.Errorf("fetch feed: %w", domain.ErrInvalidInput)
	}

	body, err := f.client.GetFeed(ctx, url)
	if err != nil {
		return nil, err
	}

	return ParseEntries(body)
}

// Probe tests connectivity to a feed URL.
func (f *Fetcher) Probe(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("probe feed: %w", domain.ErrInvalidInput)
	}
	return f.client.Probe(ctx, url)
}
