package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recsync/recsync-cli/internal/atomsvc"
	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
	"github.com/recsync/recsync-cli/internal/core/ports/driving"
	"github.com/recsync/recsync-cli/internal/logger"
)

var _ driving.FeedService = (*FeedsService)(nil)

// FeedsService manages feed descriptors: importing ATOMSVC documents,
// classification overrides, detail linkage and portable templates.
type FeedsService struct {
	feedStore driven.FeedStore
	fetcher   driven.Fetcher
	settings  domain.Settings
}

// NewFeedsService creates a feed management service.
func NewFeedsService(feedStore driven.FeedStore, fetcher driven.Fetcher, settings domain.Settings) *FeedsService {
	return &FeedsService{
		feedStore: feedStore,
		fetcher:   fetcher,
		settings:  settings,
	}
}

// List returns all configured feeds.
func (s *FeedsService) List(ctx context.Context) ([]domain.FeedDescriptor, error) {
	return s.feedStore.List(ctx)
}

// Import parses an ATOMSVC document and persists every feed it yields.
// Collections that were skipped or failed to parse are logged but do not
// block the rest; an unrecognised or malformed document stores nothing.
func (s *FeedsService) Import(ctx context.Context, content string, typeOverride domain.FeedType) ([]domain.FeedDescriptor, error) {
	if typeOverride != "" && !typeOverride.IsValid() {
		return nil, fmt.Errorf("%w: unknown feed type %q", domain.ErrInvalidInput, typeOverride)
	}

	outcomes, err := atomsvc.Parse(content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var imported []domain.FeedDescriptor
	for _, outcome := range outcomes {
		switch outcome.Kind {
		case domain.OutcomeSkipped:
			logger.Debug("Skipped collection: %s", outcome.Reason)
		case domain.OutcomeFailed:
			logger.Error("Failed to parse collection: %v", outcome.Err)
		case domain.OutcomeFound:
			feed := outcome.Descriptor
			feed.ID = uuid.New().String()
			feed.Active = true
			feed.CreatedAt = now
			feed.UpdatedAt = now
			if typeOverride != "" {
				feed.Type = typeOverride
			}
			if err := s.feedStore.Save(ctx, &feed); err != nil {
				return imported, fmt.Errorf("failed to save feed %q: %w", feed.Name, err)
			}
			imported = append(imported, feed)
		}
	}

	logger.Info("Imported %d feed(s)", len(imported))
	return imported, nil
}

// ImportFile reads an ATOMSVC document from disk and imports it.
func (s *FeedsService) ImportFile(ctx context.Context, path string, typeOverride domain.FeedType) ([]domain.FeedDescriptor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.Import(ctx, string(content), typeOverride)
}

// Get retrieves a feed by ID.
func (s *FeedsService) Get(ctx context.Context, id string) (*domain.FeedDescriptor, error) {
	return s.feedStore.Get(ctx, id)
}

// Delete removes a feed and clears any detail links that reference it.
func (s *FeedsService) Delete(ctx context.Context, id string) error {
	feed, err := s.feedStore.Get(ctx, id)
	if err != nil {
		return err
	}

	if feed.Type == domain.FeedTypeProjectDetail {
		linked, err := s.linkedParents(ctx, id)
		if err != nil {
			return err
		}
		for i := range linked {
			linked[i].DetailFeedID = ""
			linked[i].UpdatedAt = time.Now().UTC()
			if err := s.feedStore.Save(ctx, &linked[i]); err != nil {
				return fmt.Errorf("failed to clear detail link on %q: %w", linked[i].Name, err)
			}
		}
	}

	return s.feedStore.Delete(ctx, id)
}

// Test fetches a feed URL without persisting anything and reports the
// classified type plus the number of entries the feed returned.
func (s *FeedsService) Test(ctx context.Context, url string) (domain.FeedType, int, error) {
	if strings.TrimSpace(url) == "" {
		return "", 0, fmt.Errorf("%w: url is empty", domain.ErrInvalidInput)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout())
	defer cancel()

	entries, err := s.fetcher.Fetch(fetchCtx, url)
	if err != nil {
		return "", 0, err
	}
	return atomsvc.Classify(url, ""), len(entries), nil
}

// Probe checks connectivity to a feed URL with a status check only,
// skipping the body download a full Test performs.
func (s *FeedsService) Probe(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: url is empty", domain.ErrInvalidInput)
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout())
	defer cancel()

	return s.fetcher.Probe(probeCtx, url)
}

// Rename changes a feed's display name.
func (s *FeedsService) Rename(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", domain.ErrInvalidInput)
	}
	feed, err := s.feedStore.Get(ctx, id)
	if err != nil {
		return err
	}
	feed.Name = strings.TrimSpace(name)
	feed.UpdatedAt = time.Now().UTC()
	return s.feedStore.Save(ctx, feed)
}

// Retype changes a feed's type. Moving a PROJECTS feed to another type
// drops its detail link; a PROJECT_DETAIL feed that is still linked from
// a PROJECTS feed cannot be retyped.
func (s *FeedsService) Retype(ctx context.Context, id string, t domain.FeedType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: unknown feed type %q", domain.ErrInvalidInput, t)
	}
	feed, err := s.feedStore.Get(ctx, id)
	if err != nil {
		return err
	}
	if feed.Type == t {
		return nil
	}

	if feed.Type == domain.FeedTypeProjectDetail {
		linked, err := s.linkedParents(ctx, id)
		if err != nil {
			return err
		}
		if len(linked) > 0 {
			return fmt.Errorf("%w: feed %q is linked as a detail feed; unlink it first", domain.ErrInvalidInput, feed.Name)
		}
	}

	if feed.Type == domain.FeedTypeProjects {
		feed.DetailFeedID = ""
	}
	feed.Type = t
	feed.UpdatedAt = time.Now().UTC()
	return s.feedStore.Save(ctx, feed)
}

// SetActive enables or disables a feed.
func (s *FeedsService) SetActive(ctx context.Context, id string, active bool) error {
	feed, err := s.feedStore.Get(ctx, id)
	if err != nil {
		return err
	}
	feed.Active = active
	feed.UpdatedAt = time.Now().UTC()
	return s.feedStore.Save(ctx, feed)
}

// LinkDetail links a PROJECT_DETAIL feed to a PROJECTS feed.
func (s *FeedsService) LinkDetail(ctx context.Context, feedID, detailFeedID string) error {
	feed, err := s.feedStore.Get(ctx, feedID)
	if err != nil {
		return err
	}
	if !feed.CanLinkDetail() {
		return fmt.Errorf("%w: only PROJECTS feeds can link a detail feed", domain.ErrInvalidInput)
	}

	detail, err := s.feedStore.Get(ctx, detailFeedID)
	if err != nil {
		return err
	}
	if detail.Type != domain.FeedTypeProjectDetail {
		return fmt.Errorf("%w: feed %q is not a PROJECT_DETAIL feed", domain.ErrInvalidInput, detail.Name)
	}

	feed.DetailFeedID = detailFeedID
	feed.UpdatedAt = time.Now().UTC()
	return s.feedStore.Save(ctx, feed)
}

// UnlinkDetail clears a PROJECTS feed's detail link.
func (s *FeedsService) UnlinkDetail(ctx context.Context, feedID string) error {
	feed, err := s.feedStore.Get(ctx, feedID)
	if err != nil {
		return err
	}
	if feed.DetailFeedID == "" {
		return nil
	}
	feed.DetailFeedID = ""
	feed.UpdatedAt = time.Now().UTC()
	return s.feedStore.Save(ctx, feed)
}

// ListDetailFeeds returns all PROJECT_DETAIL feeds.
func (s *FeedsService) ListDetailFeeds(ctx context.Context) ([]domain.FeedDescriptor, error) {
	feeds, err := s.feedStore.List(ctx)
	if err != nil {
		return nil, err
	}
	var details []domain.FeedDescriptor
	for _, feed := range feeds {
		if feed.Type == domain.FeedTypeProjectDetail {
			details = append(details, feed)
		}
	}
	return details, nil
}

// ExportTemplates renders every feed as a portable template. Local state
// (ids, activity, sync timestamps, links) is deliberately not exported.
func (s *FeedsService) ExportTemplates(ctx context.Context) ([]domain.FeedTemplate, error) {
	feeds, err := s.feedStore.List(ctx)
	if err != nil {
		return nil, err
	}
	templates := make([]domain.FeedTemplate, 0, len(feeds))
	for _, feed := range feeds {
		templates = append(templates, domain.FeedTemplate{
			Name: feed.Name,
			URL:  feed.URL,
			Type: feed.Type,
		})
	}
	return templates, nil
}

// ImportTemplates creates feeds from templates. Templates whose URL is
// already configured are skipped so re-imports stay idempotent.
func (s *FeedsService) ImportTemplates(ctx context.Context, templates []domain.FeedTemplate) ([]domain.FeedDescriptor, error) {
	existing, err := s.feedStore.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, feed := range existing {
		seen[feed.URL] = struct{}{}
	}

	now := time.Now().UTC()
	var created []domain.FeedDescriptor
	for _, tmpl := range templates {
		if !tmpl.Type.IsValid() {
			return created, fmt.Errorf("%w: template %q has unknown type %q", domain.ErrInvalidInput, tmpl.Name, tmpl.Type)
		}
		if _, ok := seen[tmpl.URL]; ok {
			logger.Debug("Skipping template %q: url already configured", tmpl.Name)
			continue
		}
		feed := domain.FeedDescriptor{
			ID:        uuid.New().String(),
			Name:      tmpl.Name,
			Type:      tmpl.Type,
			URL:       tmpl.URL,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.feedStore.Save(ctx, &feed); err != nil {
			return created, fmt.Errorf("failed to save feed %q: %w", feed.Name, err)
		}
		seen[feed.URL] = struct{}{}
		created = append(created, feed)
	}
	return created, nil
}

// DebugFetchDetail fetches one entity's detail payload through a feed's
// linked detail feed without persisting anything.
func (s *FeedsService) DebugFetchDetail(ctx context.Context, feedID, externalIDValue string) (map[string]string, error) {
	feed, err := s.feedStore.Get(ctx, feedID)
	if err != nil {
		return nil, err
	}
	if feed.DetailFeedID == "" {
		return nil, fmt.Errorf("%w: feed %q has no detail feed linked", domain.ErrInvalidInput, feed.Name)
	}
	detailFeed, err := s.feedStore.Get(ctx, feed.DetailFeedID)
	if err != nil {
		return nil, err
	}
	entityType, ok := feed.Type.EntityType()
	if !ok {
		return nil, fmt.Errorf("%w: feed type %s has no entity type", domain.ErrInvalidInput, feed.Type)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout())
	defer cancel()

	entries, err := s.fetcher.Fetch(fetchCtx, detailFeed.URL)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if externalID(entry.Fields, entityType) == externalIDValue {
			return entry.Fields, nil
		}
	}
	return nil, fmt.Errorf("%w: no detail record for %s", domain.ErrNotFound, externalIDValue)
}

// linkedParents returns the PROJECTS feeds whose detail link points at id.
func (s *FeedsService) linkedParents(ctx context.Context, id string) ([]domain.FeedDescriptor, error) {
	feeds, err := s.feedStore.List(ctx)
	if err != nil {
		return nil, err
	}
	var linked []domain.FeedDescriptor
	for _, feed := range feeds {
		if feed.DetailFeedID == id {
			linked = append(linked, feed)
		}
	}
	return linked, nil
}

func (s *FeedsService) fetchTimeout() time.Duration {
	if s.settings.FetchTimeout > 0 {
		return s.settings.FetchTimeout
	}
	return domain.DefaultSettings().FetchTimeout
}
