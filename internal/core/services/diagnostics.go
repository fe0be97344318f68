package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
	"github.com/recsync/recsync-cli/internal/core/ports/driving"
)

// defaultCoverageSample bounds the entity scan when no sample size is given.
const defaultCoverageSample = 100

var _ driving.Diagnostics = (*DiagnosticsService)(nil)

// DiagnosticsService computes read-only reports over feeds and entities.
type DiagnosticsService struct {
	feedStore   driven.FeedStore
	entityStore driven.EntityStore
}

// NewDiagnosticsService creates a diagnostics service.
func NewDiagnosticsService(feedStore driven.FeedStore, entityStore driven.EntityStore) *DiagnosticsService {
	return &DiagnosticsService{
		feedStore:   feedStore,
		entityStore: entityStore,
	}
}

// FeedLinkage summarises configured feeds and their detail links.
func (s *DiagnosticsService) FeedLinkage(ctx context.Context) (*domain.FeedLinkageSummary, error) {
	feeds, err := s.feedStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}

	summary := &domain.FeedLinkageSummary{
		TotalFeeds: len(feeds),
		ByType:     make(map[domain.FeedType]int),
	}

	byID := make(map[string]*domain.FeedDescriptor, len(feeds))
	for i := range feeds {
		byID[feeds[i].ID] = &feeds[i]
	}

	for i := range feeds {
		feed := &feeds[i]
		summary.ByType[feed.Type]++
		if feed.Active {
			summary.ActiveFeeds++
		}
		if feed.DetailFeedID == "" {
			continue
		}

		link := domain.FeedLink{
			FeedID:       feed.ID,
			FeedName:     feed.Name,
			DetailFeedID: feed.DetailFeedID,
		}
		if target, ok := byID[feed.DetailFeedID]; ok {
			link.DetailFeedName = target.Name
			link.DetailInactive = !target.Active
		} else {
			link.Dangling = true
		}
		summary.Links = append(summary.Links, link)
	}

	return summary, nil
}

// DetailFieldCoverage samples up to sampleSize project entities and counts,
// per discovered detail field, how many carry a value for it.
func (s *DiagnosticsService) DetailFieldCoverage(ctx context.Context, sampleSize int) ([]domain.DetailFieldCoverage, error) {
	if sampleSize <= 0 {
		sampleSize = defaultCoverageSample
	}

	fields, err := s.entityStore.DetailFields(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to load detail field set: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	entities, err := s.entityStore.ListByType(ctx, domain.EntityTypeProject, sampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to sample projects: %w", err)
	}

	counts := make(map[string]int, len(fields))
	for _, entity := range entities {
		for name, value := range entity.Detail {
			if value != "" {
				counts[name]++
			}
		}
	}

	sort.Strings(fields)
	coverage := make([]domain.DetailFieldCoverage, 0, len(fields))
	for _, field := range fields {
		coverage = append(coverage, domain.DetailFieldCoverage{
			Field:             field,
			ProjectsWithField: counts[field],
			ProjectsSampled:   len(entities),
		})
	}
	return coverage, nil
}
