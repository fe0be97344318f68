package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recsync/recsync-cli/internal/adapters/driven/storage/memory"
	"github.com/recsync/recsync-cli/internal/core/domain"
)

func TestDiagnosticsService_FeedLinkage(t *testing.T) {
	feeds := memory.NewFeedStore()
	svc := NewDiagnosticsService(feeds, memory.NewEntityStore())
	ctx := context.Background()

	detail := seedFeed(t, feeds, "detail", domain.FeedTypeProjectDetail)
	require.NoError(t, feeds.Save(ctx, &domain.FeedDescriptor{
		ID: "p1", Name: "Projects A", Type: domain.FeedTypeProjects,
		URL: "http://srv/p1", Active: true, DetailFeedID: detail.ID,
	}))
	require.NoError(t, feeds.Save(ctx, &domain.FeedDescriptor{
		ID: "p2", Name: "Projects B", Type: domain.FeedTypeProjects,
		URL: "http://srv/p2", Active: false, DetailFeedID: "gone",
	}))

	summary, err := svc.FeedLinkage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalFeeds)
	assert.Equal(t, 2, summary.ActiveFeeds)
	assert.Equal(t, 2, summary.ByType[domain.FeedTypeProjects])
	assert.Equal(t, 1, summary.ByType[domain.FeedTypeProjectDetail])

	require.Len(t, summary.Links, 2)
	byFeed := make(map[string]domain.FeedLink)
	for _, link := range summary.Links {
		byFeed[link.FeedID] = link
	}
	assert.Equal(t, detail.Name, byFeed["p1"].DetailFeedName)
	assert.False(t, byFeed["p1"].Dangling)
	assert.True(t, byFeed["p2"].Dangling)
}

func TestDiagnosticsService_FeedLinkage_InactiveDetail(t *testing.T) {
	feeds := memory.NewFeedStore()
	svc := NewDiagnosticsService(feeds, memory.NewEntityStore())
	ctx := context.Background()

	detail := seedFeed(t, feeds, "detail", domain.FeedTypeProjectDetail)
	detail.Active = false
	require.NoError(t, feeds.Save(ctx, detail))
	require.NoError(t, feeds.Save(ctx, &domain.FeedDescriptor{
		ID: "p1", Name: "Projects", Type: domain.FeedTypeProjects,
		URL: "http://srv/p1", Active: true, DetailFeedID: detail.ID,
	}))

	summary, err := svc.FeedLinkage(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Links, 1)
	assert.True(t, summary.Links[0].DetailInactive)
}

func TestDiagnosticsService_DetailFieldCoverage(t *testing.T) {
	entities := memory.NewEntityStore()
	svc := NewDiagnosticsService(memory.NewFeedStore(), entities)
	ctx := context.Background()

	require.NoError(t, entities.RegisterDetailFields(ctx, []string{"phase", "milestone"}))
	require.NoError(t, entities.Save(ctx, &domain.Entity{
		ID: "e1", Type: domain.EntityTypeProject, ExternalID: "P1",
		Detail: map[string]string{"phase": "2", "milestone": "Pilot"},
	}))
	require.NoError(t, entities.Save(ctx, &domain.Entity{
		ID: "e2", Type: domain.EntityTypeProject, ExternalID: "P2",
		Detail: map[string]string{"phase": "1", "milestone": ""},
	}))

	coverage, err := svc.DetailFieldCoverage(ctx, 0)
	require.NoError(t, err)
	require.Len(t, coverage, 2)

	// Sorted by field name.
	assert.Equal(t, "milestone", coverage[0].Field)
	assert.Equal(t, 1, coverage[0].ProjectsWithField)
	assert.Equal(t, "phase", coverage[1].Field)
	assert.Equal(t, 2, coverage[1].ProjectsWithField)
	assert.Equal(t, 2, coverage[0].ProjectsSampled)
}

func TestDiagnosticsService_DetailFieldCoverage_NoFields(t *testing.T) {
	svc := NewDiagnosticsService(memory.NewFeedStore(), memory.NewEntityStore())

	coverage, err := svc.DetailFieldCoverage(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, coverage)
}
