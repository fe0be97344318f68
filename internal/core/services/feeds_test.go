package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recsync/recsync-cli/internal/adapters/driven/storage/memory"
	"github.com/recsync/recsync-cli/internal/core/domain"
)

const sampleATOMSVC = `<?xml version="1.0" encoding="utf-8"?>
<service xmlns="http://www.w3.org/2007/app" xmlns:atom="http://www.w3.org/2005/Atom">
  <workspace>
    <atom:title>Project Status Report</atom:title>
    <collection href="http://reports/server?/Reports/ProjectList&amp;rs:Command=Render">
      <atom:title>Tablix1</atom:title>
    </collection>
    <collection href="http://reports/server?/Reports/OpenTickets&amp;rs:Command=Render">
      <atom:title>Open Tickets</atom:title>
    </collection>
    <collection href="">
      <atom:title>Empty</atom:title>
    </collection>
  </workspace>
</service>`

func newFeedsFixture() (*FeedsService, *memory.FeedStore, *mockFetcher) {
	feeds := memory.NewFeedStore()
	fetcher := newMockFetcher()
	return NewFeedsService(feeds, fetcher, domain.DefaultSettings()), feeds, fetcher
}

func seedFeed(t *testing.T, store *memory.FeedStore, id string, feedType domain.FeedType) *domain.FeedDescriptor {
	t.Helper()
	feed := &domain.FeedDescriptor{
		ID:        id,
		Name:      id,
		Type:      feedType,
		URL:       "http://srv/" + id,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Save(context.Background(), feed))
	return feed
}

func TestFeedsService_Import(t *testing.T) {
	svc, _, _ := newFeedsFixture()

	imported, err := svc.Import(context.Background(), sampleATOMSVC, "")
	require.NoError(t, err)
	require.Len(t, imported, 2)

	// The generic Tablix title falls back to the workspace title.
	assert.Equal(t, "Project Status Report", imported[0].Name)
	assert.Equal(t, domain.FeedTypeProjects, imported[0].Type)
	assert.Contains(t, imported[0].URL, "/Reports/ProjectList&rs:Command=Render")
	assert.True(t, imported[0].Active)
	assert.NotEmpty(t, imported[0].ID)

	assert.Equal(t, "Open Tickets", imported[1].Name)
	assert.Equal(t, domain.FeedTypeServiceTickets, imported[1].Type)
}

func TestFeedsService_Import_TypeOverride(t *testing.T) {
	svc, _, _ := newFeedsFixture()

	imported, err := svc.Import(context.Background(), sampleATOMSVC, domain.FeedTypeOpportunities)
	require.NoError(t, err)
	require.Len(t, imported, 2)
	for _, feed := range imported {
		assert.Equal(t, domain.FeedTypeOpportunities, feed.Type)
	}
}

func TestFeedsService_Import_InvalidOverride(t *testing.T) {
	svc, _, _ := newFeedsFixture()
	_, err := svc.Import(context.Background(), sampleATOMSVC, domain.FeedType("BOGUS"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFeedsService_Import_Unrecognized(t *testing.T) {
	svc, store, _ := newFeedsFixture()
	_, err := svc.Import(context.Background(), "not xml at all", "")
	assert.ErrorIs(t, err, domain.ErrNotRecognized)

	feeds, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, feeds)
}

func TestFeedsService_Rename(t *testing.T) {
	svc, store, _ := newFeedsFixture()
	feed := seedFeed(t, store, "f1", domain.FeedTypeProjects)

	require.NoError(t, svc.Rename(context.Background(), feed.ID, "  Renamed  "))
	got, err := store.Get(context.Background(), feed.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	assert.ErrorIs(t, svc.Rename(context.Background(), feed.ID, "   "), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Rename(context.Background(), "missing", "x"), domain.ErrNotFound)
}

func TestFeedsService_Retype_DropsDetailLink(t *testing.T) {
	svc, store, _ := newFeedsFixture()
	detail := seedFeed(t, store, "detail", domain.FeedTypeProjectDetail)
	feed := seedFeed(t, store, "projects", domain.FeedTypeProjects)
	require.NoError(t, svc.LinkDetail(context.Background(), feed.ID, detail.ID))

	require.NoError(t, svc.Retype(context.Background(), feed.ID, domain.FeedTypeOpportunities))
	got, err := store.Get(context.Background(), feed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FeedTypeOpportunities, got.Type)
	assert.Empty(t, got.DetailFeedID)
}

func TestFeedsService_Retype_LinkedDetailRejected(t *testing.T) {
	svc, store, _ := newFeedsFixture()
	detail := seedFeed(t, store, "detail", domain.FeedTypeProjectDetail)
	feed := seedFeed(t, store, "projects", domain.FeedTypeProjects)
	require.NoError(t, svc.LinkDetail(context.Background(), feed.ID, detail.ID))

	err := svc.Retype(context.Background(), detail.ID, domain.FeedTypeProjects)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Unlinking clears the way.
	require.NoError(t, svc.UnlinkDetail(context.Background(), feed.ID))
	require.NoError(t, svc.Retype(context.Background(), detail.ID, domain.FeedTypeProjects))
}

func TestFeedsService_LinkDetail_Validation(t *testing.T) {
	svc, store, _ := newFeedsFixture()
	detail := seedFeed(t, store, "detail", domain.FeedTypeProjectDetail)
	tickets := seedFeed(t, store, "tickets", domain.FeedTypeServiceTickets)
	projects := seedFeed(t, store, "projects", domain.FeedTypeProjects)

	// Only PROJECTS feeds may carry a detail link.
	err := svc.LinkDetail(context.Background(), tickets.ID, detail.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// The target has to be a PROJECT_DETAIL feed.
	err = svc.LinkDetail(context.Background(), projects.ID, tickets.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, svc.LinkDetail(context.Background(), projects.ID, detail.ID))
}

func TestFeedsService_Delete_ClearsDetailLinks(t *testing.T) {
	svc, store, _ := newFeedsFixture()
	detail := seedFeed(t, store, "detail", domain.FeedTypeProjectDetail)
	feed := seedFeed(t, store, "projects", domain.FeedTypeProjects)
	require.NoError(t, svc.LinkDetail(context.Background(), feed.ID, detail.ID))

	require.NoError(t, svc.Delete(context.Background(), detail.ID))

	got, err := store.Get(context.Background(), feed.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DetailFeedID)

	_, err = store.Get(context.Background(), detail.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeedsService_SetActive(t *testing.T) {
	svc, store, _ := newFeedsFixture()
	feed := seedFeed(t, store, "f1", domain.FeedTypeProjects)

	require.NoError(t, svc.SetActive(context.Background(), feed.ID, false))
	got, err := store.Get(context.Background(), feed.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	active, err := store.ListActiveByType(context.Background(), domain.FeedTypeProjects)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestFeedsService_Test(t *testing.T) {
	svc, _, fetcher := newFeedsFixture()
	fetcher.setEntries("http://reports/server?/Reports/ProjectList",
		map[string]string{"project_id": "P1"},
		map[string]string{"project_id": "P2"},
	)

	feedType, count, err := svc.Test(context.Background(), "http://reports/server?/Reports/ProjectList")
	require.NoError(t, err)
	assert.Equal(t, domain.FeedTypeProjects, feedType)
	assert.Equal(t, 2, count)

	_, _, err = svc.Test(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFeedsService_Import_UnusableHrefDoesNotBlock(t *testing.T) {
	svc, store, _ := newFeedsFixture()
	doc := `<?xml version="1.0" encoding="utf-8"?>
<service xmlns="http://www.w3.org/2007/app" xmlns:atom="http://www.w3.org/2005/Atom">
  <workspace>
    <atom:title>Reports</atom:title>
    <collection href="://broken">
      <atom:title>Broken</atom:title>
    </collection>
    <collection href="http://reports/server?/Reports/ProjectList">
      <atom:title>Projects</atom:title>
    </collection>
  </workspace>
</service>`

	imported, err := svc.Import(context.Background(), doc, "")
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "Projects", imported[0].Name)

	feeds, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, feeds, 1)
}

func TestFeedsService_Probe(t *testing.T) {
	svc, _, fetcher := newFeedsFixture()
	ctx := context.Background()

	require.NoError(t, svc.Probe(ctx, "http://reports/server?/Reports/ProjectList"))

	fetcher.errs["http://reports/down"] = errors.New("probe failed: status 503")
	err := svc.Probe(ctx, "http://reports/down")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	err = svc.Probe(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFeedsService_TemplatesRoundTrip(t *testing.T) {
	svc, _, _ := newFeedsFixture()
	ctx := context.Background()

	_, err := svc.ImportTemplates(ctx, []domain.FeedTemplate{
		{Name: "Projects", URL: "http://srv/projects", Type: domain.FeedTypeProjects},
		{Name: "Tickets", URL: "http://srv/tickets", Type: domain.FeedTypeServiceTickets},
	})
	require.NoError(t, err)

	templates, err := svc.ExportTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	// Re-importing the export creates nothing new.
	created, err := svc.ImportTemplates(ctx, templates)
	require.NoError(t, err)
	assert.Empty(t, created)

	feeds, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, feeds, 2)
}

func TestFeedsService_ImportTemplates_InvalidType(t *testing.T) {
	svc, _, _ := newFeedsFixture()
	_, err := svc.ImportTemplates(context.Background(), []domain.FeedTemplate{
		{Name: "Bad", URL: "http://srv/x", Type: "WHAT"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFeedsService_DebugFetchDetail(t *testing.T) {
	svc, store, fetcher := newFeedsFixture()
	detail := seedFeed(t, store, "detail", domain.FeedTypeProjectDetail)
	feed := seedFeed(t, store, "projects", domain.FeedTypeProjects)
	require.NoError(t, svc.LinkDetail(context.Background(), feed.ID, detail.ID))

	fetcher.setEntries(detail.URL,
		map[string]string{"project_id": "P1", "phase": "2"},
	)

	fields, err := svc.DebugFetchDetail(context.Background(), feed.ID, "P1")
	require.NoError(t, err)
	assert.Equal(t, "2", fields["phase"])

	_, err = svc.DebugFetchDetail(context.Background(), feed.ID, "P9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
