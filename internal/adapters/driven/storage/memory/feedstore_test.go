package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

func TestFeedStore_SaveAndGet(t *testing.T) {
	store := NewFeedStore()
	ctx := context.Background()

	feed := &domain.FeedDescriptor{
		ID:     "f1",
		Name:   "Projects",
		Type:   domain.FeedTypeProjects,
		URL:    "http://srv/projects",
		Active: true,
	}
	require.NoError(t, store.Save(ctx, feed))

	got, err := store.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Projects", got.Name)

	// The returned value is a copy; mutating it does not affect the store.
	got.Name = "mutated"
	again, err := store.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Projects", again.Name)
}

func TestFeedStore_Get_NotFound(t *testing.T) {
	store := NewFeedStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeedStore_Delete(t *testing.T) {
	store := NewFeedStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.FeedDescriptor{ID: "f1", Type: domain.FeedTypeProjects}))
	require.NoError(t, store.Delete(ctx, "f1"))
	_, err := store.Get(ctx, "f1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting an unknown id is a no-op.
	assert.NoError(t, store.Delete(ctx, "f1"))
}

func TestFeedStore_ListActiveByType(t *testing.T) {
	store := NewFeedStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.FeedDescriptor{ID: "a", Type: domain.FeedTypeProjects, Active: true}))
	require.NoError(t, store.Save(ctx, &domain.FeedDescriptor{ID: "b", Type: domain.FeedTypeProjects, Active: false}))
	require.NoError(t, store.Save(ctx, &domain.FeedDescriptor{ID: "c", Type: domain.FeedTypeServiceTickets, Active: true}))

	active, err := store.ListActiveByType(ctx, domain.FeedTypeProjects)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ID)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
