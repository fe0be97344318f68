package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recsync/recsync-cli/internal/adapters/driven/storage/memory"
	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driving"
)

// stubOrchestrator records RequestAll calls without doing any work.
type stubOrchestrator struct {
	driving.SyncOrchestrator
	requests int
	trigger  domain.SyncTrigger
}

func (o *stubOrchestrator) RequestAll(_ context.Context, trigger domain.SyncTrigger) ([]string, error) {
	o.requests++
	o.trigger = trigger
	return []string{"r1", "r2", "r3"}, nil
}

func TestScheduler_InitialiseTasks_CreatesTask(t *testing.T) {
	store := memory.NewSchedulerStore()
	s := NewScheduler(domain.DefaultSchedulerConfig(), store, nil)

	require.NoError(t, s.initialiseTasks(context.Background()))

	task, err := store.GetTask(context.Background(), domain.TaskIDFeedSync)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "Feed Sync", task.Name)
	assert.Equal(t, time.Hour, task.Interval)
	assert.True(t, task.Enabled)
	assert.False(t, task.NextRun.IsZero())
}

func TestScheduler_EnsureTask_ReschedulesOnConfigChange(t *testing.T) {
	store := memory.NewSchedulerStore()
	ctx := context.Background()

	cfg := domain.DefaultSchedulerConfig()
	s := NewScheduler(cfg, store, nil)
	require.NoError(t, s.initialiseTasks(ctx))
	before, err := store.GetTask(ctx, domain.TaskIDFeedSync)
	require.NoError(t, err)

	// Same cadence: NextRun stays put.
	require.NoError(t, s.ensureTask(ctx, domain.TaskIDFeedSync, "Feed Sync", cfg.GetTaskConfig(domain.TaskIDFeedSync)))
	same, err := store.GetTask(ctx, domain.TaskIDFeedSync)
	require.NoError(t, err)
	assert.Equal(t, before.NextRun, same.NextRun)

	// Shorter interval reschedules.
	changed := cfg.GetTaskConfig(domain.TaskIDFeedSync)
	changed.Interval = 5 * time.Minute
	require.NoError(t, s.ensureTask(ctx, domain.TaskIDFeedSync, "Feed Sync", changed))
	after, err := store.GetTask(ctx, domain.TaskIDFeedSync)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, after.Interval)
	assert.True(t, after.NextRun.Before(before.NextRun))
}

func TestScheduler_NextRun(t *testing.T) {
	from := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)

	interval := &domain.ScheduledTask{ID: "t", Interval: 30 * time.Minute}
	assert.Equal(t, from.Add(30*time.Minute), nextRun(interval, from))

	// A cron expression overrides the interval.
	daily := &domain.ScheduledTask{ID: "t", Interval: 30 * time.Minute, Cron: "0 6 * * *"}
	next := nextRun(daily, from)
	assert.Equal(t, 6, next.Hour())
	assert.Equal(t, from.Add(24*time.Hour).Day(), next.Day())

	// An invalid expression falls back to the interval.
	bad := &domain.ScheduledTask{ID: "t", Interval: 30 * time.Minute, Cron: "not a cron"}
	assert.Equal(t, from.Add(30*time.Minute), nextRun(bad, from))
}

func TestScheduler_RunsDueTask(t *testing.T) {
	store := memory.NewSchedulerStore()
	orch := &stubOrchestrator{}
	s := NewScheduler(domain.DefaultSchedulerConfig(), store, orch)
	ctx := context.Background()

	task := &domain.ScheduledTask{
		ID:       domain.TaskIDFeedSync,
		Name:     "Feed Sync",
		Interval: time.Hour,
		Enabled:  true,
		NextRun:  time.Now().Add(-time.Minute),
	}
	require.NoError(t, store.SaveTask(ctx, task))

	s.checkAndRunDueTasks(ctx)
	s.wg.Wait()

	assert.Equal(t, 1, orch.requests)
	assert.Equal(t, domain.TriggerScheduled, orch.trigger)

	updated, err := store.GetTask(ctx, domain.TaskIDFeedSync)
	require.NoError(t, err)
	assert.False(t, updated.LastRun.IsZero())
	assert.True(t, updated.NextRun.After(time.Now()))
	assert.False(t, updated.LastSuccess.IsZero())

	history, err := store.GetTaskHistory(ctx, domain.TaskIDFeedSync, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Equal(t, 3, history[0].RunsEnqueued)
}

func TestScheduler_SkipsDisabledTask(t *testing.T) {
	store := memory.NewSchedulerStore()
	orch := &stubOrchestrator{}
	s := NewScheduler(domain.DefaultSchedulerConfig(), store, orch)
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID:      domain.TaskIDFeedSync,
		Enabled: false,
		NextRun: time.Now().Add(-time.Minute),
	}))

	s.checkAndRunDueTasks(ctx)
	s.wg.Wait()
	assert.Equal(t, 0, orch.requests)
}
