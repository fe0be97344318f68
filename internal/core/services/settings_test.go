package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recsync/recsync-cli/internal/adapters/driven/storage/memory"
	"github.com/recsync/recsync-cli/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, settings.FetchTimeout)
	assert.Equal(t, 10, settings.FailureThreshold)
	assert.True(t, settings.Scheduler.Enabled)
}

func TestSettingsService_SaveAndGet(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings := domain.DefaultSettings()
	settings.FetchTimeout = 45 * time.Second
	settings.FailureThreshold = 5
	settings.Scheduler.Enabled = false
	task := settings.Scheduler.GetTaskConfig(domain.TaskIDFeedSync)
	task.Interval = 15 * time.Minute
	task.Cron = "0 6 * * *"
	settings.Scheduler.TaskConfigs[domain.TaskIDFeedSync] = task

	require.NoError(t, svc.Save(&settings))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, got.FetchTimeout)
	assert.Equal(t, 5, got.FailureThreshold)
	assert.False(t, got.Scheduler.Enabled)
	gotTask := got.Scheduler.GetTaskConfig(domain.TaskIDFeedSync)
	assert.Equal(t, 15*time.Minute, gotTask.Interval)
	assert.Equal(t, "0 6 * * *", gotTask.Cron)
}

func TestSettingsService_Save_Invalid(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings := domain.DefaultSettings()
	settings.FailureThreshold = 0
	assert.ErrorIs(t, svc.Save(&settings), domain.ErrInvalidInput)
}
