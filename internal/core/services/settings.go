package services

import (
	"fmt"
	"time"

	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
	"github.com/recsync/recsync-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyFetchTimeout     = "sync.fetch_timeout_seconds"
	keyFailureThreshold = "sync.failure_threshold"
	keySchedEnabled     = "scheduler.enabled"
	keySchedInterval    = "scheduler.sync_interval_minutes"
	keySchedCron        = "scheduler.sync_cron"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Keys absent from the config file fall
// back to the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	if v := s.configStore.GetInt(keyFetchTimeout); v > 0 {
		settings.FetchTimeout = time.Duration(v) * time.Second
	}
	if v := s.configStore.GetInt(keyFailureThreshold); v > 0 {
		settings.FailureThreshold = v
	}
	if _, ok := s.configStore.Get(keySchedEnabled); ok {
		settings.Scheduler.Enabled = s.configStore.GetBool(keySchedEnabled)
	}

	task := settings.Scheduler.TaskConfigs[domain.TaskIDFeedSync]
	if v := s.configStore.GetInt(keySchedInterval); v > 0 {
		task.Interval = time.Duration(v) * time.Minute
	}
	if v := s.configStore.GetString(keySchedCron); v != "" {
		task.Cron = v
	}
	settings.Scheduler.TaskConfigs[domain.TaskIDFeedSync] = task

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &settings, nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := s.configStore.Set(keyFetchTimeout, int(settings.FetchTimeout/time.Second)); err != nil {
		return fmt.Errorf("save fetch timeout: %w", err)
	}
	if err := s.configStore.Set(keyFailureThreshold, settings.FailureThreshold); err != nil {
		return fmt.Errorf("save failure threshold: %w", err)
	}
	if err := s.configStore.Set(keySchedEnabled, settings.Scheduler.Enabled); err != nil {
		return fmt.Errorf("save scheduler enabled: %w", err)
	}

	task := settings.Scheduler.GetTaskConfig(domain.TaskIDFeedSync)
	if task.Interval > 0 {
		if err := s.configStore.Set(keySchedInterval, int(task.Interval/time.Minute)); err != nil {
			return fmt.Errorf("save sync interval: %w", err)
		}
	}
	if err := s.configStore.Set(keySchedCron, task.Cron); err != nil {
		return fmt.Errorf("save sync cron: %w", err)
	}

	return nil
}
