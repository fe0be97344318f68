package driving

import "github.com/recsync/recsync-cli/internal/core/domain"

// SettingsService reads and persists user-tunable sync settings.
type SettingsService interface {
	// Get retrieves current settings, applying defaults for unset keys.
	Get() (*domain.Settings, error)

	// Save validates and persists settings.
	Save(settings *domain.Settings) error
}
