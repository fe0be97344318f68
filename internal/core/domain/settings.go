package domain

import "time"

// Settings holds user-tunable sync behaviour, persisted by the config
// store and read at service construction.
type Settings struct {
	// FetchTimeout is the upper bound for one feed fetch or
	// connectivity test. A hung transport can never exceed it.
	FetchTimeout time.Duration

	// FailureThreshold is the number of consecutive record failures
	// after which a run aborts as FAILED.
	FailureThreshold int

	// Scheduler configures background sync.
	Scheduler SchedulerConfig
}

// DefaultSettings returns the defaults applied when no config exists.
func DefaultSettings() Settings {
	return Settings{
		FetchTimeout:     30 * time.Second,
		FailureThreshold: 10,
		Scheduler:        DefaultSchedulerConfig(),
	}
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.FetchTimeout <= 0 {
		return ErrInvalidInput
	}
	if s.FailureThreshold <= 0 {
		return ErrInvalidInput
	}
	return nil
}
