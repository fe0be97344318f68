package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting and persist it to the config file.

Keys:
  fetch-timeout      feed fetch timeout in seconds
  failure-threshold  consecutive record failures before a run aborts
  scheduler          "on" or "off"
  sync-interval      background sync interval in minutes
  sync-cron          cron expression for background sync (overrides interval)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	cmd.Printf("fetch-timeout:      %s\n", settings.FetchTimeout)
	cmd.Printf("failure-threshold:  %d\n", settings.FailureThreshold)
	if settings.Scheduler.Enabled {
		cmd.Println("scheduler:          on")
	} else {
		cmd.Println("scheduler:          off")
	}
	task := settings.Scheduler.GetTaskConfig(domain.TaskIDFeedSync)
	cmd.Printf("sync-interval:      %s\n", task.Interval)
	if task.Cron != "" {
		cmd.Printf("sync-cron:          %s\n", task.Cron)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	task := settings.Scheduler.GetTaskConfig(domain.TaskIDFeedSync)

	switch key {
	case "fetch-timeout":
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("%w: fetch-timeout must be a positive number of seconds", domain.ErrInvalidInput)
		}
		settings.FetchTimeout = time.Duration(seconds) * time.Second
	case "failure-threshold":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: failure-threshold must be a positive integer", domain.ErrInvalidInput)
		}
		settings.FailureThreshold = n
	case "scheduler":
		switch value {
		case "on":
			settings.Scheduler.Enabled = true
		case "off":
			settings.Scheduler.Enabled = false
		default:
			return fmt.Errorf("%w: scheduler must be \"on\" or \"off\"", domain.ErrInvalidInput)
		}
	case "sync-interval":
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes <= 0 {
			return fmt.Errorf("%w: sync-interval must be a positive number of minutes", domain.ErrInvalidInput)
		}
		task.Interval = time.Duration(minutes) * time.Minute
		settings.Scheduler.TaskConfigs[domain.TaskIDFeedSync] = task
	case "sync-cron":
		task.Cron = value
		settings.Scheduler.TaskConfigs[domain.TaskIDFeedSync] = task
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := settingsService.Save(settings); err != nil {
		return err
	}
	cmd.Printf("Setting %s updated.\n", key)
	return nil
}
