// Package cli implements the command-line driving adapter. Commands are
// thin wrappers over the core services wired up in initServices.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recsync/recsync-cli/internal/adapters/driven/config/file"
	"github.com/recsync/recsync-cli/internal/adapters/driven/notify"
	"github.com/recsync/recsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/recsync/recsync-cli/internal/connectors/ssrs"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
	"github.com/recsync/recsync-cli/internal/core/ports/driving"
	"github.com/recsync/recsync-cli/internal/core/services"
	"github.com/recsync/recsync-cli/internal/logger"
)

// Global services, wired once in initServices and shared by all commands.
var (
	feedService        driving.FeedService
	syncOrchestrator   driving.SyncOrchestrator
	diagnosticsService driving.Diagnostics
	settingsService    driving.SettingsService
	schedulerService   driving.Scheduler

	configStore driven.ConfigStore
	store       *sqlite.Store
)

// version is set by Execute from the build's main package.
var version = "dev"

var (
	flagVerbose   bool
	flagDataDir   string
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "recsync",
	Short: "Sync SSRS report feeds into a local entity store",
	Long: `Recsync imports SQL Server Reporting Services ATOMSVC subscriptions,
classifies the report feeds they describe, and synchronises their records
into a local store with field-level change history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			store.Close() //nolint:errcheck // best effort on shutdown
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.recsync/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.recsync)")
}

// Execute runs the root command with the given build version.
func Execute(buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	return rootCmd.Execute()
}

// initServices constructs the adapter and service graph.
func initServices() error {
	var err error
	configStore, err = file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err = sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	settingsService = services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	fetcher := ssrs.NewFetcher(settings.FetchTimeout)
	reconciler := services.NewReconciler(store.EntityStore())

	feedService = services.NewFeedsService(store.FeedStore(), fetcher, *settings)
	syncOrchestrator = services.NewSyncService(
		store.FeedStore(), store.SyncStore(), fetcher, reconciler,
		notify.NewLogNotifier(), *settings)
	diagnosticsService = services.NewDiagnosticsService(store.FeedStore(), store.EntityStore())
	schedulerService = services.NewScheduler(settings.Scheduler, store.SchedulerStore(), syncOrchestrator)

	return nil
}
