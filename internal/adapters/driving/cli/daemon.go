package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/logger"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background sync scheduler",
	Long: `Runs the scheduler in the foreground until interrupted.
Scheduled sync runs are enqueued per the configured interval or cron
expression. On the first start after an upgrade, a full sync is enqueued.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if schedulerService == nil {
		return errors.New("scheduler not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	maybeVersionBumpSync(ctx)

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	err := schedulerService.Start(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	if stopErr := schedulerService.Stop(); stopErr != nil {
		logger.Error("Scheduler stop: %v", stopErr)
	}
	syncOrchestrator.Wait()
	return err
}

// maybeVersionBumpSync enqueues a full sync when the recorded application
// version differs from the running one, then records the current version.
func maybeVersionBumpSync(ctx context.Context) {
	if configStore == nil || syncOrchestrator == nil {
		return
	}

	const key = "app.version"
	stored := configStore.GetString(key)
	if stored != "" && stored != version {
		logger.Info("Version changed (%s -> %s), enqueueing full sync", stored, version)
		if _, err := syncOrchestrator.RequestAll(ctx, domain.TriggerVersionBump); err != nil {
			logger.Error("Version-bump sync: %v", err)
		}
	}
	if err := configStore.Set(key, version); err != nil {
		logger.Error("Recording version: %v", err)
	}
}
