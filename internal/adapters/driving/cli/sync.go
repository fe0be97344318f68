package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync [type]",
	Short: "Synchronise records from report feeds",
	Long: `Triggers a sync run for one feed type, or for all syncable types.
Requesting a type that already has an active run reports that run instead
of starting a second one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-type sync status and active runs",
	RunE:  runSyncStatus,
}

var syncCancelCmd = &cobra.Command{
	Use:   "cancel <run-id>",
	Short: "Cancel an active sync run",
	Args:  cobra.ExactArgs(1),
	RunE:  runSyncCancel,
}

var flagSyncWait bool

func init() {
	syncCmd.Flags().BoolVar(&flagSyncWait, "wait", true, "wait for the run to finish")

	syncCmd.AddCommand(syncStatusCmd, syncCancelCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		feedType, err := parseFeedType(args[0])
		if err != nil {
			return err
		}

		id, err := syncOrchestrator.Request(ctx, feedType, domain.TriggerManual)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		cmd.Printf("Sync run %s requested for %s.\n", id, feedType)
	} else {
		ids, err := syncOrchestrator.RequestAll(ctx, domain.TriggerManual)
		for _, id := range ids {
			cmd.Printf("Sync run %s requested.\n", id)
		}
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
	}

	if flagSyncWait {
		syncOrchestrator.Wait()
		return reportOutcomes(ctx, cmd)
	}
	return nil
}

// reportOutcomes prints the final state of the most recent runs.
func reportOutcomes(ctx context.Context, cmd *cobra.Command) error {
	status, err := syncOrchestrator.Status(ctx)
	if err != nil {
		return err
	}
	for _, ts := range status.Types {
		if ts.LastSyncID == "" {
			continue
		}
		cmd.Printf("%-16s last sync %s (%d records, run %s)\n",
			ts.Type, ts.LastSync.Format("2006-01-02 15:04:05"), ts.RecordsSynced, ts.LastSyncID)
	}
	return nil
}

func runSyncStatus(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	status, err := syncOrchestrator.Status(context.Background())
	if err != nil {
		return err
	}

	for _, ts := range status.Types {
		if ts.LastSyncID == "" {
			cmd.Printf("%-16s never synced\n", ts.Type)
			continue
		}
		cmd.Printf("%-16s last sync %s (%d records)\n",
			ts.Type, ts.LastSync.Format("2006-01-02 15:04:05"), ts.RecordsSynced)
	}

	if len(status.Active) == 0 {
		cmd.Println("No active runs.")
		return nil
	}
	cmd.Println("Active runs:")
	for _, run := range status.Active {
		cmd.Printf("  %s  %-16s %-8s %d processed\n",
			run.ID, run.Type, strings.ToLower(run.Status.String()), run.RecordsProcessed)
	}
	return nil
}

func runSyncCancel(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	if err := syncOrchestrator.Cancel(context.Background(), args[0]); err != nil {
		if errors.Is(err, domain.ErrSyncNotActive) {
			return fmt.Errorf("run %s is not active", args[0])
		}
		return err
	}
	cmd.Printf("Cancellation requested for run %s.\n", args[0])
	return nil
}
