package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect sync run history and field-level changes",
	RunE:  runHistoryList,
}

var historyChangesCmd = &cobra.Command{
	Use:   "changes <run-id>",
	Short: "Show the field-level changes recorded by a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryChanges,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all run history and change records",
	RunE:  runHistoryClear,
}

var (
	flagHistoryType   string
	flagHistoryStatus string
	flagHistoryLimit  int
	flagHistoryOffset int
)

func init() {
	historyCmd.Flags().StringVar(&flagHistoryType, "type", "", "filter by feed type")
	historyCmd.Flags().StringVar(&flagHistoryStatus, "status", "", "filter by run status")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "maximum runs to show")
	historyCmd.Flags().IntVar(&flagHistoryOffset, "offset", 0, "number of runs to skip, for paging")

	historyCmd.AddCommand(historyChangesCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// historyFilter builds the run filter from the history command's flags.
func historyFilter() (domain.SyncRunFilter, error) {
	feedType, err := parseFeedType(flagHistoryType)
	if err != nil {
		return domain.SyncRunFilter{}, err
	}
	filter := domain.SyncRunFilter{
		Type:   feedType,
		Limit:  flagHistoryLimit,
		Offset: flagHistoryOffset,
	}
	if flagHistoryStatus != "" {
		status := domain.SyncStatus(flagHistoryStatus)
		if !status.IsValid() {
			return domain.SyncRunFilter{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, flagHistoryStatus)
		}
		filter.Status = status
	}
	return filter, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	filter, err := historyFilter()
	if err != nil {
		return err
	}

	runs, err := syncOrchestrator.History(context.Background(), filter)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No sync runs recorded.")
		return nil
	}

	for _, run := range runs {
		outcome := run.Status.String()
		if run.Cancelled {
			outcome = "CANCELLED"
		}
		cmd.Printf("%s  %-16s %-10s %s\n", run.ID, run.Type, outcome,
			run.CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Printf("  %d processed, %d created, %d updated, %d unchanged, %d failed\n",
			run.RecordsProcessed, run.RecordsCreated, run.RecordsUpdated,
			run.RecordsUnchanged, run.RecordsFailed)
		if run.ErrorMessage != "" {
			cmd.Printf("  error: %s\n", run.ErrorMessage)
		}
	}
	return nil
}

func runHistoryChanges(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	changes, err := syncOrchestrator.Changes(context.Background(), args[0])
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		cmd.Println("No changes recorded for this run.")
		return nil
	}

	for _, entity := range changes {
		cmd.Printf("%s %s:\n", entity.EntityType, entity.ExternalID)
		for _, record := range entity.Records {
			for _, change := range record.Changes {
				cmd.Printf("  %s: %s -> %s\n", change.Field,
					formatValue(change.Old), formatValue(change.New))
			}
		}
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	runs, changes, err := syncOrchestrator.ClearHistory(context.Background())
	if err != nil {
		return err
	}
	cmd.Printf("Deleted %d run(s) and %d change record(s).\n", runs, changes)
	return nil
}

// formatValue renders a nullable field value for display.
func formatValue(v *string) string {
	if v == nil {
		return "(none)"
	}
	return *v
}
