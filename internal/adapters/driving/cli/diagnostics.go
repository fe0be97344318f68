package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Diagnostic reports over feeds and entities",
}

var diagLinkageCmd = &cobra.Command{
	Use:   "linkage",
	Short: "Summarise feeds and detail feed links",
	RunE:  runDiagLinkage,
}

var diagCoverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Report detail field coverage across projects",
	RunE:  runDiagCoverage,
}

var flagCoverageSample int

func init() {
	diagCoverageCmd.Flags().IntVar(&flagCoverageSample, "sample", 100, "number of projects to sample")

	diagCmd.AddCommand(diagLinkageCmd, diagCoverageCmd)
	rootCmd.AddCommand(diagCmd)
}

func runDiagLinkage(cmd *cobra.Command, _ []string) error {
	if diagnosticsService == nil {
		return errors.New("diagnostics service not configured")
	}

	summary, err := diagnosticsService.FeedLinkage(context.Background())
	if err != nil {
		return err
	}

	cmd.Printf("Feeds: %d total, %d active\n", summary.TotalFeeds, summary.ActiveFeeds)
	for feedType, count := range summary.ByType {
		cmd.Printf("  %-16s %d\n", feedType, count)
	}

	if len(summary.Links) == 0 {
		cmd.Println("No detail feed links configured.")
		return nil
	}
	cmd.Println("Detail links:")
	for _, link := range summary.Links {
		switch {
		case link.Dangling:
			cmd.Printf("  %s -> %s (DANGLING)\n", link.FeedName, link.DetailFeedID)
		case link.DetailInactive:
			cmd.Printf("  %s -> %s (target disabled)\n", link.FeedName, link.DetailFeedName)
		default:
			cmd.Printf("  %s -> %s\n", link.FeedName, link.DetailFeedName)
		}
	}
	return nil
}

func runDiagCoverage(cmd *cobra.Command, _ []string) error {
	if diagnosticsService == nil {
		return errors.New("diagnostics service not configured")
	}

	coverage, err := diagnosticsService.DetailFieldCoverage(context.Background(), flagCoverageSample)
	if err != nil {
		return err
	}
	if len(coverage) == 0 {
		cmd.Println("No detail fields discovered yet.")
		return nil
	}

	for _, c := range coverage {
		cmd.Printf("%-32s %3d/%3d (%s)\n", c.Field, c.ProjectsWithField,
			c.ProjectsSampled, fmt.Sprintf("%.0f%%", c.Coverage()*100))
	}
	return nil
}
