package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recsync/recsync-cli/internal/adapters/driven/config/file"
	"github.com/recsync/recsync-cli/internal/core/domain"
)

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Manage report feeds",
	Long: `List, import and configure the report feeds records are synced from.
Feeds are imported from ATOMSVC subscription documents exported by SSRS.`,
	RunE: runFeedsList,
}

var feedsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured feeds",
	RunE:  runFeedsList,
}

var feedsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import feeds from an ATOMSVC document",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedsImport,
}

var feedsTestCmd = &cobra.Command{
	Use:   "test <url>",
	Short: "Fetch a feed URL without saving anything",
	Long: `Fetch a feed URL, classify it and count its records without saving
anything. With --probe only connectivity is checked; the response body
is not downloaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedsTest,
}

var feedsRenameCmd = &cobra.Command{
	Use:   "rename <feed-id> <name>",
	Short: "Rename a feed",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeedsRename,
}

var feedsRetypeCmd = &cobra.Command{
	Use:   "retype <feed-id> <type>",
	Short: "Change a feed's type",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeedsRetype,
}

var feedsEnableCmd = &cobra.Command{
	Use:   "enable <feed-id>",
	Short: "Enable a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setFeedActive(cmd, args[0], true)
	},
}

var feedsDisableCmd = &cobra.Command{
	Use:   "disable <feed-id>",
	Short: "Disable a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setFeedActive(cmd, args[0], false)
	},
}

var feedsDeleteCmd = &cobra.Command{
	Use:   "delete <feed-id>",
	Short: "Delete a feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedsDelete,
}

var feedsLinkCmd = &cobra.Command{
	Use:   "link-detail <feed-id> <detail-feed-id>",
	Short: "Link a PROJECT_DETAIL feed to a PROJECTS feed",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeedsLink,
}

var feedsUnlinkCmd = &cobra.Command{
	Use:   "unlink-detail <feed-id>",
	Short: "Clear a PROJECTS feed's detail link",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedsUnlink,
}

var feedsExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export feeds as a portable TOML template file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedsExport,
}

var feedsImportTemplatesCmd = &cobra.Command{
	Use:   "import-templates <file>",
	Short: "Create feeds from a TOML template file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedsImportTemplates,
}

var feedsDetailCmd = &cobra.Command{
	Use:   "show-detail <feed-id> <external-id>",
	Short: "Fetch one record's detail payload without saving it",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeedsShowDetail,
}

var (
	flagFeedType  string
	flagFeedProbe bool
)

func init() {
	feedsImportCmd.Flags().StringVar(&flagFeedType, "type", "", "override the classified type for all imported feeds")
	feedsTestCmd.Flags().BoolVar(&flagFeedProbe, "probe", false, "check connectivity only, without downloading the feed")

	feedsCmd.AddCommand(feedsListCmd, feedsImportCmd, feedsTestCmd,
		feedsRenameCmd, feedsRetypeCmd, feedsEnableCmd, feedsDisableCmd,
		feedsDeleteCmd, feedsLinkCmd, feedsUnlinkCmd, feedsExportCmd,
		feedsImportTemplatesCmd, feedsDetailCmd)
	rootCmd.AddCommand(feedsCmd)
}

func runFeedsList(cmd *cobra.Command, _ []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}

	feeds, err := feedService.List(context.Background())
	if err != nil {
		return err
	}
	if len(feeds) == 0 {
		cmd.Println("No feeds configured. Import one with 'recsync feeds import <file>'.")
		return nil
	}

	for _, feed := range feeds {
		state := "enabled"
		if !feed.Active {
			state = "disabled"
		}
		cmd.Printf("%s  %-16s %-9s %s\n", feed.ID, feed.Type, state, feed.Name)
		if feed.DetailFeedID != "" {
			cmd.Printf("  detail feed: %s\n", feed.DetailFeedID)
		}
		if !feed.LastSync.IsZero() {
			cmd.Printf("  last sync: %s\n", feed.LastSync.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}

func runFeedsImport(cmd *cobra.Command, args []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}

	override, err := parseFeedType(flagFeedType)
	if err != nil {
		return err
	}

	feeds, err := feedService.ImportFile(context.Background(), args[0], override)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d feed(s):\n", len(feeds))
	for _, feed := range feeds {
		cmd.Printf("  %s  %-16s %s\n", feed.ID, feed.Type, feed.Name)
	}
	return nil
}

func runFeedsTest(cmd *cobra.Command, args []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}

	if flagFeedProbe {
		if err := feedService.Probe(context.Background(), args[0]); err != nil {
			return fmt.Errorf("feed probe failed: %w", err)
		}
		cmd.Println("Feed is reachable.")
		return nil
	}

	feedType, count, err := feedService.Test(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("feed test failed: %w", err)
	}

	cmd.Printf("Feed is reachable: %d record(s), classified as %s\n", count, feedType)
	return nil
}

func runFeedsRename(cmd *cobra.Command, args []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}
	if err := feedService.Rename(context.Background(), args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Feed %s renamed to %q.\n", args[0], args[1])
	return nil
}

func runFeedsRetype(cmd *cobra.Command, args []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}

	feedType, err := parseFeedType(args[1])
	if err != nil {
		return err
	}
	if err := feedService.Retype(context.Background(), args[0], feedType); err != nil {
		return err
	}
	cmd.Printf("Feed %s retyped to %s.\n", args[0], feedType)
	return nil
}

func setFeedActive(cmd *cobra.Command, id string, active bool) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}
	if err := feedService.SetActive(context.Background(), id, active); err != nil {
		return err
	}
	if active {
		cmd.Printf("Feed %s enabled.\n", id)
	} else {
		cmd.Printf("Feed %s disabled.\n", id)
	}
	return nil
}

func runFeedsDelete(cmd *cobra.Command, args []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}
	if err := feedService.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Feed %s deleted.\n", args[0])
	return nil
}

func runFeedsLink(cmd *cobra.Command, args []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}
	if err := feedService.LinkDetail(context.Background(), args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Feed %s now uses detail feed %s.\n", args[0], args[1])
	return nil
}

func runFeedsUnlink(cmd *cobra.Command, args []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}
	if err := feedService.UnlinkDetail(context.Background(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Feed %s detail link cleared.\n", args[0])
	return nil
}

func runFeedsExport(cmd *cobra.Command, args []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}

	templates, err := feedService.ExportTemplates(context.Background())
	if err != nil {
		return err
	}
	if err := file.WriteTemplates(args[0], templates); err != nil {
		return err
	}
	cmd.Printf("Exported %d template(s) to %s.\n", len(templates), args[0])
	return nil
}

func runFeedsImportTemplates(cmd *cobra.Command, args []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}

	templates, err := file.ReadTemplates(args[0])
	if err != nil {
		return err
	}
	created, err := feedService.ImportTemplates(context.Background(), templates)
	if err != nil {
		return err
	}
	cmd.Printf("Created %d feed(s) from %d template(s).\n", len(created), len(templates))
	return nil
}

func runFeedsShowDetail(cmd *cobra.Command, args []string) error {
	if feedService == nil {
		return errors.New("feed service not configured")
	}

	detail, err := feedService.DebugFetchDetail(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}
	for name, value := range detail {
		cmd.Printf("%s: %s\n", name, value)
	}
	return nil
}

// parseFeedType validates a user-supplied feed type, accepting any case.
// An empty string maps to "no override".
func parseFeedType(s string) (domain.FeedType, error) {
	if s == "" {
		return "", nil
	}
	t := domain.FeedType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown feed type %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}
