package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/logsweep/internal/config"
	"github.com/blackwell-systems/logsweep/internal/output"
	"github.com/blackwell-systems/logsweep/internal/retention"
)

var (
	pruneRetain int
	pruneDryRun bool

	pruneCmd = &cobra.Command{
		Use:   "prune <dest-dir>",
		Short: "Delete archives older than the retention window",
		Long: `Delete archives in a destination directory whose modification time
is older than the retention window. Only files following the archive
naming convention are considered; the history log, the catalog and
anything else living in the directory are left alone.

The same pruning runs automatically after an archive run started with
--retain. This command exists for cleaning up on its own schedule.`,
		Example: `  # Delete archives older than 90 days
  logsweep prune /var/log/myapp/archives --retain 90

  # See what would be deleted
  logsweep prune /var/log/myapp/archives --retain 90 --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runPrune,
	}
)

func init() {
	pruneCmd.Flags().IntVar(&pruneRetain, "retain", config.RetainUnset, "delete archives older than this many days (required)")
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "report what would be deleted without deleting")

	// Register with root command
	RootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	if pruneRetain < 0 {
		return fmt.Errorf("missing --retain: archives older than that many days are deleted")
	}

	pruned, err := retention.Prune(args[0], pruneRetain, time.Now(), pruneDryRun)
	if err != nil {
		return err
	}

	fmt.Print(output.RenderPruneReport(pruned, pruneDryRun))
	return nil
}
