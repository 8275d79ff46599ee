package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/logsweep/internal/output"
)

var (
	statsLogFile string
	statsDBPath  string
	statsList    bool

	statsCmd = &cobra.Command{
		Use:   "stats <dest-dir>",
		Short: "Show aggregate statistics for a destination directory",
		Long: `Sync the archive catalog for a destination directory, then print
aggregate statistics: archive and file counts, total compressed size,
distinct source directories and the age range of the catalog.

The catalog is rebuilt before reporting, so the numbers always reflect
what is on disk plus what the history log records. Use --list for one
row per archive instead of the aggregates.`,
		Example: `  # Aggregate statistics
  logsweep stats /var/log/myapp/archives

  # One row per archive, present or missing
  logsweep stats /var/log/myapp/archives --list`,
		Args: cobra.ExactArgs(1),
		RunE: runStats,
	}
)

func init() {
	statsCmd.Flags().StringVar(&statsLogFile, "logfile", "", "history log path (default: <dest-dir>/archive_history.log)")
	statsCmd.Flags().StringVar(&statsDBPath, "db", "", "catalog database path (default: <dest-dir>/logsweep.db)")
	statsCmd.Flags().BoolVar(&statsList, "list", false, "list cataloged archives instead of aggregates")

	// Register with root command
	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cat, _, err := openAndSync(args[0], statsLogFile, statsDBPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	if statsList {
		archives, err := cat.List()
		if err != nil {
			return err
		}
		fmt.Print(output.RenderArchiveTable(archives))
		return nil
	}

	s, err := cat.Stats()
	if err != nil {
		return err
	}
	fmt.Print(output.RenderStats(s))
	return nil
}
