package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/logsweep/internal/catalog"
	"github.com/blackwell-systems/logsweep/internal/history"
	"github.com/blackwell-systems/logsweep/internal/output"
)

var (
	syncLogFile string
	syncDBPath  string

	syncCmd = &cobra.Command{
		Use:   "sync <dest-dir>",
		Short: "Rebuild the archive catalog from disk and history",
		Long: `Rebuild the SQLite catalog for a destination directory.

The catalog is derived state: every history entry becomes a row, marked
present or missing depending on whether the archive file still exists,
and archives found on disk without a history line are added from what
the filename and stat can tell. Rebuilding always converges the catalog
on the ground truth, so it is safe to run at any time.`,
		Example: `  # Rebuild the catalog next to the archives
  logsweep sync /var/log/myapp/archives

  # Use a custom catalog location
  logsweep sync /var/log/myapp/archives --db /tmp/logsweep.db`,
		Args: cobra.ExactArgs(1),
		RunE: runSync,
	}
)

func init() {
	syncCmd.Flags().StringVar(&syncLogFile, "logfile", "", "history log path (default: <dest-dir>/archive_history.log)")
	syncCmd.Flags().StringVar(&syncDBPath, "db", "", "catalog database path (default: <dest-dir>/logsweep.db)")

	// Register with root command
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	spinner := output.NewSpinner("Rebuilding catalog")
	spinner.Start()

	cat, res, err := openAndSync(args[0], syncLogFile, syncDBPath)
	if err != nil {
		spinner.Stop()
		return err
	}
	defer cat.Close()
	spinner.StopWithMessage("✓ Catalog rebuilt")

	fmt.Printf("\n%d archives cataloged (%d without a history line, %d missing from disk)\n",
		res.Recorded+res.Orphans, res.Orphans, res.Missing)

	return nil
}

// openAndSync opens the catalog for a destination directory and re-derives
// it from the history log and the directory contents. The caller owns the
// returned catalog and must close it.
func openAndSync(destDir, logFile, dbPath string) (*catalog.Catalog, *catalog.SyncResult, error) {
	if logFile == "" {
		logFile = filepath.Join(destDir, history.DefaultFileName)
	}
	if dbPath == "" {
		dbPath = filepath.Join(destDir, catalog.DefaultFileName)
	}

	cat, err := catalog.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	res, err := cat.Rebuild(logFile, destDir)
	if err != nil {
		cat.Close()
		return nil, nil, err
	}

	return cat, res, nil
}
