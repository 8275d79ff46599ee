package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/logsweep/internal/config"
	"github.com/blackwell-systems/logsweep/internal/history"
	"github.com/blackwell-systems/logsweep/internal/output"
)

var (
	historyLogFile string
	historyLimit   int

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show the archive history log",
		Long: `Render the history log as a table, newest entry first.

Every successful run appends one line per archive: when it was created,
how many files went in, the compressed size and the source directory.
The log is append-only and never rewritten, so it doubles as an audit
trail of everything the archiver has done.`,
		Example: `  # Show the history for a destination
  logsweep history --logfile /var/log/myapp/archives/archive_history.log

  # Only the five most recent entries
  logsweep history --logfile /var/log/myapp/archives/archive_history.log --limit 5`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().StringVar(&historyLogFile, "logfile", "", "history log path (default: from config file)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "show only the N most recent entries (0 shows all)")

	// Register with root command
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := historyLogFile
	if path == "" {
		cfg, err := config.LoadOrDefault(cfgFile)
		if err != nil {
			return err
		}
		path = cfg.Archive.LogFile
		if path == "" && cfg.Archive.Dest != "" {
			path = filepath.Join(cfg.Archive.Dest, history.DefaultFileName)
		}
	}
	if path == "" {
		return fmt.Errorf("no history log configured: pass --logfile or set archive.logFile in the config file")
	}

	entries, err := history.Read(path)
	if err != nil {
		return err
	}

	// Entries are in append order, oldest first, so the most recent N are
	// at the tail.
	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}

	fmt.Print(output.RenderHistoryTable(entries))
	return nil
}
