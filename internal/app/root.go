package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/logsweep/internal/archiver"
	"github.com/blackwell-systems/logsweep/internal/config"
	"github.com/blackwell-systems/logsweep/internal/logging"
	"github.com/blackwell-systems/logsweep/internal/output"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	logJSON bool

	// Archive run flags
	archiveDays    int
	archiveDest    string
	archiveMove    bool
	archiveRetain  int
	archiveLogFile string
	archiveDryRun  bool

	// RootCmd is the root command for logsweep. Running it with a log
	// directory performs one archive sweep; everything else is a subcommand.
	RootCmd = &cobra.Command{
		Use:   "logsweep <log-dir>",
		Short: "Archive aged log files into timestamped tarballs",
		Long: `logsweep selects files older than a threshold from a log directory,
streams them into a timestamped .tar.gz under a destination directory,
and records each archive in an append-only history log.

Archives are published atomically: content is written to a temporary
file and renamed into place, so an interrupted run never leaves a
half-written archive behind. The destination directory and the history
log are always excluded from selection, so repeated runs never archive
their own output.

Quick Start:
  1. logsweep /var/log/myapp --days 7 --dry-run
  2. logsweep /var/log/myapp --days 7
  3. logsweep history --logfile /var/log/myapp/archives/archive_history.log

Examples:
  # Archive everything older than a week, keep originals
  logsweep /var/log/myapp --days 7

  # Archive, delete originals, prune archives older than 90 days
  logsweep /var/log/myapp --days 7 --move --retain 90

  # See what a run would do without touching anything
  logsweep /var/log/myapp --days 7 --move --dry-run

  # Sweep continuously as files age
  logsweep watch /var/log/myapp --days 7`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runArchive,
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: ~/.config/logsweep/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and verbose output")
	RootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	RootCmd.Flags().IntVar(&archiveDays, "days", config.DaysUnset, "minimum file age in days (-1 archives regardless of age)")
	RootCmd.Flags().StringVar(&archiveDest, "dest", "", "destination directory (default: <log-dir>/archives)")
	RootCmd.Flags().BoolVar(&archiveMove, "move", false, "delete originals after the archive is published")
	RootCmd.Flags().IntVar(&archiveRetain, "retain", config.RetainUnset, "delete archives older than this many days (-1 keeps everything)")
	RootCmd.Flags().StringVar(&archiveLogFile, "logfile", "", "history log path (default: <dest>/archive_history.log)")
	RootCmd.Flags().BoolVar(&archiveDryRun, "dry-run", false, "report intended actions without touching the filesystem")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func runArchive(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	// Flags override the config file, which overrides the defaults. Only
	// flags the user actually set count as overrides.
	opts := archiver.Options{
		Source:  args[0],
		Days:    cfg.Archive.Days,
		Dest:    cfg.Archive.Dest,
		Move:    cfg.Archive.Move,
		Retain:  cfg.Archive.Retain,
		LogFile: cfg.Archive.LogFile,
		DryRun:  archiveDryRun,
		Logger:  logging.Component(logger, "archiver"),
	}

	flags := cmd.Flags()
	if flags.Changed("days") {
		opts.Days = archiveDays
	}
	if flags.Changed("dest") {
		opts.Dest = archiveDest
	}
	if flags.Changed("move") {
		opts.Move = archiveMove
	}
	if flags.Changed("retain") {
		opts.Retain = archiveRetain
	}
	if flags.Changed("logfile") {
		opts.LogFile = archiveLogFile
	}

	result, err := archiver.Run(opts)
	if err != nil {
		return err
	}

	fmt.Print(output.RenderRunReport(result, verbose))
	return nil
}
