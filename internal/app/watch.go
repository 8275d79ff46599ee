package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/logsweep/internal/archiver"
	"github.com/blackwell-systems/logsweep/internal/catalog"
	"github.com/blackwell-systems/logsweep/internal/config"
	"github.com/blackwell-systems/logsweep/internal/logging"
	"github.com/blackwell-systems/logsweep/internal/metrics"
	"github.com/blackwell-systems/logsweep/internal/output"
	"github.com/blackwell-systems/logsweep/internal/watcher"
)

var (
	watchDays        int
	watchDest        string
	watchMove        bool
	watchRetain      int
	watchHistoryLog  string
	watchSettle      time.Duration
	watchDebounce    time.Duration
	watchSchedule    string
	watchMetricsAddr string
	watchDetach      bool
	watchStop        bool
	watchPIDFile     string
	watchDaemonLog   string

	watchCmd = &cobra.Command{
		Use:   "watch <log-dir>",
		Short: "Watch a log directory and archive continuously",
		Long: `Run the archiver continuously, sweeping the log directory when it
changes instead of only when invoked.

A sweep runs at startup, after bursts of filesystem events settle, and
optionally on a cron schedule. Files modified within the settle window
are left for a later sweep so a log still being written is never
archived mid-line. The archive flags behave exactly as they do for a
one-shot run.

Watch modes:
  • Foreground (default): runs in the current terminal, Ctrl+C to stop
  • Detached: runs as a background daemon
  • Stop: stops a running daemon`,
		Example: `  # Watch in the foreground
  logsweep watch /var/log/myapp --days 7

  # Also sweep at 03:00 every day
  logsweep watch /var/log/myapp --days 7 --schedule "0 3 * * *"

  # Run detached with Prometheus metrics
  logsweep watch /var/log/myapp --days 7 --detach --metrics-addr :9464

  # Stop the daemon
  logsweep watch --stop`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().IntVar(&watchDays, "days", config.DaysUnset, "minimum file age in days (-1 archives regardless of age)")
	watchCmd.Flags().StringVar(&watchDest, "dest", "", "destination directory (default: <log-dir>/archives)")
	watchCmd.Flags().BoolVar(&watchMove, "move", false, "delete originals after each archive is published")
	watchCmd.Flags().IntVar(&watchRetain, "retain", config.RetainUnset, "delete archives older than this many days after each sweep (-1 keeps everything)")
	watchCmd.Flags().StringVar(&watchHistoryLog, "logfile", "", "history log path (default: <dest>/archive_history.log)")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 0, "skip files modified within this window (default: 5s)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period after filesystem events before a sweep (default: 2s)")
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "cron expression for scheduled sweeps")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	watchCmd.Flags().BoolVar(&watchDetach, "detach", false, "run as a background daemon")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop a running daemon")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.config/logsweep/watch.pid)")
	watchCmd.Flags().StringVar(&watchDaemonLog, "daemon-log", "", "daemon output log path (default: ~/.config/logsweep/watch.log)")

	// Register with root command
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPIDFile == "" {
		p, err := defaultPIDFile()
		if err != nil {
			return err
		}
		watchPIDFile = p
	}
	if watchDaemonLog == "" {
		p, err := defaultDaemonLogFile()
		if err != nil {
			return err
		}
		watchDaemonLog = p
	}

	if watchStop {
		return stopWatchDaemon()
	}

	if len(args) == 0 {
		return fmt.Errorf("missing log directory (usage: logsweep watch <log-dir>)")
	}

	if watchDetach {
		return startWatchDaemon(cmd, args[0])
	}

	return runWatchForeground(cmd, args[0])
}

func runWatchForeground(cmd *cobra.Command, source string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	opts := watchOptions(cmd, cfg, source, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srcDir, destDir, _, err := opts.Archive.Paths()
	if err != nil {
		return err
	}

	// Each successful sweep upserts its archive, so the stats command
	// stays current without a manual sync.
	dbPath := cfg.Catalog.Path
	if dbPath == "" {
		dbPath = filepath.Join(destDir, catalog.DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	cat, err := catalog.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer cat.Close()
	opts.Catalog = cat

	metricsAddr := cfg.Metrics.Addr
	if cmd.Flags().Changed("metrics-addr") {
		metricsAddr = watchMetricsAddr
	}
	if cfg.Metrics.Enabled || cmd.Flags().Changed("metrics-addr") {
		col := metrics.NewCollector(nil)
		opts.Metrics = col
		go func() {
			if err := col.Serve(ctx, metricsAddr, cfg.Metrics.Path, logging.Component(logger, "metrics")); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	opts.OnRun = func(result *archiver.Result, err error) {
		if err != nil || result == nil || result.NothingToArchive() {
			return
		}
		fmt.Printf("Archived %d files into %s\n", len(result.Candidates), result.Archive)
	}

	w, err := watcher.New(opts)
	if err != nil {
		return err
	}

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", srcDir)

	if err := w.Run(ctx); err != nil {
		return err
	}

	fmt.Println("Watch stopped")
	removeOwnPIDFile(watchPIDFile)

	return nil
}

// watchOptions merges the watch flags over the config file the same way
// the root command does for one-shot runs.
func watchOptions(cmd *cobra.Command, cfg *config.Config, source string, logger *slog.Logger) watcher.Options {
	aopts := archiver.Options{
		Source:  source,
		Days:    cfg.Archive.Days,
		Dest:    cfg.Archive.Dest,
		Move:    cfg.Archive.Move,
		Retain:  cfg.Archive.Retain,
		LogFile: cfg.Archive.LogFile,
		Settle:  cfg.Watch.SettleWindow,
		Logger:  logging.Component(logger, "archiver"),
	}

	flags := cmd.Flags()
	if flags.Changed("days") {
		aopts.Days = watchDays
	}
	if flags.Changed("dest") {
		aopts.Dest = watchDest
	}
	if flags.Changed("move") {
		aopts.Move = watchMove
	}
	if flags.Changed("retain") {
		aopts.Retain = watchRetain
	}
	if flags.Changed("logfile") {
		aopts.LogFile = watchHistoryLog
	}
	if flags.Changed("settle") {
		aopts.Settle = watchSettle
	}

	opts := watcher.Options{
		Archive:  aopts,
		Debounce: cfg.Watch.DebounceWindow,
		Schedule: cfg.Watch.Schedule,
		Logger:   logging.Component(logger, "watcher"),
	}
	if flags.Changed("debounce") {
		opts.Debounce = watchDebounce
	}
	if flags.Changed("schedule") {
		opts.Schedule = watchSchedule
	}

	return opts
}

func startWatchDaemon(cmd *cobra.Command, source string) error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon already running (PID file: %s)", watchPIDFile)
	}

	spinner := output.NewSpinner("Starting daemon")
	spinner.Start()
	if err := watcher.StartDaemon(watchPIDFile, watchDaemonLog, daemonArgs(cmd, source)...); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon started")

	fmt.Printf("\nWatch daemon started\n")
	fmt.Printf("  PID file: %s\n", watchPIDFile)
	fmt.Printf("  Log file: %s\n", watchDaemonLog)
	fmt.Printf("\nTo stop: logsweep watch --stop\n")

	return nil
}

func stopWatchDaemon() error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		fmt.Println("Daemon is not running")
		return nil
	}

	spinner := output.NewSpinner("Stopping daemon")
	spinner.Start()
	if err := watcher.StopDaemon(watchPIDFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon stopped")

	return nil
}

// daemonArgs rebuilds the argument list for the detached child process:
// the same watch invocation minus the daemon control flags, plus the
// resolved PID file so the child can clean it up on shutdown.
func daemonArgs(cmd *cobra.Command, source string) []string {
	args := []string{"watch", source, "--pid-file=" + watchPIDFile}

	flags := cmd.Flags()
	for _, name := range []string{
		"days", "dest", "move", "retain", "logfile",
		"settle", "debounce", "schedule", "metrics-addr",
		"config", "verbose", "log-json",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			args = append(args, "--"+name+"="+f.Value.String())
		}
	}

	return args
}

// removeOwnPIDFile deletes the PID file when it names this process, so a
// stopping daemon cleans up after itself without clobbering the file of
// another instance.
func removeOwnPIDFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid != os.Getpid() {
		return
	}
	watcher.RemovePIDFile(path)
}
