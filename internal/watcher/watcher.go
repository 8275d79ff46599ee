// Package watcher runs archiving sweeps continuously.
//
// A sweep is an ordinary archiving run. The watcher triggers one three
// ways:
//   - once at startup, to clear any backlog
//   - on filesystem events in the source directory, debounced so a burst
//     of log writes collapses into a single run
//   - on an optional cron schedule for time-based sweeps
//
// Events caused by the watcher's own output (the destination directory,
// the history log, archive files and their temp files) never trigger a
// sweep, so a run cannot retrigger itself. Daemon mode with PID file
// management lives in daemon.go.
package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/blackwell-systems/logsweep/internal/archiver"
	"github.com/blackwell-systems/logsweep/internal/catalog"
	"github.com/blackwell-systems/logsweep/internal/metrics"
)

const defaultDebounce = 2 * time.Second

// Options configure a watch session.
type Options struct {
	// Archive is the run template. Its Source is the watched directory.
	Archive archiver.Options

	// Debounce is the quiet window after the last filesystem event before
	// a sweep fires. Zero means 2 seconds.
	Debounce time.Duration

	// Schedule is an optional cron expression (standard 5-field syntax)
	// for time-based sweeps.
	Schedule string

	// Metrics records sweep outcomes when set.
	Metrics *metrics.Collector

	// Catalog receives the history entry of each successful sweep when
	// set, keeping the archive catalog current without a manual sync.
	Catalog *catalog.Catalog

	// OnRun is called after every sweep. The result may be nil when the
	// run failed before selection.
	OnRun func(result *archiver.Result, err error)

	// Logger receives progress records. Nil discards them.
	Logger *slog.Logger
}

// Watcher triggers archiving runs from filesystem events and schedules.
type Watcher struct {
	opts    Options
	log     *slog.Logger
	source  string
	dest    string
	logFile string
	trigger chan string
}

// New validates the options and resolves the watched paths.
func New(opts Options) (*Watcher, error) {
	if opts.Archive.Source == "" {
		return nil, fmt.Errorf("watch source cannot be empty")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.Schedule != "" {
		if _, err := cron.ParseStandard(opts.Schedule); err != nil {
			return nil, fmt.Errorf("invalid cron schedule %q: %w", opts.Schedule, err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	source, dest, logFile, err := opts.Archive.Paths()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		opts:    opts,
		log:     logger,
		source:  source,
		dest:    dest,
		logFile: logFile,
		trigger: make(chan string, 1),
	}, nil
}

// Run watches until ctx is canceled. It sweeps once immediately, then on
// debounced filesystem events and on each schedule tick. All sweeps run
// on the calling goroutine, so they never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.source); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.source, err)
	}

	if w.opts.Schedule != "" {
		sched := cron.New()
		if _, err := sched.AddFunc(w.opts.Schedule, func() {
			select {
			case w.trigger <- "schedule":
			default:
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule sweeps: %w", err)
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	}

	w.log.Info("watching",
		"source", w.source, "debounce", w.opts.Debounce, "schedule", w.opts.Schedule)

	w.sweep(ctx, "startup")

	var debounce *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("event", "name", ev.Name, "op", ev.Op.String())
			if debounce == nil {
				debounce = time.NewTimer(w.opts.Debounce)
				pending = debounce.C
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(w.opts.Debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "error", err)

		case <-pending:
			debounce = nil
			pending = nil
			w.sweep(ctx, "events")

		case reason := <-w.trigger:
			w.sweep(ctx, reason)
		}
	}
}

// sweep executes one archiving run and records its outcome.
func (w *Watcher) sweep(ctx context.Context, reason string) {
	if ctx.Err() != nil {
		return
	}

	log := w.log.With("run_id", uuid.New().String(), "reason", reason)

	started := time.Now()
	result, err := archiver.Run(w.opts.Archive)
	elapsed := time.Since(started)

	status := "success"
	switch {
	case err != nil:
		status = "error"
		log.Error("sweep failed", "error", err)
	case result.NothingToArchive():
		log.Debug("nothing to archive")
	default:
		log.Info("sweep complete",
			"archive", result.Archive,
			"files", len(result.Candidates),
			"size", result.ArchiveSize,
			"moved", len(result.Moved),
			"pruned", len(result.Pruned),
			"duration", elapsed)
	}

	if w.opts.Metrics != nil {
		w.opts.Metrics.RecordRun(status, elapsed)
		if err == nil && result != nil && !result.NothingToArchive() {
			w.opts.Metrics.RecordArchive(len(result.Candidates), result.ArchiveSize)
			w.opts.Metrics.RecordDeleted(len(result.Moved))
			w.opts.Metrics.RecordPruned(len(result.Pruned))
		}
	}

	if w.opts.Catalog != nil && err == nil && result.Entry != nil && !result.DryRun {
		if cerr := w.opts.Catalog.Upsert(&catalog.Archive{
			Name:      result.Entry.Archive,
			CreatedAt: result.Entry.Time,
			Files:     result.Entry.Files,
			SizeBytes: result.Entry.Size,
			Source:    result.Entry.Source,
			Present:   true,
		}); cerr != nil {
			log.Error("failed to catalog archive", "error", cerr)
		}
	}

	if w.opts.OnRun != nil {
		w.opts.OnRun(result, err)
	}
}
