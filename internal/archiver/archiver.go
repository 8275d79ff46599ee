// Package archiver runs the archiving pipeline: select candidate files,
// write the archive, record it in the history log, then optionally delete
// the originals and prune expired archives. The sequence is strictly
// linear and short-circuits on the first failure.
package archiver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/logsweep/internal/archive"
	"github.com/blackwell-systems/logsweep/internal/config"
	"github.com/blackwell-systems/logsweep/internal/history"
	"github.com/blackwell-systems/logsweep/internal/retention"
	"github.com/blackwell-systems/logsweep/internal/scanner"
)

// DefaultDestName is the directory created under the source for archives
// when no destination is configured.
const DefaultDestName = "archives"

// Options configure a single archiving run.
type Options struct {
	// Source is the log directory to archive from. Required.
	Source string

	// Days is the minimum age in days for a file to be archived.
	// config.DaysUnset disables age filtering.
	Days int

	// Dest is the archive destination directory. Empty means
	// {source}/archives.
	Dest string

	// Move deletes the originals after the archive is published.
	Move bool

	// Retain prunes archives older than this many days after a successful
	// run. config.RetainUnset disables pruning.
	Retain int

	// LogFile is the history log path. Empty means
	// {dest}/archive_history.log.
	LogFile string

	// Settle excludes files modified within this window, so a file still
	// being written when a watch run fires is left for a later run. Zero
	// disables it.
	Settle time.Duration

	// DryRun reports every intended action without touching the
	// filesystem.
	DryRun bool

	// Now supplies the current time. Nil means time.Now. Tests inject a
	// fixed clock to make age cutoffs reproducible.
	Now func() time.Time

	// Logger receives progress records. Nil discards them.
	Logger *slog.Logger
}

// Result describes what a run did, or in dry-run mode what it would do.
type Result struct {
	Source  string // resolved absolute source directory
	Dest    string // resolved destination directory
	LogFile string // resolved history log path
	DryRun  bool

	// DestCreated is true when the destination directory did not exist
	// and was created (or would be, in dry-run mode).
	DestCreated bool

	// Candidates are the files selected for archiving.
	Candidates []scanner.Candidate

	// Archive is the published archive path, or the would-be path in
	// dry-run mode. Empty when there was nothing to archive.
	Archive string

	// ArchiveSize is the archive size in bytes. Zero in dry-run mode
	// since no archive is written.
	ArchiveSize int64

	// Entry is the history line that was appended, or would be. Nil when
	// there was nothing to archive.
	Entry *history.Entry

	// Moved lists originals deleted after archiving.
	Moved []string

	// Pruned lists archives deleted by retention.
	Pruned []string
}

// NothingToArchive reports whether the run found no candidates.
func (r *Result) NothingToArchive() bool {
	return len(r.Candidates) == 0
}

// Paths resolves the absolute source, destination and history log paths a
// run with these options would use, applying the default destination and
// log file locations.
func (o Options) Paths() (source, dest, logFile string, err error) {
	source, err = filepath.Abs(o.Source)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to resolve source path: %w", err)
	}

	dest = o.Dest
	if dest == "" {
		dest = filepath.Join(source, DefaultDestName)
	}
	dest, err = filepath.Abs(dest)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to resolve destination path: %w", err)
	}

	logFile = o.LogFile
	if logFile == "" {
		logFile = filepath.Join(dest, history.DefaultFileName)
	}
	logFile, err = filepath.Abs(logFile)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to resolve history log path: %w", err)
	}

	return source, dest, logFile, nil
}

// Run executes the pipeline. A missing or non-directory source fails with
// a scanner.ErrBadSource before anything else happens. An empty selection
// terminates the run successfully without archiving, recording, moving or
// pruning. Failures after the archive is published do not roll it back;
// the returned Result reflects whatever completed.
func Run(opts Options) (*Result, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	source, dest, logFile, err := opts.Paths()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Source:  source,
		Dest:    dest,
		LogFile: logFile,
		DryRun:  opts.DryRun,
	}

	startedAt := now()

	var cutoff time.Time
	if opts.Days != config.DaysUnset {
		cutoff = scanner.Cutoff(startedAt, opts.Days)
	}
	if opts.Settle > 0 {
		settled := startedAt.Add(-opts.Settle)
		if cutoff.IsZero() || settled.Before(cutoff) {
			cutoff = settled
		}
	}

	candidates, err := scanner.Select(scanner.Options{
		Root:         source,
		Exclude:      dest,
		ExcludeFiles: []string{logFile},
		Cutoff:       cutoff,
	})
	if err != nil {
		return nil, err
	}
	result.Candidates = candidates
	logger.Debug("selected candidates", "count", len(candidates), "source", source)

	if len(candidates) == 0 {
		logger.Info("nothing to archive", "source", source)
		return result, nil
	}

	if _, err := os.Stat(dest); os.IsNotExist(err) {
		result.DestCreated = true
	}
	if !opts.DryRun && result.DestCreated {
		if err := os.MkdirAll(dest, 0755); err != nil {
			return result, fmt.Errorf("failed to create destination directory: %w", err)
		}
	}

	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.Path
	}

	name := archive.Name(startedAt)
	archivePath, err := archive.Write(paths, source, dest, name, opts.DryRun)
	if err != nil {
		return result, err
	}
	result.Archive = archivePath

	if !opts.DryRun {
		info, err := os.Stat(archivePath)
		if err != nil {
			return result, fmt.Errorf("failed to stat archive: %w", err)
		}
		result.ArchiveSize = info.Size()
	}

	entry := &history.Entry{
		Time:    startedAt,
		Archive: name,
		Files:   len(candidates),
		Size:    result.ArchiveSize,
		Source:  source,
	}
	result.Entry = entry
	if !opts.DryRun {
		if err := history.Append(logFile, *entry); err != nil {
			return result, err
		}
	}
	logger.Info("archive created",
		"archive", archivePath, "files", len(candidates), "size", result.ArchiveSize, "dry_run", opts.DryRun)

	if opts.Move {
		moved, err := removeOriginals(candidates, opts.DryRun)
		result.Moved = moved
		if err != nil {
			return result, err
		}
		logger.Info("originals removed", "count", len(moved), "dry_run", opts.DryRun)
	}

	if opts.Retain != config.RetainUnset {
		pruned, err := retention.Prune(dest, opts.Retain, startedAt, opts.DryRun)
		result.Pruned = pruned
		if err != nil {
			return result, err
		}
		if len(pruned) > 0 {
			logger.Info("expired archives pruned", "count", len(pruned), "dry_run", opts.DryRun)
		}
	}

	return result, nil
}

// removeOriginals deletes the archived files. Failures are collected so
// one undeletable file does not hide the rest; whatever was deleted stays
// deleted.
func removeOriginals(candidates []scanner.Candidate, dryRun bool) ([]string, error) {
	var moved []string
	var errs []error
	for _, c := range candidates {
		if !dryRun {
			if err := os.Remove(c.Path); err != nil {
				errs = append(errs, fmt.Errorf("failed to remove %s: %w", c.Path, err))
				continue
			}
		}
		moved = append(moved, c.Path)
	}
	return moved, errors.Join(errs...)
}
