// Package scanner selects candidate log files for archiving.
//
// A candidate is a regular file under the source root whose modification
// time is at or before the age cutoff. Files inside the destination
// directory are never candidates, so repeated runs do not archive prior
// archives or the history log.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Candidate is a regular file selected for inclusion in the next archive.
type Candidate struct {
	Path    string // absolute path
	Size    int64
	ModTime time.Time
}

// Options control a selection pass.
type Options struct {
	// Root is the source directory to walk. It must exist and be a directory.
	Root string

	// Exclude is a directory subtree to skip entirely (the archive
	// destination). Empty means nothing is excluded.
	Exclude string

	// ExcludeFiles lists exact file paths to skip, such as a history log
	// placed outside the destination directory.
	ExcludeFiles []string

	// Cutoff is the maximum modification time for a file to qualify.
	// Files modified strictly after Cutoff are skipped. The zero value
	// disables age filtering.
	Cutoff time.Time
}

// ErrBadSource reports a source root that is missing or not a directory.
// Callers use it to distinguish configuration errors from I/O failures.
type ErrBadSource struct {
	Path string
	Err  error
}

func (e *ErrBadSource) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source directory %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("source directory %s: not a directory", e.Path)
}

func (e *ErrBadSource) Unwrap() error { return e.Err }

// Select walks the source root and returns candidates in lexical walk
// order, which keeps runs reproducible. It performs read-only stat calls
// and never mutates the filesystem.
func Select(opts Options) ([]Candidate, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &ErrBadSource{Path: opts.Root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ErrBadSource{Path: opts.Root}
	}

	var exclude string
	if opts.Exclude != "" {
		exclude, err = filepath.Abs(opts.Exclude)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve destination path: %w", err)
		}
	}

	excludeFiles := make(map[string]bool, len(opts.ExcludeFiles))
	for _, p := range opts.ExcludeFiles {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve excluded path: %w", err)
		}
		excludeFiles[abs] = true
	}

	var candidates []Candidate
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if exclude != "" && path == exclude {
				return filepath.SkipDir
			}
			return nil
		}

		// Regular files only: symlinks, devices and sockets are skipped.
		if !d.Type().IsRegular() {
			return nil
		}

		if excludeFiles[path] {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		if !opts.Cutoff.IsZero() && fi.ModTime().After(opts.Cutoff) {
			return nil
		}

		candidates = append(candidates, Candidate{
			Path:    path,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", opts.Root, err)
	}

	return candidates, nil
}

// Cutoff converts a minimum age in days to a modification-time cutoff
// relative to now. Files modified after the returned time are too new to
// archive.
func Cutoff(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}
