// Package retention removes archives that have outlived their retention
// window. Only files following the archive naming convention are considered;
// anything else living in the destination directory is left alone.
package retention

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/logsweep/internal/archive"
)

// Prune deletes archives in destDir whose modification time is before
// now minus retainDays days. With dryRun set it only reports what would be
// deleted. The returned slice holds the affected paths in directory order.
func Prune(destDir string, retainDays int, now time.Time, dryRun bool) ([]string, error) {
	if retainDays < 0 {
		return nil, fmt.Errorf("retention days must be non-negative, got %d", retainDays)
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read destination directory: %w", err)
	}

	cutoff := now.Add(-time.Duration(retainDays) * 24 * time.Hour)

	var pruned []string
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !archive.IsArchiveName(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to stat %s: %w", entry.Name(), err))
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(destDir, entry.Name())
		if !dryRun {
			if err := os.Remove(path); err != nil {
				errs = append(errs, fmt.Errorf("failed to remove %s: %w", entry.Name(), err))
				continue
			}
		}
		pruned = append(pruned, path)
	}

	return pruned, errors.Join(errs...)
}
