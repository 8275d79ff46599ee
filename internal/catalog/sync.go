package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/logsweep/internal/archive"
	"github.com/blackwell-systems/logsweep/internal/history"
)

// SyncResult summarizes a rebuild.
type SyncResult struct {
	Recorded int // rows derived from history entries
	Orphans  int // on-disk archives with no history line
	Missing  int // history entries whose archive is gone from disk
}

// Rebuild re-derives the whole catalog from the history log and the
// destination directory. History entries become rows with their recorded
// metadata; archives found on disk without a history line are added with
// what the filename and stat can tell. The previous catalog contents are
// discarded first, so a rebuild always converges on the ground truth.
func (c *Catalog) Rebuild(historyPath, destDir string) (*SyncResult, error) {
	entries, err := history.Read(historyPath)
	if err != nil {
		return nil, err
	}

	if err := c.Clear(); err != nil {
		return nil, err
	}

	result := &SyncResult{}
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		present := false
		if _, err := os.Stat(filepath.Join(destDir, e.Archive)); err == nil {
			present = true
		} else {
			result.Missing++
		}

		a := &Archive{
			Name:      e.Archive,
			CreatedAt: e.Time,
			Files:     e.Files,
			SizeBytes: e.Size,
			Source:    e.Source,
			Present:   present,
		}
		if err := c.Upsert(a); err != nil {
			return nil, err
		}
		seen[e.Archive] = true
		result.Recorded++
	}

	dirEntries, err := os.ReadDir(destDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read destination directory: %w", err)
	}

	for _, de := range dirEntries {
		if de.IsDir() || !archive.IsArchiveName(de.Name()) || seen[de.Name()] {
			continue
		}

		createdAt, err := archive.Timestamp(de.Name())
		if err != nil {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", de.Name(), err)
		}

		a := &Archive{
			Name:      de.Name(),
			CreatedAt: createdAt,
			SizeBytes: info.Size(),
			Present:   true,
		}
		if err := c.Upsert(a); err != nil {
			return nil, err
		}
		result.Orphans++
	}

	return result, nil
}
