package watcher

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/logsweep/internal/archive"
)

// relevant reports whether a filesystem event should trigger a sweep.
// Chmod-only events never do, and neither do events for the watcher's own
// output: the destination subtree, the history log, archive files and
// their in-flight temp files.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	path := ev.Name
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if path == w.logFile {
		return false
	}
	if path == w.dest || strings.HasPrefix(path, w.dest+string(filepath.Separator)) {
		return false
	}

	base := filepath.Base(path)
	if archive.IsArchiveName(base) || strings.Contains(base, ".tar.gz.tmp-") {
		return false
	}

	return true
}
