// Package archive creates, lists and extracts the timestamped tar.gz
// containers that logsweep publishes into the destination directory.
package archive

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Prefix and Suffix bound every archive name logsweep produces.
	Prefix = "logs_archive_"
	Suffix = ".tar.gz"

	// timeLayout is the timestamp embedded in archive names. Second
	// resolution: two runs within the same second produce the same name,
	// an accepted limitation of the format.
	timeLayout = "20060102_150405"
)

// Name returns the archive file name for the given local time, e.g.
// logs_archive_20240601_153004.tar.gz.
func Name(t time.Time) string {
	return Prefix + t.Format(timeLayout) + Suffix
}

// IsArchiveName reports whether name matches the archive naming scheme.
func IsArchiveName(name string) bool {
	if !strings.HasPrefix(name, Prefix) || !strings.HasSuffix(name, Suffix) {
		return false
	}
	_, err := Timestamp(name)
	return err == nil
}

// Timestamp extracts the creation time embedded in an archive name.
func Timestamp(name string) (time.Time, error) {
	if !strings.HasPrefix(name, Prefix) || !strings.HasSuffix(name, Suffix) {
		return time.Time{}, fmt.Errorf("not an archive name: %s", name)
	}
	core := strings.TrimSuffix(strings.TrimPrefix(name, Prefix), Suffix)
	t, err := time.ParseInLocation(timeLayout, core, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid archive timestamp in %s: %w", name, err)
	}
	return t, nil
}
