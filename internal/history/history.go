// Package history reads and writes the archive history log. Each run that
// produces an archive appends a single pipe-delimited line; the log is the
// durable record of what was archived, when, and from where.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultFileName is the history log created next to the archives when the
// caller does not choose another location.
const DefaultFileName = "archive_history.log"

// Entry is one recorded archiving run.
type Entry struct {
	Time    time.Time
	Archive string
	Files   int
	Size    int64
	Source  string
}

// Format renders the entry as a single history line without the trailing
// newline.
func (e Entry) Format() string {
	return fmt.Sprintf("%s | %s | files=%d | size=%d | src=%s",
		e.Time.Format(time.RFC3339), e.Archive, e.Files, e.Size, e.Source)
}

// Append adds one entry to the log at path, creating the file and its parent
// directory if needed. The write is a single line, so concurrent appenders
// cannot interleave fields.
func Append(path string, e Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(e.Format() + "\n"); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// ParseLine parses one history line back into an Entry.
func ParseLine(line string) (Entry, error) {
	parts := strings.Split(line, " | ")
	if len(parts) != 5 {
		return Entry{}, fmt.Errorf("expected 5 fields, got %d", len(parts))
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[0]))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	files, err := intField(parts[2], "files")
	if err != nil {
		return Entry{}, err
	}
	size, err := intField(parts[3], "size")
	if err != nil {
		return Entry{}, err
	}

	src, ok := strings.CutPrefix(parts[4], "src=")
	if !ok {
		return Entry{}, fmt.Errorf("missing src field")
	}

	return Entry{
		Time:    ts,
		Archive: strings.TrimSpace(parts[1]),
		Files:   int(files),
		Size:    size,
		Source:  src,
	}, nil
}

func intField(part, key string) (int64, error) {
	val, ok := strings.CutPrefix(part, key+"=")
	if !ok {
		return 0, fmt.Errorf("missing %s field", key)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s field: %w", key, err)
	}
	return n, nil
}

// Read loads all entries from the log at path, oldest first. A missing log
// is an empty history, not an error. Lines that do not parse are skipped so
// one corrupted line cannot make the whole history unreadable.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		e, err := ParseLine(line)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history log: %w", err)
	}
	return entries, nil
}
