// Package output provides terminal output utilities for logsweep.
//
// This package includes:
//   - Report rendering for archiving runs, including dry-run "would do" lines
//   - Table rendering for history entries, cataloged archives, and archive members
//   - A spinner for operations that block on I/O
//   - Human-readable formatting for sizes and dates
//
// All rendering uses ASCII characters and ANSI color codes for terminal
// output. Color is suppressed when stdout is not a TTY or NO_COLOR is set.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/logsweep/internal/archive"
	"github.com/blackwell-systems/logsweep/internal/archiver"
	"github.com/blackwell-systems/logsweep/internal/catalog"
	"github.com/blackwell-systems/logsweep/internal/history"
)

// ANSI color codes for status display
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderRunReport renders one line per action a run performed, or in
// dry-run mode one line per action it would perform. With verbose set the
// selected files are listed individually.
func RenderRunReport(r *archiver.Result, verbose bool) string {
	var sb strings.Builder

	if r.NothingToArchive() {
		fmt.Fprintf(&sb, "Nothing to archive in %s\n", r.Source)
		return sb.String()
	}

	if r.DryRun {
		if r.DestCreated {
			fmt.Fprintf(&sb, "Would create directory %s\n", r.Dest)
		}
		fmt.Fprintf(&sb, "Would archive %d files into %s\n", len(r.Candidates), r.Archive)
		if verbose {
			for _, c := range r.Candidates {
				fmt.Fprintf(&sb, "  %s\n", c.Path)
			}
		}
		if r.Entry != nil {
			fmt.Fprintf(&sb, "Would append to %s: %s\n", r.LogFile, r.Entry.Format())
		}
		for _, p := range r.Moved {
			fmt.Fprintf(&sb, "Would delete %s\n", p)
		}
		for _, p := range r.Pruned {
			fmt.Fprintf(&sb, "Would prune %s\n", p)
		}
		return sb.String()
	}

	if r.DestCreated {
		fmt.Fprintf(&sb, "Created directory %s\n", r.Dest)
	}
	fmt.Fprintf(&sb, "Archived %d files into %s (%s)\n",
		len(r.Candidates), r.Archive, formatSize(r.ArchiveSize))
	if verbose {
		for _, c := range r.Candidates {
			fmt.Fprintf(&sb, "  %s\n", c.Path)
		}
	}
	fmt.Fprintf(&sb, "Recorded history entry in %s\n", r.LogFile)
	if len(r.Moved) > 0 {
		fmt.Fprintf(&sb, "Deleted %d originals\n", len(r.Moved))
		if verbose {
			for _, p := range r.Moved {
				fmt.Fprintf(&sb, "  %s\n", p)
			}
		}
	}
	if len(r.Pruned) > 0 {
		fmt.Fprintf(&sb, "Pruned %d expired archives\n", len(r.Pruned))
		if verbose {
			for _, p := range r.Pruned {
				fmt.Fprintf(&sb, "  %s\n", p)
			}
		}
	}

	return sb.String()
}

// RenderPruneReport renders the outcome of a standalone prune.
func RenderPruneReport(pruned []string, dryRun bool) string {
	if len(pruned) == 0 {
		return "No expired archives found.\n"
	}

	var sb strings.Builder
	if dryRun {
		fmt.Fprintf(&sb, "Would prune %d archives:\n", len(pruned))
	} else {
		fmt.Fprintf(&sb, "Pruned %d archives:\n", len(pruned))
	}
	for _, p := range pruned {
		fmt.Fprintf(&sb, "  %s\n", p)
	}
	return sb.String()
}

// RenderHistoryTable renders the history log as a table, newest entry first.
func RenderHistoryTable(entries []history.Entry) string {
	if len(entries) == 0 {
		return "No history entries found.\n"
	}

	sorted := make([]history.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.After(sorted[j].Time)
	})

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-20s %-38s %6s %9s  %s\n",
		"Created", "Archive", "Files", "Size", "Source"))
	sb.WriteString(strings.Repeat("─", 100))
	sb.WriteString("\n")

	for _, e := range sorted {
		sb.WriteString(fmt.Sprintf("%-20s %-38s %6d %9s  %s\n",
			e.Time.Format("2006-01-02 15:04:05"),
			truncate(e.Archive, 38),
			e.Files,
			formatSize(e.Size),
			e.Source))
	}

	return sb.String()
}

// RenderArchiveTable renders cataloged archives, newest first. Archives
// whose file is gone from disk are marked missing.
func RenderArchiveTable(archives []*catalog.Archive) string {
	if len(archives) == 0 {
		return "No archives cataloged. Run 'logsweep sync' to rebuild the catalog.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-38s %-15s %6s %9s  %s\n",
		"Archive", "Created", "Files", "Size", "Status"))
	sb.WriteString(strings.Repeat("─", 90))
	sb.WriteString("\n")

	for _, a := range archives {
		status := colorize(colorGreen, "present")
		if !a.Present {
			status = colorize(colorRed, "missing")
		}

		sb.WriteString(fmt.Sprintf("%-38s %-15s %6d %9s  %s\n",
			truncate(a.Name, 38),
			formatRelativeTime(a.CreatedAt),
			a.Files,
			formatSize(a.SizeBytes),
			status))
	}

	return sb.String()
}

// RenderStats renders aggregate catalog statistics as key-value lines.
func RenderStats(s *catalog.Stats) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Archives:    %d (%d on disk)\n", s.Archives, s.Present)
	fmt.Fprintf(&sb, "Files:       %d\n", s.TotalFiles)
	fmt.Fprintf(&sb, "Total size:  %s\n", formatSize(s.TotalBytes))
	fmt.Fprintf(&sb, "Sources:     %d\n", s.Sources)
	fmt.Fprintf(&sb, "Oldest:      %s\n", formatTimestamp(s.OldestAt))
	fmt.Fprintf(&sb, "Newest:      %s\n", formatTimestamp(s.NewestAt))

	return sb.String()
}

// RenderMemberTable renders the members of an archive.
func RenderMemberTable(members []archive.Member) string {
	if len(members) == 0 {
		return "Archive is empty.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-50s %9s  %s\n", "Name", "Size", "Modified"))
	sb.WriteString(strings.Repeat("─", 82))
	sb.WriteString("\n")

	var total int64
	for _, m := range members {
		sb.WriteString(fmt.Sprintf("%-50s %9s  %s\n",
			truncate(m.Name, 50),
			formatSize(m.Size),
			m.ModTime.Format("2006-01-02 15:04:05")))
		total += m.Size
	}

	sb.WriteString(fmt.Sprintf("\n%d members, %s uncompressed\n", len(members), formatSize(total)))

	return sb.String()
}

// formatSize converts bytes to human-readable size (GB, MB, KB).
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.0f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatTimestamp formats a time for display, with zero shown as "never".
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case diff < 365*24*time.Hour:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := int(diff.Hours() / 24 / 365)
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
