package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFile creates a file with the given content and modification time.
func writeFile(t *testing.T, path string, content string, mtime time.Time) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("failed to set mtime on %s: %v", path, err)
		}
	}
}

func names(t *testing.T, root string, candidates []Candidate) []string {
	t.Helper()

	out := make([]string, len(candidates))
	for i, c := range candidates {
		rel, err := filepath.Rel(root, c.Path)
		if err != nil {
			t.Fatalf("failed to relativize %s: %v", c.Path, err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestSelectAgeFilter(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	writeFile(t, filepath.Join(root, "old.log"), "old", now.Add(-10*24*time.Hour))
	writeFile(t, filepath.Join(root, "new.log"), "new", now.Add(-1*24*time.Hour))

	tests := []struct {
		name   string
		cutoff time.Time
		want   []string
	}{
		{
			name:   "no cutoff selects everything",
			cutoff: time.Time{},
			want:   []string{"new.log", "old.log"},
		},
		{
			name:   "five day cutoff selects only the old file",
			cutoff: Cutoff(now, 5),
			want:   []string{"old.log"},
		},
		{
			name:   "far future cutoff selects everything",
			cutoff: now.Add(24 * time.Hour),
			want:   []string{"new.log", "old.log"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(Options{Root: root, Cutoff: tt.cutoff})
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}

			gotNames := names(t, root, got)
			if len(gotNames) != len(tt.want) {
				t.Fatalf("expected %d candidates, got %d (%v)", len(tt.want), len(gotNames), gotNames)
			}
			for i, want := range tt.want {
				if gotNames[i] != want {
					t.Errorf("candidate %d: expected %s, got %s", i, want, gotNames[i])
				}
			}
		})
	}
}

func TestSelectCutoffBoundary(t *testing.T) {
	root := t.TempDir()
	cutoff := time.Now().Add(-5 * 24 * time.Hour).Truncate(time.Second)

	// Exactly at the cutoff: old enough, must be kept.
	writeFile(t, filepath.Join(root, "at.log"), "at", cutoff)
	// One second newer than the cutoff: too new, must be skipped.
	writeFile(t, filepath.Join(root, "after.log"), "after", cutoff.Add(time.Second))

	got, err := Select(Options{Root: root, Cutoff: cutoff})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	gotNames := names(t, root, got)
	if len(gotNames) != 1 || gotNames[0] != "at.log" {
		t.Errorf("expected [at.log], got %v", gotNames)
	}
}

func TestSelectExcludesDestination(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "archives")

	writeFile(t, filepath.Join(root, "a.log"), "a", time.Time{})
	writeFile(t, filepath.Join(dest, "logs_archive_20240101_000000.tar.gz"), "gz", time.Time{})
	writeFile(t, filepath.Join(dest, "archive_history.log"), "history", time.Time{})
	writeFile(t, filepath.Join(dest, "nested", "deep.log"), "deep", time.Time{})

	got, err := Select(Options{Root: root, Exclude: dest})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	gotNames := names(t, root, got)
	if len(gotNames) != 1 || gotNames[0] != "a.log" {
		t.Errorf("expected only a.log outside the destination, got %v", gotNames)
	}

	// A second pass must produce the same result: prior output stays excluded.
	again, err := Select(Options{Root: root, Exclude: dest})
	if err != nil {
		t.Fatalf("repeated Select failed: %v", err)
	}
	if len(again) != 1 {
		t.Errorf("expected repeated run to select 1 candidate, got %d", len(again))
	}
}

func TestSelectExcludesFiles(t *testing.T) {
	root := t.TempDir()
	logfile := filepath.Join(root, "archive_history.log")

	writeFile(t, filepath.Join(root, "a.log"), "a", time.Time{})
	writeFile(t, logfile, "history", time.Time{})

	got, err := Select(Options{Root: root, ExcludeFiles: []string{logfile}})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	gotNames := names(t, root, got)
	if len(gotNames) != 1 || gotNames[0] != "a.log" {
		t.Errorf("expected the history log to be excluded, got %v", gotNames)
	}
}

func TestSelectSkipsIrregularFiles(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.log")
	writeFile(t, target, "real", time.Time{})

	link := filepath.Join(root, "alias.log")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	got, err := Select(Options{Root: root})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	gotNames := names(t, root, got)
	if len(gotNames) != 1 || gotNames[0] != "real.log" {
		t.Errorf("expected symlink to be skipped, got %v", gotNames)
	}
}

func TestSelectPreservesSubdirectoryStructure(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "app", "access.log"), "x", time.Time{})
	writeFile(t, filepath.Join(root, "app", "error.log"), "x", time.Time{})
	writeFile(t, filepath.Join(root, "top.log"), "x", time.Time{})

	got, err := Select(Options{Root: root})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	want := []string{"app/access.log", "app/error.log", "top.log"}
	gotNames := names(t, root, got)
	if len(gotNames) != len(want) {
		t.Fatalf("expected %d candidates, got %v", len(want), gotNames)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Errorf("candidate %d: expected %s, got %s", i, want[i], gotNames[i])
		}
	}
}

func TestSelectDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"c.log", "a.log", "b.log"} {
		writeFile(t, filepath.Join(root, name), name, time.Time{})
	}

	first, err := Select(Options{Root: root})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	second, err := Select(Options{Root: root})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 candidates in both runs, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Path != second[i].Path {
			t.Errorf("order differs at %d: %s vs %s", i, first[i].Path, second[i].Path)
		}
	}
}

func TestSelectBadSource(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := Select(Options{Root: filepath.Join(t.TempDir(), "nope")})
		var bad *ErrBadSource
		if !errors.As(err, &bad) {
			t.Fatalf("expected ErrBadSource, got %v", err)
		}
	})

	t.Run("not a directory", func(t *testing.T) {
		root := t.TempDir()
		file := filepath.Join(root, "plain.log")
		writeFile(t, file, "x", time.Time{})

		_, err := Select(Options{Root: file})
		var bad *ErrBadSource
		if !errors.As(err, &bad) {
			t.Fatalf("expected ErrBadSource, got %v", err)
		}
	})
}

func TestCutoff(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got := Cutoff(now, 7)
	want := now.Add(-7 * 24 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("expected cutoff %v, got %v", want, got)
	}

	if zero := Cutoff(now, 0); !zero.Equal(now) {
		t.Errorf("expected zero-day cutoff to equal now, got %v", zero)
	}
}
