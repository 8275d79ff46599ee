package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestName(t *testing.T) {
	ts := time.Date(2024, 6, 1, 15, 30, 4, 0, time.Local)

	got := Name(ts)
	want := "logs_archive_20240601_153004.tar.gz"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2023, 12, 31, 23, 59, 59, 0, time.Local)

	parsed, err := Timestamp(Name(ts))
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("expected %v, got %v", ts, parsed)
	}
}

func TestIsArchiveName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"logs_archive_20240601_153004.tar.gz", true},
		{"logs_archive_20240601_153004.tar.gz.tmp-123456", false},
		{"logs_archive_.tar.gz", false},
		{"logs_archive_notatime.tar.gz", false},
		{"other_20240601_153004.tar.gz", false},
		{"logs_archive_20240601_153004.zip", false},
		{"archive_history.log", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsArchiveName(tt.name); got != tt.want {
				t.Errorf("IsArchiveName(%q) = %v, expected %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	files := map[string]string{
		"app.log":            "line one\nline two\n",
		"nested/worker.log":  "worker output",
		"nested/deep/gc.log": "",
	}
	var paths []string
	for rel, content := range files {
		full := filepath.Join(src, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
		paths = append(paths, full)
	}

	name := Name(time.Now())
	archivePath, err := Write(paths, src, dest, name, false)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if archivePath != filepath.Join(dest, name) {
		t.Errorf("expected archive at %s, got %s", filepath.Join(dest, name), archivePath)
	}

	// Members preserve paths relative to the source root.
	members, err := List(archivePath)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(members) != len(files) {
		t.Fatalf("expected %d members, got %d", len(files), len(members))
	}
	for _, m := range members {
		if _, ok := files[m.Name]; !ok {
			t.Errorf("unexpected member %q", m.Name)
		}
	}

	// Extracted content is byte-identical to the originals.
	unpacked := t.TempDir()
	if err := Extract(archivePath, unpacked); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for rel, content := range files {
		got, err := os.ReadFile(filepath.Join(unpacked, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("failed to read extracted %s: %v", rel, err)
		}
		if !bytes.Equal(got, []byte(content)) {
			t.Errorf("content mismatch for %s: expected %q, got %q", rel, content, got)
		}
	}
}

func TestWriteEmptyList(t *testing.T) {
	dest := t.TempDir()

	path, err := Write(nil, t.TempDir(), dest, Name(time.Now()), false)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path for empty candidate list, got %s", path)
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatalf("failed to read dest: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no I/O for empty candidate list, found %d entries", len(entries))
	}
}

func TestWriteDryRun(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	file := filepath.Join(src, "a.log")
	if err := os.WriteFile(file, []byte("a"), 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}

	name := Name(time.Now())
	path, err := Write([]string{file}, src, dest, name, true)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if path != filepath.Join(dest, name) {
		t.Errorf("expected would-be path %s, got %s", filepath.Join(dest, name), path)
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatalf("failed to read dest: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dry-run left %d entries in destination", len(entries))
	}
}

func TestWriteFailureLeavesNoArtifacts(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	existing := filepath.Join(src, "ok.log")
	if err := os.WriteFile(existing, []byte("ok"), 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}
	missing := filepath.Join(src, "vanished.log")

	name := Name(time.Now())
	_, err := Write([]string{existing, missing}, src, dest, name, false)
	if err == nil {
		t.Fatal("expected Write to fail on missing source file")
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatalf("failed to read dest: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), tmpPattern) {
			t.Errorf("orphaned temp file left behind: %s", e.Name())
		}
		if e.Name() == name {
			t.Errorf("partial archive published under final name: %s", e.Name())
		}
	}
	if len(entries) != 0 {
		t.Errorf("expected empty destination after failed write, found %d entries", len(entries))
	}
}

func TestExtractRejectsEscapingMembers(t *testing.T) {
	if _, err := secureJoin(filepath.Join(t.TempDir(), "out"), "../evil.log"); err == nil {
		t.Error("expected traversal member to be rejected")
	}
	if _, err := secureJoin(filepath.Join(t.TempDir(), "out"), "fine/inside.log"); err != nil {
		t.Errorf("expected nested member to be accepted, got %v", err)
	}
}
