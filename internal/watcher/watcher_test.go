package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/blackwell-systems/logsweep/internal/archiver"
	"github.com/blackwell-systems/logsweep/internal/catalog"
	"github.com/blackwell-systems/logsweep/internal/config"
	"github.com/blackwell-systems/logsweep/internal/metrics"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func archiveEverything(source string) archiver.Options {
	return archiver.Options{
		Source: source,
		Days:   config.DaysUnset,
		Retain: config.RetainUnset,
	}
}

func TestNewValidation(t *testing.T) {
	source := t.TempDir()

	t.Run("empty source", func(t *testing.T) {
		_, err := New(Options{})
		if err == nil {
			t.Error("expected error for empty source")
		}
	})

	t.Run("invalid schedule", func(t *testing.T) {
		_, err := New(Options{
			Archive:  archiveEverything(source),
			Schedule: "not a cron expression",
		})
		if err == nil {
			t.Error("expected error for invalid schedule")
		}
	})

	t.Run("valid schedule", func(t *testing.T) {
		_, err := New(Options{
			Archive:  archiveEverything(source),
			Schedule: "0 3 * * *",
		})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("debounce default", func(t *testing.T) {
		w, err := New(Options{Archive: archiveEverything(source)})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if w.opts.Debounce != defaultDebounce {
			t.Errorf("debounce = %v, want %v", w.opts.Debounce, defaultDebounce)
		}
	})
}

func TestSweepRecordsCatalogAndMetrics(t *testing.T) {
	source := t.TempDir()
	writeFile(t, filepath.Join(source, "a.log"), "payload")

	cat, err := catalog.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	defer cat.Close()

	col := metrics.NewCollector(nil)

	var gotResult *archiver.Result
	var gotErr error
	w, err := New(Options{
		Archive: archiveEverything(source),
		Catalog: cat,
		Metrics: col,
		OnRun: func(r *archiver.Result, err error) {
			gotResult, gotErr = r, err
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	w.sweep(context.Background(), "test")

	if gotErr != nil {
		t.Fatalf("sweep failed: %v", gotErr)
	}
	if gotResult == nil || gotResult.NothingToArchive() {
		t.Fatal("sweep archived nothing")
	}

	archives, err := cat.List()
	if err != nil {
		t.Fatalf("failed to list catalog: %v", err)
	}
	if len(archives) != 1 {
		t.Fatalf("expected 1 cataloged archive, got %d", len(archives))
	}
	if archives[0].Name != gotResult.Entry.Archive || !archives[0].Present {
		t.Errorf("unexpected catalog row: %+v", archives[0])
	}

	n, err := testutil.GatherAndCount(col.Registry(), "logsweep_runs_total")
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 runs_total series, got %d", n)
	}
}

func TestSweepReportsFailure(t *testing.T) {
	var gotResult *archiver.Result
	var gotErr error
	w, err := New(Options{
		Archive: archiver.Options{
			Source: filepath.Join(t.TempDir(), "absent"),
			Days:   config.DaysUnset,
			Retain: config.RetainUnset,
		},
		OnRun: func(r *archiver.Result, err error) {
			gotResult, gotErr = r, err
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	w.sweep(context.Background(), "test")

	if gotErr == nil {
		t.Error("expected sweep error for missing source")
	}
	if gotResult != nil {
		t.Errorf("expected nil result, got %+v", gotResult)
	}
}

func TestRunStartupSweep(t *testing.T) {
	source := t.TempDir()
	writeFile(t, filepath.Join(source, "a.log"), "payload")

	results := make(chan *archiver.Result, 8)
	w, err := New(Options{
		Archive:  archiveEverything(source),
		Debounce: 50 * time.Millisecond,
		OnRun: func(r *archiver.Result, err error) {
			if err != nil {
				t.Errorf("sweep failed: %v", err)
				return
			}
			results <- r
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case r := <-results:
		if r.NothingToArchive() {
			t.Error("startup sweep found no candidates")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("startup sweep never ran")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestRunSweepsOnEvents(t *testing.T) {
	source := t.TempDir()

	results := make(chan *archiver.Result, 8)
	w, err := New(Options{
		Archive:  archiveEverything(source),
		Debounce: 50 * time.Millisecond,
		OnRun: func(r *archiver.Result, err error) {
			if err != nil {
				t.Errorf("sweep failed: %v", err)
				return
			}
			results <- r
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Startup sweep on an empty directory archives nothing.
	select {
	case r := <-results:
		if !r.NothingToArchive() {
			t.Errorf("startup sweep archived %d files from an empty directory", len(r.Candidates))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("startup sweep never ran")
	}

	writeFile(t, filepath.Join(source, "b.log"), "payload")

	select {
	case r := <-results:
		if len(r.Candidates) != 1 {
			t.Errorf("expected 1 candidate after event, got %d", len(r.Candidates))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("filesystem event never triggered a sweep")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}
