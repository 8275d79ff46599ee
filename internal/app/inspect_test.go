package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/logsweep/internal/archive"
)

func TestInspectCommand(t *testing.T) {
	if inspectCmd.Use != "inspect <archive>" {
		t.Errorf("expected Use to be 'inspect <archive>', got '%s'", inspectCmd.Use)
	}

	if inspectCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if inspectCmd.RunE == nil {
		t.Error("expected RunE to be set")
	}

	if inspectCmd.Flags().Lookup("extract") == nil {
		t.Error("expected --extract flag to be registered")
	}
}

func TestInspectCommandRegistration(t *testing.T) {
	found := false
	for _, cmd := range RootCmd.Commands() {
		if cmd.Name() == "inspect" {
			found = true
			break
		}
	}

	if !found {
		t.Error("inspect command not registered with root command")
	}
}

func writeInspectArchive(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	dest := t.TempDir()

	file := filepath.Join(src, "app.log")
	if err := os.WriteFile(file, []byte("hello from app.log\n"), 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}

	path, err := archive.Write([]string{file}, src, dest, "logs_archive_20250110_030000.tar.gz", false)
	if err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}
	return path
}

func TestRunInspectListsMembers(t *testing.T) {
	path := writeInspectArchive(t)

	oldExtract := inspectExtract
	inspectExtract = ""
	defer func() { inspectExtract = oldExtract }()

	var runErr error
	out := captureStdout(t, func() {
		runErr = runInspect(inspectCmd, []string{path})
	})
	if runErr != nil {
		t.Fatalf("unexpected error: %v", runErr)
	}

	if !strings.Contains(out, "app.log") {
		t.Errorf("expected member name in listing, got:\n%s", out)
	}
	if !strings.Contains(out, "1 members") {
		t.Errorf("expected member count, got:\n%s", out)
	}
}

func TestRunInspectExtract(t *testing.T) {
	path := writeInspectArchive(t)
	target := t.TempDir()

	oldExtract := inspectExtract
	inspectExtract = target
	defer func() { inspectExtract = oldExtract }()

	var runErr error
	out := captureStdout(t, func() {
		runErr = runInspect(inspectCmd, []string{path})
	})
	if runErr != nil {
		t.Fatalf("unexpected error: %v", runErr)
	}

	if !strings.Contains(out, "Extracted 1 members") {
		t.Errorf("expected extraction confirmation, got:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(target, "app.log"))
	if err != nil {
		t.Fatalf("expected extracted file: %v", err)
	}
	if string(data) != "hello from app.log\n" {
		t.Errorf("extracted content mismatch: %q", data)
	}
}

func TestRunInspectMissingArchive(t *testing.T) {
	oldExtract := inspectExtract
	inspectExtract = ""
	defer func() { inspectExtract = oldExtract }()

	err := runInspect(inspectCmd, []string{filepath.Join(t.TempDir(), "no_such.tar.gz")})
	if err == nil {
		t.Fatal("expected an error for a missing archive")
	}
}
