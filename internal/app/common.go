package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/logsweep/internal/config"
	"github.com/blackwell-systems/logsweep/internal/logging"
)

// buildLogger constructs the process logger from the config file values
// with the global --verbose and --log-json flags applied on top.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	format := cfg.Logging.Format
	if logJSON {
		format = string(logging.FormatJSON)
	}

	return logging.New(logging.Config{Level: level, Format: format})
}

// defaultPIDFile returns the default PID file path for the watch daemon
func defaultPIDFile() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(dir, "watch.pid"), nil
}

// defaultDaemonLogFile returns the default output log path for the watch daemon
func defaultDaemonLogFile() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(dir, "watch.log"), nil
}
