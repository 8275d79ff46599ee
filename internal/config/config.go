// Package config provides configuration file parsing for logsweep.
//
// Everything in the file is optional. Values resolve with a fixed
// precedence: command-line flags override file values, file values
// override built-in defaults.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// DaysUnset marks an age threshold that was never configured. With no
// threshold every regular file in the source tree is a candidate.
const DaysUnset = -1

// RetainUnset marks a retention window that was never configured.
// Without one, old archives are kept forever.
const RetainUnset = -1

type Config struct {
	Archive ArchiveConfig `yaml:"archive"`
	Watch   WatchConfig   `yaml:"watch"`
	Catalog CatalogConfig `yaml:"catalog"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// ArchiveConfig mirrors the archiving flags of the root command.
// Dest and LogFile are resolved relative to the source directory when
// left empty, so they have no static default here.
type ArchiveConfig struct {
	Days    int    `yaml:"days"`
	Dest    string `yaml:"dest"`
	Move    bool   `yaml:"move"`
	Retain  int    `yaml:"retain"`
	LogFile string `yaml:"logFile"`
}

type WatchConfig struct {
	Schedule       string        `yaml:"schedule"`       // optional cron expression
	DebounceWindow time.Duration `yaml:"debounceWindow"` // e.g. 2s
	SettleWindow   time.Duration `yaml:"settleWindow"`   // quiet period before a triggered run
}

type CatalogConfig struct {
	Path string `yaml:"path"` // defaults to logsweep.db in the destination directory
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text", "json"
}

// Default returns the built-in configuration used when no file and no
// flags say otherwise.
func Default() *Config {
	return &Config{
		Archive: ArchiveConfig{
			Days:   DaysUnset,
			Retain: RetainUnset,
		},
		Watch: WatchConfig{
			DebounceWindow: 2 * time.Second,
			SettleWindow:   5 * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: ":9464",
			Path: "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Dir returns the logsweep config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/logsweep if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "logsweep"), nil
}
