package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := envPattern.FindStringSubmatch(m)[1]
		return os.Getenv(key)
	})
}

// Load reads the YAML file at path over the built-in defaults. Fields the
// file does not mention keep their default values, so a one-line config
// file is valid. $(ENV_VAR) placeholders are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the file at path when one is given. With an empty
// path it tries {config dir}/config.yaml and falls back to the defaults
// when no such file exists. An explicit path that cannot be read is an
// error; the implicit one is optional.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	dir, err := Dir()
	if err != nil {
		return Default(), nil
	}
	implicit := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(implicit); err != nil {
		return Default(), nil
	}
	return Load(implicit)
}
