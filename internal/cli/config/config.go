// Package config defines the persisted configuration for outpost-cli.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CLIConfig holds the CLI defaults persisted between invocations.
// Flags and HBC_* environment variables override these values.
type CLIConfig struct {
	// Outpost is the default outpost address.
	Outpost string `yaml:"outpost"`

	// Username is the default login name.
	Username string `yaml:"username"`

	// Output is the default output format (table, json, yaml).
	Output string `yaml:"output"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Outpost: "localhost:8001",
		Output:  "table",
	}
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".hudsonbay", "cli.yaml")
}

// Load loads the CLI configuration from path. A missing file yields
// the defaults.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read cli config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse cli config: %w", err)
	}
	return cfg, nil
}

// Save writes the CLI configuration to path with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode cli config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write cli config: %w", err)
	}
	return nil
}
