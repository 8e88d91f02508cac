package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFileName is the file looked up inside the config directory.
const configFileName = "config.yml"

// Config holds the resolved settings for a logging session.
type Config struct {
	Device      string `yaml:"device"`
	LogFile     string `yaml:"log_file"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	RequireRoot bool   `yaml:"require_root"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		LogFile:     "keys.log",
		LogLevel:    "info",
		LogFormat:   "text",
		RequireRoot: true,
	}
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "keylog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keylog")
}

// LoadConfig reads the YAML file at path on top of the defaults. A missing
// file is not an error unless required is set.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			dbg("no config at %s, using defaults", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultConfig().LogFile
	}

	return cfg, nil
}

// Overrides carries settings given on the command line. Empty strings
// leave the loaded value alone.
type Overrides struct {
	Device    string
	LogFile   string
	LogLevel  string
	LogFormat string
}

// Apply returns cfg with every non-empty override applied.
func (o Overrides) Apply(cfg Config) Config {
	if o.Device != "" {
		cfg.Device = o.Device
	}
	if o.LogFile != "" {
		cfg.LogFile = o.LogFile
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
	return cfg
}
