// Package config loads editor configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "5s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all editor configuration.
type Config struct {
	// Store selects and configures the document backend.
	Store StoreConfig `yaml:"store"`
	// Blob selects and configures the image attachment backend.
	Blob BlobConfig `yaml:"blob"`
	// Editor tunes in-session behavior.
	Editor EditorConfig `yaml:"editor"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// StoreConfig selects the persistence driver.
type StoreConfig struct {
	// Driver is one of memory, sqlite, postgres.
	Driver string `yaml:"driver"`
	// Path is the sqlite database file.
	Path string `yaml:"path"`
	// DSN is the postgres connection string.
	DSN string `yaml:"dsn"`
}

// BlobConfig selects the attachment driver.
type BlobConfig struct {
	// Driver is one of fs, s3, memory. Empty defers to SIMROOM_BLOB_* env.
	Driver string `yaml:"driver"`
	// Root is the directory for the fs driver.
	Root string `yaml:"root"`
}

// EditorConfig tunes session behavior.
type EditorConfig struct {
	// HistoryCapacity bounds the undo stack.
	HistoryCapacity int `yaml:"history_capacity"`
	// AutosaveInterval is how often unsaved changes are flushed.
	AutosaveInterval Duration `yaml:"autosave_interval"`
	// WindowWidth and WindowHeight size the editor window in pixels.
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "simroom.db",
		},
		Blob: BlobConfig{
			Driver: "fs",
			Root:   "./imagedata",
		},
		Editor: EditorConfig{
			HistoryCapacity:  50,
			AutosaveInterval: Duration(5 * time.Second),
			WindowWidth:      1280,
			WindowHeight:     800,
		},
		LogLevel: "info",
	}
}

// Load reads the config file at path over the defaults. A missing file is not
// an error: the defaults apply. Environment variables override file values:
//
//	SIMROOM_STORE_DRIVER, SIMROOM_STORE_PATH, SIMROOM_STORE_DSN
//	SIMROOM_LOG_LEVEL, SIMROOM_HISTORY_CAPACITY
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SIMROOM_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("SIMROOM_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("SIMROOM_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("SIMROOM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SIMROOM_HISTORY_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.HistoryCapacity = n
		}
	}
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite", "postgres", "":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Editor.HistoryCapacity < 0 {
		return fmt.Errorf("history_capacity must be positive")
	}
	if c.Editor.AutosaveInterval < 0 {
		return fmt.Errorf("autosave_interval must be positive")
	}
	return nil
}
