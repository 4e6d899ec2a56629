package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	if cfg.Store.Driver != want.Store.Driver || cfg.Editor.HistoryCapacity != want.Editor.HistoryCapacity {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("store:\n  driver: memory\neditor:\n  history_capacity: 10\n  autosave_interval: 2s\nlog_level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != "memory" {
		t.Fatalf("store driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Editor.HistoryCapacity != 10 {
		t.Fatalf("history capacity = %d, want 10", cfg.Editor.HistoryCapacity)
	}
	if cfg.Editor.AutosaveInterval.Std() != 2*time.Second {
		t.Fatalf("autosave interval = %v, want 2s", cfg.Editor.AutosaveInterval.Std())
	}
	// Unset fields keep their defaults.
	if cfg.Editor.WindowWidth != Default().Editor.WindowWidth {
		t.Fatalf("window width = %d, want default", cfg.Editor.WindowWidth)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  driver: sqlite\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SIMROOM_STORE_DRIVER", "memory")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != "memory" {
		t.Fatalf("store driver = %q, env must win", cfg.Store.Driver)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  driver: carrier-pigeon\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("unknown driver accepted")
	}
}
