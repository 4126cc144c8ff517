package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Physics.Gravity != nil || cfg.Keys != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[physics]
meters-to-pixels = 2.3
max-steps = 3000

[search]
workers = 4

[trainer]
mode = "angle"
tick = "20ms"
require-cached-extent = true

[sandbox]
cell-width = 10

[keys]
calculate = "c"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Physics.MetersToPixels == nil || *cfg.Physics.MetersToPixels != 2.3 {
		t.Fatalf("expected meters-to-pixels 2.3, got %v", cfg.Physics.MetersToPixels)
	}
	if cfg.Physics.MaxSteps == nil || *cfg.Physics.MaxSteps != 3000 {
		t.Fatalf("expected max-steps 3000")
	}
	if cfg.Physics.Gravity != nil {
		t.Fatalf("expected gravity unset")
	}
	if cfg.Search.Workers == nil || *cfg.Search.Workers != 4 {
		t.Fatalf("expected workers 4")
	}
	if cfg.Trainer.Mode == nil || *cfg.Trainer.Mode != "angle" {
		t.Fatalf("expected mode angle")
	}
	if cfg.Trainer.Tick == nil || *cfg.Trainer.Tick != "20ms" {
		t.Fatalf("expected tick 20ms")
	}
	if cfg.Trainer.RequireCachedExtent == nil || !*cfg.Trainer.RequireCachedExtent {
		t.Fatalf("expected require-cached-extent true")
	}
	if cfg.Sandbox.CellWidth == nil || *cfg.Sandbox.CellWidth != 10 || cfg.Sandbox.CellHeight != nil {
		t.Fatalf("unexpected sandbox config %+v", cfg.Sandbox)
	}
	if cfg.Keys["calculate"] != "c" {
		t.Fatalf("expected calculate key c, got %q", cfg.Keys["calculate"])
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[physics]\ngravty = 9.8\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "physics.gravty") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "shellshock-trainer", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "shellshock-trainer", "samples.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
