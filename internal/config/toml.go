// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Physics PhysicsConfig     `toml:"physics"`
	Search  SearchConfig      `toml:"search"`
	Trainer TrainerConfig     `toml:"trainer"`
	Sandbox SandboxConfig     `toml:"sandbox"`
	Keys    map[string]string `toml:"keys"`
}

// PhysicsConfig maps simulation constants.
type PhysicsConfig struct {
	MetersToPixels    *float64 `toml:"meters-to-pixels"`
	Gravity           *float64 `toml:"gravity"`
	Step              *float64 `toml:"step"`
	MaxSteps          *int     `toml:"max-steps"`
	HitTolerance      *float64 `toml:"hit-tolerance"`
	WindScale         *float64 `toml:"wind-scale"`
	TerminationBuffer *float64 `toml:"termination-buffer"`
}

// SearchConfig maps solution search settings.
type SearchConfig struct {
	Workers *int `toml:"workers"`
}

// TrainerConfig maps control loop settings.
type TrainerConfig struct {
	Mode                *string `toml:"mode"`
	MaxHits             *int    `toml:"max-hits"`
	Tick                *string `toml:"tick"`
	RequireCachedExtent *bool   `toml:"require-cached-extent"`
	WindowTitle         *string `toml:"window-title"`
}

// SandboxConfig maps the terminal sandbox geometry.
type SandboxConfig struct {
	CellWidth  *int `toml:"cell-width"`
	CellHeight *int `toml:"cell-height"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
