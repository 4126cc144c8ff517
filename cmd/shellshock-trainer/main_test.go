package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/config"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
)

// runCLI executes the root command with an isolated config and data home.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "data"))
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func validConfig() model.Config {
	return model.Config{
		Params:      model.DefaultParams(),
		Search:      model.SearchConfig{Workers: 1},
		MaxHits:     5,
		Tick:        10 * time.Millisecond,
		WindowTitle: "ShellShock Live",
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cases := []struct {
		name   string
		mutate func(*model.Config)
		want   string
	}{
		{"m2px", func(c *model.Config) { c.Params.MetersToPixels = 0 }, "--meters-to-pixels"},
		{"gravity", func(c *model.Config) { c.Params.Gravity = -1 }, "--gravity"},
		{"step", func(c *model.Config) { c.Params.Step = 0 }, "--step"},
		{"max-steps", func(c *model.Config) { c.Params.MaxSteps = 0 }, "--max-steps"},
		{"tolerance", func(c *model.Config) { c.Params.HitTolerance = 0 }, "--hit-tolerance"},
		{"buffer", func(c *model.Config) { c.Params.TerminationBuffer = -1 }, "--termination-buffer"},
		{"workers", func(c *model.Config) { c.Search.Workers = 0 }, "--workers"},
		{"max-hits", func(c *model.Config) { c.MaxHits = 0 }, "--max-hits"},
		{"tick", func(c *model.Config) { c.Tick = 0 }, "--tick"},
		{"title", func(c *model.Config) { c.WindowTitle = " " }, "--title"},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(&cfg)
		err := validateConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error mentioning %s, got %v", tc.name, tc.want, err)
		}
	}
}

func TestParsePointAndExtent(t *testing.T) {
	p, err := parsePoint(" 120, 340 ")
	if err != nil || p != (model.Point{X: 120, Y: 340}) {
		t.Fatalf("expected (120,340), got %+v (%v)", p, err)
	}
	if _, err := parsePoint("12;4"); err == nil {
		t.Fatalf("expected error for bad separator")
	}
	e, err := parseExtent("1768X992")
	if err != nil || e != (model.Extent{Width: 1768, Height: 992}) {
		t.Fatalf("expected 1768x992, got %+v (%v)", e, err)
	}
	if _, err := parseExtent("0x992"); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestSolveByDisplacement(t *testing.T) {
	out, err := runCLI(t, "solve", "--dx", "0", "--dy", "50", "--mode", "angle", "--workers", "2")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "Top 5 Best -> (") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(out, "Angle ~80 -> ") {
		t.Fatalf("expected a steep bucket:\n%s", out)
	}
}

func TestSolveByPointsMatchesDisplacement(t *testing.T) {
	byPoints, err := runCLI(t, "solve", "--from", "100,300", "--to", "100,275", "--size", "884x496", "--mode", "angle")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	byDisplacement, err := runCLI(t, "solve", "--dx", "0", "--dy", "50", "--mode", "angle")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if byPoints != byDisplacement {
		t.Fatalf("expected identical output:\n%s\n---\n%s", byPoints, byDisplacement)
	}
}

func TestSolveTable(t *testing.T) {
	out, err := runCLI(t, "solve", "--dx", "0", "--dy", "50", "--mode", "velocity", "--table")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !strings.HasPrefix(out, "Velocity Angle Bucket") {
		t.Fatalf("unexpected table header:\n%s", out)
	}
}

func TestSolveErrors(t *testing.T) {
	if _, err := runCLI(t, "solve"); err == nil || !strings.Contains(err.Error(), "--dx/--dy") {
		t.Fatalf("expected missing target error, got %v", err)
	}
	if _, err := runCLI(t, "solve", "--dx", "10", "--wind", "150"); err == nil || !strings.Contains(err.Error(), "--wind") {
		t.Fatalf("expected wind error, got %v", err)
	}
	if _, err := runCLI(t, "solve", "--dx", "10", "--mode", "sideways"); err == nil || !strings.Contains(err.Error(), "--mode") {
		t.Fatalf("expected mode error, got %v", err)
	}
}

func TestConfigFileAppliesUnlessFlagSet(t *testing.T) {
	cfgHome := filepath.Join(t.TempDir(), "config")
	path := filepath.Join(cfgHome, "shellshock-trainer", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data := "[trainer]\nmax-hits = 2\nmode = \"angle\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", cfgHome)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"solve", "--dx", "0", "--dy", "50", "--max-hits", "3"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Top 3 Best -> ") {
		t.Fatalf("expected flag to win over file:\n%s", out.String())
	}
	if trainerMode != "angle" {
		t.Fatalf("expected mode from file, got %q", trainerMode)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("load config: %v", err)
	}
}

func TestSampleAddListAndCalibrate(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "config"))
	db := filepath.Join(t.TempDir(), "samples.db")

	run := func(args ...string) string {
		t.Helper()
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	out := run("sample", "add", "--db", db, "--velocity", "29.4", "--angle", "45", "--dx", "200", "--dy", "0", "--note", "flat")
	if !strings.HasPrefix(out, "Recorded sample 1:") {
		t.Fatalf("unexpected add output %q", out)
	}
	out = run("sample", "list", "--db", db)
	if !strings.Contains(out, "Velocity") || !strings.Contains(out, "29.4") || !strings.Contains(out, "flat") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
	out = run("calibrate", "--db", db, "--m2px-min", "2.271", "--m2px-max", "2.271", "--wind-scale-min", "0.0125", "--wind-scale-max", "0.0125", "--workers", "1")
	if !strings.Contains(out, "Scored 1 candidates against 1 samples.") || !strings.Contains(out, "1/1") {
		t.Fatalf("unexpected calibrate output:\n%s", out)
	}
}

func TestCalibrateWithoutSamples(t *testing.T) {
	_, err := runCLI(t, "calibrate", "--db", filepath.Join(t.TempDir(), "empty.db"))
	if err == nil || !strings.Contains(err.Error(), "sample add") {
		t.Fatalf("expected missing samples hint, got %v", err)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template must decode: %v", err)
	}
	if cfg.Physics.Gravity != nil {
		t.Fatalf("expected commented-out values")
	}
}
