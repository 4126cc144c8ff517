// Package main provides the CLI entrypoint for shellshock-trainer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/ballistics"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/config"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/platform"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/sandbox"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/trainer"
)

const (
	defaultMode         = "velocity"
	defaultFindInterval = 100 * time.Millisecond
)

var (
	physicsMetersToPixels    float64
	physicsGravity           float64
	physicsStep              float64
	physicsMaxSteps          int
	physicsHitTolerance      float64
	physicsWindScale         float64
	physicsTerminationBuffer float64
	searchWorkers            int

	trainerMode                string
	trainerMaxHits             int
	trainerTick                time.Duration
	trainerRequireCachedExtent bool
	trainerWindowTitle         string

	sandboxCellWidth  int
	sandboxCellHeight int
)

// settings is the resolved configuration shared by every command.
type settings struct {
	cfg      model.Config
	bindings platform.Bindings
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shellshock-trainer",
		Short:         "ShellShock Live aiming trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrainerCmd,
	}

	defaults := model.DefaultParams()
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&physicsMetersToPixels, "meters-to-pixels", defaults.MetersToPixels, "pixels per simulated meter")
	pf.Float64Var(&physicsGravity, "gravity", defaults.Gravity, "gravity in m/s^2")
	pf.Float64Var(&physicsStep, "step", defaults.Step, "integration step in seconds")
	pf.IntVar(&physicsMaxSteps, "max-steps", defaults.MaxSteps, "maximum integration steps per shot")
	pf.Float64Var(&physicsHitTolerance, "hit-tolerance", defaults.HitTolerance, "hit radius in pixels")
	pf.Float64Var(&physicsWindScale, "wind-scale", defaults.WindScale, "horizontal acceleration per unit of wind")
	pf.Float64Var(&physicsTerminationBuffer, "termination-buffer", defaults.TerminationBuffer, "pixels below the target before a falling shot is abandoned")
	pf.IntVar(&searchWorkers, "workers", runtime.NumCPU(), "parallel search workers")
	pf.StringVar(&trainerMode, "mode", defaultMode, "search mode: angle or velocity")
	pf.IntVar(&trainerMaxHits, "max-hits", ballistics.DefaultMaxHits, "hits shown per line")

	rootCmd.Flags().DurationVar(&trainerTick, "tick", trainer.DefaultTick, "key polling interval")
	rootCmd.Flags().BoolVar(&trainerRequireCachedExtent, "require-cached-extent", false, "refuse to calculate before the window size is cached")
	rootCmd.Flags().StringVar(&trainerWindowTitle, "title", platform.DefaultWindowTitle, "game window title")

	rootCmd.AddCommand(newSandboxCmd())
	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newCalibrateCmd())

	return rootCmd
}

func runTrainerCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	log := trainer.NewLogger(cmd.OutOrStdout())
	log.Infof("Searching for '%s' window...", s.cfg.WindowTitle)
	handle, err := platform.FindWindow(ctx, s.cfg.WindowTitle, s.bindings, defaultFindInterval)
	if err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			return fmt.Errorf("%w; try: shellshock-trainer sandbox", err)
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("failed to find game window: %w", err)
	}
	log.Infof("Game window found.")

	session := trainer.NewSession(s.cfg, s.bindings, trainer.NewConsolePrompt(cmd.InOrStdin(), log), log)
	session.PrintControls()
	if err := trainer.Run(ctx, session, handle, s.cfg.Tick); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Infof("Exiting.")
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newSandboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Practice in a terminal stand-in for the game window",
		Args:  cobra.NoArgs,
		RunE:  runSandboxCmd,
	}
	cmd.Flags().IntVar(&sandboxCellWidth, "cell-width", sandbox.DefaultCellWidth, "pixels per terminal column")
	cmd.Flags().IntVar(&sandboxCellHeight, "cell-height", sandbox.DefaultCellHeight, "pixels per terminal row")
	cmd.Flags().DurationVar(&trainerTick, "tick", trainer.DefaultTick, "key polling interval")
	cmd.Flags().BoolVar(&trainerRequireCachedExtent, "require-cached-extent", false, "refuse to calculate before the window size is cached")
	return cmd
}

func runSandboxCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	m := sandbox.NewModel(s.cfg, s.bindings, sandboxCellWidth, sandboxCellHeight)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run sandbox: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadSettings merges the config file under the flags of cmd. Flags set on
// the command line win.
func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	return resolveSettings(cmd, fileCfg)
}

func resolveSettings(cmd *cobra.Command, fileCfg config.FileConfig) (settings, error) {
	applyFloatConfig(cmd, "meters-to-pixels", &physicsMetersToPixels, fileCfg.Physics.MetersToPixels)
	applyFloatConfig(cmd, "gravity", &physicsGravity, fileCfg.Physics.Gravity)
	applyFloatConfig(cmd, "step", &physicsStep, fileCfg.Physics.Step)
	applyIntConfig(cmd, "max-steps", &physicsMaxSteps, fileCfg.Physics.MaxSteps)
	applyFloatConfig(cmd, "hit-tolerance", &physicsHitTolerance, fileCfg.Physics.HitTolerance)
	applyFloatConfig(cmd, "wind-scale", &physicsWindScale, fileCfg.Physics.WindScale)
	applyFloatConfig(cmd, "termination-buffer", &physicsTerminationBuffer, fileCfg.Physics.TerminationBuffer)
	applyIntConfig(cmd, "workers", &searchWorkers, fileCfg.Search.Workers)
	applyStringConfig(cmd, "mode", &trainerMode, fileCfg.Trainer.Mode)
	applyIntConfig(cmd, "max-hits", &trainerMaxHits, fileCfg.Trainer.MaxHits)
	applyBoolConfig(cmd, "require-cached-extent", &trainerRequireCachedExtent, fileCfg.Trainer.RequireCachedExtent)
	applyStringConfig(cmd, "title", &trainerWindowTitle, fileCfg.Trainer.WindowTitle)
	applyIntConfig(cmd, "cell-width", &sandboxCellWidth, fileCfg.Sandbox.CellWidth)
	applyIntConfig(cmd, "cell-height", &sandboxCellHeight, fileCfg.Sandbox.CellHeight)
	if err := applyDurationConfig(cmd, "tick", &trainerTick, fileCfg.Trainer.Tick); err != nil {
		return settings{}, err
	}

	mode, err := model.ParseMode(trainerMode)
	if err != nil {
		return settings{}, fmt.Errorf("invalid --mode: %w", err)
	}
	bindings, err := platform.DefaultBindings().Override(fileCfg.Keys)
	if err != nil {
		return settings{}, fmt.Errorf("invalid [keys] config: %w", err)
	}

	cfg := model.Config{
		Params: model.Params{
			MetersToPixels:    physicsMetersToPixels,
			Gravity:           physicsGravity,
			Step:              physicsStep,
			MaxSteps:          physicsMaxSteps,
			HitTolerance:      physicsHitTolerance,
			WindScale:         physicsWindScale,
			TerminationBuffer: physicsTerminationBuffer,
		},
		Search:              model.SearchConfig{Workers: searchWorkers},
		Mode:                mode,
		MaxHits:             trainerMaxHits,
		Tick:                trainerTick,
		RequireCachedExtent: trainerRequireCachedExtent,
		WindowTitle:         trainerWindowTitle,
	}
	if err := validateConfig(cfg); err != nil {
		return settings{}, err
	}
	return settings{cfg: cfg, bindings: bindings}, nil
}

// flagDefined reports whether cmd knows the flag; settings only bind the
// flags each command registers.
func flagDefined(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Lookup(name) != nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || !flagDefined(cmd, name) {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || !flagDefined(cmd, name) {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || !flagDefined(cmd, name) {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || !flagDefined(cmd, name) {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || !flagDefined(cmd, name) {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid trainer.%s %q: %w", name, *value, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	d := model.DefaultParams()
	return fmt.Sprintf(`# shellshock-trainer configuration
# Uncomment a value to enable it. CLI flags override config values.

[physics]
# meters-to-pixels = %g    # Pixels per simulated meter
# gravity = %g             # m/s^2
# step = %g                # Integration step in seconds
# max-steps = %d           # Steps before a shot counts as a miss
# hit-tolerance = %g       # Hit radius in pixels
# wind-scale = %g          # Horizontal acceleration per unit of wind
# termination-buffer = %g  # Pixels below the target before a falling shot is abandoned

[search]
# workers = 4              # Parallel search workers (default: number of CPUs)

[trainer]
# mode = %q                # angle or velocity
# max-hits = %d            # Hits shown per line
# tick = %q                # Key polling interval
# require-cached-extent = false
# window-title = %q

[sandbox]
# cell-width = %d          # Pixels per terminal column
# cell-height = %d         # Pixels per terminal row

[keys]
# set-source = "1"
# set-target = "2"
# set-wind = "3"
# calculate = "4"
# clear = "5"
# switch-mode = "6"
# cache-extent = "7"
`,
		d.MetersToPixels,
		d.Gravity,
		d.Step,
		d.MaxSteps,
		d.HitTolerance,
		d.WindScale,
		d.TerminationBuffer,
		defaultMode,
		ballistics.DefaultMaxHits,
		trainer.DefaultTick.String(),
		platform.DefaultWindowTitle,
		sandbox.DefaultCellWidth,
		sandbox.DefaultCellHeight,
	)
}

func validateConfig(cfg model.Config) error {
	p := cfg.Params
	if p.MetersToPixels <= 0 {
		return fmt.Errorf("--meters-to-pixels must be > 0")
	}
	if p.Gravity <= 0 {
		return fmt.Errorf("--gravity must be > 0")
	}
	if p.Step <= 0 {
		return fmt.Errorf("--step must be > 0")
	}
	if p.MaxSteps <= 0 {
		return fmt.Errorf("--max-steps must be > 0")
	}
	if p.HitTolerance <= 0 {
		return fmt.Errorf("--hit-tolerance must be > 0")
	}
	if p.TerminationBuffer < 0 {
		return fmt.Errorf("--termination-buffer must be >= 0")
	}
	if cfg.Search.Workers < 1 {
		return fmt.Errorf("--workers must be >= 1")
	}
	if cfg.MaxHits <= 0 {
		return fmt.Errorf("--max-hits must be > 0")
	}
	if cfg.Tick <= 0 {
		return fmt.Errorf("--tick must be > 0")
	}
	if strings.TrimSpace(cfg.WindowTitle) == "" {
		return fmt.Errorf("--title must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
