package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/ballistics"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/render"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/trainer"
)

var (
	solveFrom  string
	solveTo    string
	solveSize  string
	solveDX    float64
	solveDY    float64
	solveWind  string
	solveTable bool
)

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Search velocity/angle hits for one shot",
		Long: `Search velocity/angle hits for one shot.

The target is given either as two window points and the window size
(--from, --to, --size) or directly as a displacement in base-resolution
pixels (--dx, --dy; y up).`,
		Args: cobra.NoArgs,
		RunE: runSolveCmd,
	}
	addTargetFlags(cmd, &solveFrom, &solveTo, &solveSize, &solveDX, &solveDY)
	cmd.Flags().StringVar(&solveWind, "wind", "0", "wind strength (-100 to 100)")
	cmd.Flags().BoolVar(&solveTable, "table", false, "print every hit as a table")
	return cmd
}

func addTargetFlags(cmd *cobra.Command, from, to, size *string, dx, dy *float64) {
	cmd.Flags().StringVar(from, "from", "", "source point in window pixels (X,Y)")
	cmd.Flags().StringVar(to, "to", "", "target point in window pixels (X,Y)")
	cmd.Flags().StringVar(size, "size", "", "window size (WxH)")
	cmd.Flags().Float64Var(dx, "dx", 0, "horizontal displacement in base pixels")
	cmd.Flags().Float64Var(dy, "dy", 0, "vertical displacement in base pixels (up is positive)")
}

func runSolveCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	target, err := resolveTarget(cmd, solveFrom, solveTo, solveSize, solveDX, solveDY)
	if err != nil {
		return err
	}
	wind, err := trainer.ParseWind(solveWind)
	if err != nil {
		return fmt.Errorf("invalid --wind: %w", err)
	}

	searcher := ballistics.NewSearcher(s.cfg.Params, s.cfg.Search)
	hits := searcher.Search(s.cfg.Mode, target, wind)
	return writeSolution(cmd.OutOrStdout(), s.cfg, hits, solveTable)
}

func writeSolution(w io.Writer, cfg model.Config, hits []model.Hit, table bool) error {
	if len(hits) == 0 {
		_, err := fmt.Fprintln(w, "No hits found for the given parameters.")
		return err
	}
	var lines []string
	if table {
		lines = render.Table(hits)
	} else {
		agg := ballistics.Aggregate(hits, cfg.MaxHits)
		if render.ShouldUseColor(w) {
			width := render.TerminalWidth()
			for _, line := range render.Lines(agg, cfg.MaxHits) {
				lines = append(lines, render.Wrap(line, width)...)
			}
		} else {
			lines = render.Lines(agg, cfg.MaxHits)
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// resolveTarget prefers an explicit displacement and otherwise translates
// the window points.
func resolveTarget(cmd *cobra.Command, from, to, size string, dx, dy float64) (model.Displacement, error) {
	if cmd.Flags().Changed("dx") || cmd.Flags().Changed("dy") {
		d := model.Displacement{DX: dx, DY: dy}
		if !d.Finite() {
			return model.Displacement{}, fmt.Errorf("--dx and --dy must be finite")
		}
		return d, nil
	}
	if from == "" || to == "" || size == "" {
		return model.Displacement{}, fmt.Errorf("either --dx/--dy or all of --from, --to and --size are required")
	}
	src, err := parsePoint(from)
	if err != nil {
		return model.Displacement{}, fmt.Errorf("invalid --from: %w", err)
	}
	dst, err := parsePoint(to)
	if err != nil {
		return model.Displacement{}, fmt.Errorf("invalid --to: %w", err)
	}
	extent, err := parseExtent(size)
	if err != nil {
		return model.Displacement{}, fmt.Errorf("invalid --size: %w", err)
	}
	d, err := ballistics.TranslateChecked(extent, src, dst)
	if err != nil {
		return model.Displacement{}, fmt.Errorf("cannot translate points: %w", err)
	}
	return d, nil
}

func parsePoint(s string) (model.Point, error) {
	x, y, err := parsePair(s, ",")
	if err != nil {
		return model.Point{}, err
	}
	return model.Point{X: x, Y: y}, nil
}

func parseExtent(s string) (model.Extent, error) {
	w, h, err := parsePair(strings.ToLower(s), "x")
	if err != nil {
		return model.Extent{}, err
	}
	e := model.Extent{Width: w, Height: h}
	if !e.Valid() {
		return model.Extent{}, fmt.Errorf("size %q must be positive", s)
	}
	return e, nil
}

func parsePair(s, sep string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), sep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two integers separated by %q, got %q", sep, s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", parts[0])
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", parts[1])
	}
	return a, b, nil
}
