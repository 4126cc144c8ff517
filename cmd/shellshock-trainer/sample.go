package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/calibrate"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/config"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/render"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/store"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/trainer"
)

var (
	dbPath string

	sampleVelocity float64
	sampleAngle    float64
	sampleWind     string
	sampleFrom     string
	sampleTo       string
	sampleSize     string
	sampleDX       float64
	sampleDY       float64
	sampleNote     string

	sampleSince string
	sampleLast  int

	calM2PXMin  float64
	calM2PXMax  float64
	calM2PXStep float64
	calWindMin  float64
	calWindMax  float64
	calWindStep float64
	calTop      int
)

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Record and list in-game shots used for calibration",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "sample database path")
	cmd.AddCommand(newSampleAddCmd())
	cmd.AddCommand(newSampleListCmd())
	cmd.AddCommand(newSampleRemoveCmd())
	return cmd
}

func newSampleAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a shot that landed on the target",
		Args:  cobra.NoArgs,
		RunE:  runSampleAddCmd,
	}
	cmd.Flags().Float64Var(&sampleVelocity, "velocity", 0, "shot velocity (1-100)")
	cmd.Flags().Float64Var(&sampleAngle, "angle", 0, "shot angle in degrees (-90 to 90)")
	cmd.Flags().StringVar(&sampleWind, "wind", "0", "wind strength (-100 to 100)")
	cmd.Flags().StringVar(&sampleNote, "note", "", "free-form note")
	addTargetFlags(cmd, &sampleFrom, &sampleTo, &sampleSize, &sampleDX, &sampleDY)
	if err := cmd.MarkFlagRequired("velocity"); err != nil {
		logErrf("failed to mark flag: %v\n", err)
	}
	if err := cmd.MarkFlagRequired("angle"); err != nil {
		logErrf("failed to mark flag: %v\n", err)
	}
	return cmd
}

func runSampleAddCmd(cmd *cobra.Command, _ []string) error {
	if sampleVelocity < 1 || sampleVelocity > 100 {
		return fmt.Errorf("--velocity must be between 1 and 100")
	}
	if sampleAngle < -90 || sampleAngle > 90 {
		return fmt.Errorf("--angle must be between -90 and 90")
	}
	wind, err := trainer.ParseWind(sampleWind)
	if err != nil {
		return fmt.Errorf("invalid --wind: %w", err)
	}
	target, err := resolveTarget(cmd, sampleFrom, sampleTo, sampleSize, sampleDX, sampleDY)
	if err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	id, err := st.InsertSample(context.Background(), model.Sample{
		RecordedAt: time.Now(),
		Velocity:   sampleVelocity,
		Angle:      sampleAngle,
		Wind:       wind,
		DX:         target.DX,
		DY:         target.DY,
		Note:       sampleNote,
	})
	if err != nil {
		return fmt.Errorf("failed to save sample: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded sample %d: v=%g a=%g wind=%g target=(%.2f, %.2f)\n",
		id, sampleVelocity, sampleAngle, wind, target.DX, target.DY)
	return err
}

func newSampleListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded shots",
		Args:  cobra.NoArgs,
		RunE:  runSampleListCmd,
	}
	cmd.Flags().StringVar(&sampleSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&sampleLast, "limit", 0, "limit to the first N matching shots")
	return cmd
}

func runSampleListCmd(cmd *cobra.Command, _ []string) error {
	filter := store.Filter{Limit: sampleLast}
	if sampleSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sampleSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	samples, err := st.ListSamples(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to list samples: %w", err)
	}
	if len(samples) == 0 {
		logErrln("No samples recorded. Add one with: shellshock-trainer sample add")
		return nil
	}
	headers := []string{"ID", "Recorded", "Velocity", "Angle", "Wind", "DX", "DY", "Note"}
	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.RecordedAt.Local().Format("2006-01-02 15:04"),
			strconv.FormatFloat(s.Velocity, 'f', -1, 64),
			strconv.FormatFloat(s.Angle, 'f', -1, 64),
			strconv.FormatFloat(s.Wind, 'f', -1, 64),
			fmt.Sprintf("%.2f", s.DX),
			fmt.Sprintf("%.2f", s.DY),
			s.Note,
		})
	}
	right := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range render.FormatTable(headers, rows, right) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newSampleRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a recorded shot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSampleRemoveCmd,
	}
}

func runSampleRemoveCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid sample id %q", args[0])
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.DeleteSample(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete sample: %w", err)
	}
	return nil
}

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Fit meters-to-pixels and wind-scale to recorded shots",
		Args:  cobra.NoArgs,
		RunE:  runCalibrateCmd,
	}
	cmd.Flags().StringVar(&dbPath, "db", config.DefaultDBPath(), "sample database path")
	cmd.Flags().Float64Var(&calM2PXMin, "m2px-min", 2.0, "lowest meters-to-pixels candidate")
	cmd.Flags().Float64Var(&calM2PXMax, "m2px-max", 2.6, "highest meters-to-pixels candidate")
	cmd.Flags().Float64Var(&calM2PXStep, "m2px-step", 0.01, "meters-to-pixels increment")
	cmd.Flags().Float64Var(&calWindMin, "wind-scale-min", 0.005, "lowest wind-scale candidate")
	cmd.Flags().Float64Var(&calWindMax, "wind-scale-max", 0.02, "highest wind-scale candidate")
	cmd.Flags().Float64Var(&calWindStep, "wind-scale-step", 0.0005, "wind-scale increment")
	cmd.Flags().IntVar(&calTop, "top", 10, "number of candidates to print")
	return cmd
}

func runCalibrateCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	m2px, err := calibrate.Steps(calM2PXMin, calM2PXMax, calM2PXStep)
	if err != nil {
		return fmt.Errorf("invalid meters-to-pixels range: %w", err)
	}
	windScale, err := calibrate.Steps(calWindMin, calWindMax, calWindStep)
	if err != nil {
		return fmt.Errorf("invalid wind-scale range: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, stop := signalContext()
	defer stop()
	grid := calibrate.Grid{MetersToPixels: m2px, WindScale: windScale}
	report, err := calibrate.BuildReport(ctx, st, s.cfg.Params, grid, s.cfg.Search.Workers)
	if err != nil {
		if errors.Is(err, store.ErrNoSamples) {
			return fmt.Errorf("%w; add shots with: shellshock-trainer sample add", err)
		}
		return fmt.Errorf("calibration failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Scored %d candidates against %d samples.\n", len(report.Candidates), report.Samples); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, line := range report.Lines(calTop) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
