// Package calibrate fits the simulator's pixel scale and wind scale to
// recorded in-game shots.
package calibrate

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/ballistics"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/render"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/store"
)

// Grid lists the candidate values of each tuned constant.
type Grid struct {
	MetersToPixels []float64
	WindScale      []float64
}

// Candidate is one scored pair of constants.
type Candidate struct {
	MetersToPixels float64
	WindScale      float64
	Hits           int
	MeanMiss       float64
}

// Report is the ranked outcome of a calibration run.
type Report struct {
	Samples    int
	Candidates []Candidate
}

// Steps returns min, min+step, ... up to max inclusive. A non-positive step
// yields only min.
func Steps(min, max, step float64) ([]float64, error) {
	if math.IsNaN(min) || math.IsNaN(max) || max < min {
		return nil, fmt.Errorf("invalid range %v..%v", min, max)
	}
	if step <= 0 {
		return []float64{min}, nil
	}
	n := int(math.Floor((max-min)/step+1e-9)) + 1
	values := make([]float64, n)
	for i := range values {
		values[i] = min + float64(i)*step
	}
	return values, nil
}

// Score evaluates params against every sample.
func Score(p model.Params, samples []model.Sample) Candidate {
	c := Candidate{MetersToPixels: p.MetersToPixels, WindScale: p.WindScale}
	if len(samples) == 0 {
		return c
	}
	var total float64
	for _, s := range samples {
		if ballistics.Simulate(p, s.Velocity, s.Angle, s.DX, s.DY, s.Wind) {
			c.Hits++
		}
		total += ballistics.ClosestApproach(p, s.Velocity, s.Angle, model.Displacement{DX: s.DX, DY: s.DY}, s.Wind)
	}
	c.MeanMiss = total / float64(len(samples))
	return c
}

// Rank scores every grid point on top of base and orders the candidates by
// hits reproduced, then by mean closest approach.
func Rank(ctx context.Context, base model.Params, grid Grid, samples []model.Sample, workers int) ([]Candidate, error) {
	if len(grid.MetersToPixels) == 0 || len(grid.WindScale) == 0 {
		return nil, fmt.Errorf("calibration grid is empty")
	}
	for _, m := range grid.MetersToPixels {
		if m <= 0 {
			return nil, fmt.Errorf("meters-to-pixels must be > 0, got %v", m)
		}
	}

	candidates := make([]Candidate, len(grid.MetersToPixels)*len(grid.WindScale))
	g, gctx := errgroup.WithContext(ctx)
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i, m := range grid.MetersToPixels {
		for j, w := range grid.WindScale {
			idx := i*len(grid.WindScale) + j
			p := base
			p.MetersToPixels = m
			p.WindScale = w
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				candidates[idx] = Score(p, samples)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Hits != candidates[j].Hits {
			return candidates[i].Hits > candidates[j].Hits
		}
		return candidates[i].MeanMiss < candidates[j].MeanMiss
	})
	return candidates, nil
}

// BuildReport loads every recorded shot and ranks the grid against them.
func BuildReport(ctx context.Context, st *store.Store, base model.Params, grid Grid, workers int) (Report, error) {
	samples, err := st.CalibrationSamples(ctx)
	if err != nil {
		return Report{}, err
	}
	candidates, err := Rank(ctx, base, grid, samples, workers)
	if err != nil {
		return Report{}, err
	}
	return Report{Samples: len(samples), Candidates: candidates}, nil
}

// Lines renders the best top candidates as an aligned table.
func (r Report) Lines(top int) []string {
	candidates := r.Candidates
	if top > 0 && len(candidates) > top {
		candidates = candidates[:top]
	}
	headers := []string{"Rank", "Meters->Px", "Wind Scale", "Hits", "Mean Miss (px)"}
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.4f", c.MetersToPixels),
			fmt.Sprintf("%.5f", c.WindScale),
			fmt.Sprintf("%d/%d", c.Hits, r.Samples),
			fmt.Sprintf("%.2f", c.MeanMiss),
		})
	}
	return render.FormatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true})
}
