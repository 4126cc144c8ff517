package ballistics

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
)

// Sweep bounds of the solution grid.
const (
	MinVelocity = 1
	MaxVelocity = 100
	MinAngle    = -90
	MaxAngle    = 90

	angleStep    = 0.5
	velocityStep = 0.1
)

// Searcher runs exhaustive grid searches over the simulator.
type Searcher struct {
	params  model.Params
	workers int
}

// NewSearcher returns a Searcher. Workers below one evaluate rows sequentially.
func NewSearcher(params model.Params, cfg model.SearchConfig) *Searcher {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Searcher{params: params, workers: workers}
}

// Params returns the simulation constants used by the searcher.
func (s *Searcher) Params() model.Params {
	return s.params
}

// Search dispatches to the search for the given mode.
func (s *Searcher) Search(mode model.Mode, target model.Displacement, wind float64) []model.Hit {
	if mode == model.ModeAngle {
		return s.ByAngle(target, wind)
	}
	return s.ByVelocity(target, wind)
}

// ByAngle sweeps every integer velocity and, for each, every half-degree angle.
// Each hit is recorded with its angle rounded; duplicates are kept. The result
// is ordered by angle, then velocity.
func (s *Searcher) ByAngle(target model.Displacement, wind float64) []model.Hit {
	hits := s.rows(MaxVelocity-MinVelocity+1, func(i int) []model.Hit {
		v := MinVelocity + i
		var row []model.Hit
		for a := float64(MinAngle); a <= MaxAngle; a += angleStep {
			if Simulate(s.params, float64(v), a, target.DX, target.DY, wind) {
				row = append(row, model.Hit{Velocity: v, Angle: int(math.Round(a))})
			}
		}
		return row
	})
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Angle == hits[j].Angle {
			return hits[i].Velocity < hits[j].Velocity
		}
		return hits[i].Angle < hits[j].Angle
	})
	return hits
}

// ByVelocity sweeps every integer angle and, for each, velocities from 1 to 100
// in tenths. Hits are recorded with the velocity rounded and skipped when they
// repeat the previously recorded hit. The result is ordered by velocity, then
// angle.
func (s *Searcher) ByVelocity(target model.Displacement, wind float64) []model.Hit {
	hits := s.rows(MaxAngle-MinAngle+1, func(i int) []model.Hit {
		a := MinAngle + i
		var row []model.Hit
		for v := float64(MinVelocity); v <= MaxVelocity; v += velocityStep {
			if !Simulate(s.params, v, float64(a), target.DX, target.DY, wind) {
				continue
			}
			rounded := int(math.Round(v))
			if rounded < MinVelocity || rounded > MaxVelocity {
				continue
			}
			// Rows never share an angle, so the previous hit of this row is
			// the previous hit overall.
			if n := len(row); n > 0 && row[n-1].Velocity == rounded {
				continue
			}
			row = append(row, model.Hit{Velocity: rounded, Angle: a})
		}
		return row
	})
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Velocity == hits[j].Velocity {
			return hits[i].Angle < hits[j].Angle
		}
		return hits[i].Velocity < hits[j].Velocity
	})
	return hits
}

// rows evaluates n independent rows and concatenates them in row order.
func (s *Searcher) rows(n int, row func(i int) []model.Hit) []model.Hit {
	results := make([][]model.Hit, n)
	if s.workers == 1 {
		for i := range results {
			results[i] = row(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.workers)
		for i := range results {
			i := i
			g.Go(func() error {
				results[i] = row(i)
				return nil
			})
		}
		// Rows cannot fail.
		_ = g.Wait()
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	hits := make([]model.Hit, 0, total)
	for _, r := range results {
		hits = append(hits, r...)
	}
	return hits
}

// SearchByAngle runs a sequential angle-enumeration search.
func SearchByAngle(p model.Params, target model.Displacement, wind float64) []model.Hit {
	return NewSearcher(p, model.SearchConfig{}).ByAngle(target, wind)
}

// SearchByVelocity runs a sequential velocity-enumeration search.
func SearchByVelocity(p model.Params, target model.Displacement, wind float64) []model.Hit {
	return NewSearcher(p, model.SearchConfig{}).ByVelocity(target, wind)
}
