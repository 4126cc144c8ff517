package ballistics

import (
	"math"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
)

// Vec is a point on a simulated flight path in normalized pixels.
type Vec struct {
	X float64
	Y float64
}

// flight is the integrator state of one shot, in meters.
type flight struct {
	x, y     float64
	vx, vy   float64
	ax       float64
	g        float64
	dt       float64
	tx, ty   float64
	tolSq    float64
	floor    float64
	maxSteps int
}

func newFlight(p model.Params, velocity, angleDeg, targetX, targetY, wind float64) flight {
	tx := targetX / p.MetersToPixels
	ty := targetY / p.MetersToPixels
	tol := p.HitTolerance / p.MetersToPixels

	// The horizontal component always points at the target; the angle only
	// shapes the arc.
	dir := 1.0
	if tx < 0 {
		dir = -1.0
	}
	rad := angleDeg * (math.Pi / 180)
	return flight{
		vx:       velocity * math.Cos(rad) * dir,
		vy:       velocity * math.Sin(rad),
		ax:       wind * p.WindScale,
		g:        p.Gravity,
		dt:       p.Step,
		tx:       tx,
		ty:       ty,
		tolSq:    tol * tol,
		floor:    ty - p.TerminationBuffer/p.MetersToPixels,
		maxSteps: p.MaxSteps,
	}
}

// step advances one tick: velocity first, then position.
func (f *flight) step() {
	f.vx += f.ax * f.dt
	f.vy -= f.g * f.dt
	f.x += f.vx * f.dt
	f.y += f.vy * f.dt
}

func (f *flight) distSq() float64 {
	dx := f.x - f.tx
	dy := f.y - f.ty
	return dx*dx + dy*dy
}

// fallenPast reports a projectile that is below the target floor and still descending.
func (f *flight) fallenPast() bool {
	return f.y < f.floor && f.vy < 0
}

// Simulate reports whether a shot with the given velocity (m/s) and angle
// (degrees) passes within the hit tolerance of the target displacement (pixels).
func Simulate(p model.Params, velocity, angleDeg, targetX, targetY, wind float64) bool {
	f := newFlight(p, velocity, angleDeg, targetX, targetY, wind)
	for i := 0; i < f.maxSteps; i++ {
		f.step()
		if f.distSq() < f.tolSq {
			return true
		}
		if f.fallenPast() {
			return false
		}
	}
	return false
}

// Trace returns the flight path in pixels, ending at the step that decided
// the outcome.
func Trace(p model.Params, velocity, angleDeg float64, target model.Displacement, wind float64) []Vec {
	f := newFlight(p, velocity, angleDeg, target.DX, target.DY, wind)
	path := make([]Vec, 0, 64)
	path = append(path, Vec{})
	for i := 0; i < f.maxSteps; i++ {
		f.step()
		path = append(path, Vec{X: f.x * p.MetersToPixels, Y: f.y * p.MetersToPixels})
		if f.distSq() < f.tolSq || f.fallenPast() {
			break
		}
	}
	return path
}

// ClosestApproach returns the smallest distance in pixels between the
// projectile and the target before the flight terminates. It does not stop
// at a hit.
func ClosestApproach(p model.Params, velocity, angleDeg float64, target model.Displacement, wind float64) float64 {
	f := newFlight(p, velocity, angleDeg, target.DX, target.DY, wind)
	best := math.Inf(1)
	for i := 0; i < f.maxSteps; i++ {
		f.step()
		if d := f.distSq(); d < best {
			best = d
		}
		if f.fallenPast() {
			break
		}
	}
	return math.Sqrt(best) * p.MetersToPixels
}
