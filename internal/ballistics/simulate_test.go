package ballistics

import (
	"math"
	"testing"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
)

func TestSimulateFlatShot(t *testing.T) {
	p := model.DefaultParams()
	// Range 200 px is about 88 m; v = sqrt(88.07*9.81) at 45 degrees.
	if !Simulate(p, 29.4, 45, 200, 0, 0) {
		t.Fatalf("expected 45 degree shot to hit flat target")
	}
	if Simulate(p, 10, 45, 200, 0, 0) {
		t.Fatalf("expected slow shot to fall short")
	}
}

func TestSimulateDirectionFollowsTarget(t *testing.T) {
	p := model.DefaultParams()
	if !Simulate(p, 29.4, 45, -200, 0, 0) {
		t.Fatalf("expected shot to be mirrored toward a target on the left")
	}
}

func TestSimulateWindDeflects(t *testing.T) {
	p := model.DefaultParams()
	if Simulate(p, 29.4, 45, 200, 0, 100) {
		t.Fatalf("expected full tail wind to carry the shot past the target")
	}
	if Simulate(p, 29.4, 45, 200, 0, -100) {
		t.Fatalf("expected full head wind to drop the shot short")
	}
}

func TestSimulateStraightUp(t *testing.T) {
	p := model.DefaultParams()
	if !Simulate(p, 30, 90, 0, 50, 0) {
		t.Fatalf("expected vertical shot to pass a target directly above")
	}
	if Simulate(p, 5, 90, 0, 50, 0) {
		t.Fatalf("expected weak vertical shot to stay below the target")
	}
}

func TestSimulateRespectsStepBudget(t *testing.T) {
	p := model.DefaultParams()
	p.MaxSteps = 0
	if Simulate(p, 29.4, 45, 200, 0, 0) {
		t.Fatalf("expected miss with no steps")
	}
}

func TestTraceEndsNearTargetOnHit(t *testing.T) {
	p := model.DefaultParams()
	target := model.Displacement{DX: 200, DY: 0}
	path := Trace(p, 29.4, 45, target, 0)
	if len(path) < 2 {
		t.Fatalf("expected a path, got %d points", len(path))
	}
	if path[0] != (Vec{}) {
		t.Fatalf("expected path to start at the origin, got %+v", path[0])
	}
	last := path[len(path)-1]
	if dist := math.Hypot(last.X-target.DX, last.Y-target.DY); dist >= p.HitTolerance {
		t.Fatalf("expected last point within tolerance, got %.3f px", dist)
	}
}

func TestClosestApproach(t *testing.T) {
	p := model.DefaultParams()
	target := model.Displacement{DX: 200, DY: 0}
	if d := ClosestApproach(p, 29.4, 45, target, 0); d >= p.HitTolerance {
		t.Fatalf("expected hit distance below tolerance, got %.3f", d)
	}
	short := ClosestApproach(p, 10, 45, target, 0)
	if short < 150 {
		t.Fatalf("expected short shot to stay far from target, got %.3f", short)
	}
}
