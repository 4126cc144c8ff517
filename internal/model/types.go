// Package model defines shared data structures.
package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Point is a position in window-client pixels, origin top-left, y down.
type Point struct {
	X int
	Y int
}

// Extent is the size of a window client area in pixels.
type Extent struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive.
func (e Extent) Valid() bool {
	return e.Width > 0 && e.Height > 0
}

// Displacement is the target position relative to the launch point in
// normalized pixels, x right and y up.
type Displacement struct {
	DX float64
	DY float64
}

// Finite reports whether both components are finite numbers.
func (d Displacement) Finite() bool {
	return !math.IsNaN(d.DX) && !math.IsInf(d.DX, 0) && !math.IsNaN(d.DY) && !math.IsInf(d.DY, 0)
}

// Hit is a launch solution verified by simulation.
type Hit struct {
	Velocity int
	Angle    int
}

// String renders the hit as (velocity,angle).
func (h Hit) String() string {
	return fmt.Sprintf("(%d,%d)", h.Velocity, h.Angle)
}

// Bucket groups hits whose angles share the same ten-degree floor.
type Bucket struct {
	Key  int
	Hits []Hit
}

// Aggregated is the presentation form of a search result.
type Aggregated struct {
	Best    []Hit
	Buckets []Bucket
}

// Mode selects which parameter the search enumerates.
type Mode int

const (
	// ModeVelocity sweeps angles in the outer loop and emits velocities.
	ModeVelocity Mode = iota
	// ModeAngle sweeps velocities in the outer loop and emits angles.
	ModeAngle
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeAngle:
		return "ANGLE"
	case ModeVelocity:
		return "VELOCITY"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeAngle {
		return ModeVelocity
	}
	return ModeAngle
}

// ParseMode parses "angle" or "velocity" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "angle":
		return ModeAngle, nil
	case "velocity":
		return ModeVelocity, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (use angle or velocity)", s)
	}
}

// Params holds the tunable constants of the trajectory simulation.
type Params struct {
	MetersToPixels    float64
	Gravity           float64
	Step              float64
	MaxSteps          int
	HitTolerance      float64
	WindScale         float64
	TerminationBuffer float64
}

// DefaultParams returns the calibrated defaults.
func DefaultParams() Params {
	return Params{
		MetersToPixels:    2.271,
		Gravity:           9.81,
		Step:              0.01,
		MaxSteps:          2000,
		HitTolerance:      3,
		WindScale:         0.0125,
		TerminationBuffer: 10,
	}
}

// SearchConfig controls how the solution grid is evaluated.
type SearchConfig struct {
	Workers int
}

// Config defines trainer settings.
type Config struct {
	Params              Params
	Search              SearchConfig
	Mode                Mode
	MaxHits             int
	Tick                time.Duration
	RequireCachedExtent bool
	WindowTitle         string
}

// Sample is an in-game shot recorded for calibration.
type Sample struct {
	ID         int64
	RecordedAt time.Time
	Velocity   float64
	Angle      float64
	Wind       float64
	DX         float64
	DY         float64
	Note       string
}
