// Package ballistics implements the trajectory simulation and solution search.
package ballistics

import (
	"errors"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
)

// Base resolution all screen coordinates are scaled to.
const (
	BaseWidth  = 1768
	BaseHeight = 992
)

var (
	// ErrInvalidExtent is returned when a window extent has a zero or negative side.
	ErrInvalidExtent = errors.New("window extent must be positive")
	// ErrNonFinite is returned when a translated displacement is not finite.
	ErrNonFinite = errors.New("target displacement is not finite")
)

// Translate returns the position of to relative to from, scaled into the base
// resolution with a bottom-left origin. A zero-sized extent yields non-finite
// components; use TranslateChecked or Displacement.Finite before searching.
func Translate(extent model.Extent, from, to model.Point) model.Displacement {
	fx, fy := scalePoint(extent, from)
	tx, ty := scalePoint(extent, to)
	return model.Displacement{DX: tx - fx, DY: ty - fy}
}

// TranslateChecked rejects invalid extents and non-finite results.
func TranslateChecked(extent model.Extent, from, to model.Point) (model.Displacement, error) {
	if !extent.Valid() {
		return model.Displacement{}, ErrInvalidExtent
	}
	d := Translate(extent, from, to)
	if !d.Finite() {
		return model.Displacement{}, ErrNonFinite
	}
	return d, nil
}

func scalePoint(extent model.Extent, p model.Point) (float64, float64) {
	width := float64(extent.Width)
	height := float64(extent.Height)
	scaleX := BaseWidth / width
	scaleY := BaseHeight / height
	return float64(p.X) * scaleX, (height - float64(p.Y)) * scaleY
}
