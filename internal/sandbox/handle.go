// Package sandbox provides a terminal stand-in for the game window so the
// trainer can be driven without the game running.
package sandbox

import (
	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/platform"
)

// Default size in pixels of one terminal cell of the arena.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Handle implements platform.Handle over a grid of terminal cells. A command
// key reads as pressed for exactly one tick after it was typed.
type Handle struct {
	cellW, cellH int
	cols, rows   int
	cursor       model.Point
	latched      map[platform.Command]bool
}

// NewHandle returns a Handle whose cells measure cellW x cellH pixels.
func NewHandle(cellW, cellH int) *Handle {
	if cellW < 1 {
		cellW = DefaultCellWidth
	}
	if cellH < 1 {
		cellH = DefaultCellHeight
	}
	return &Handle{cellW: cellW, cellH: cellH, latched: map[platform.Command]bool{}}
}

// Resize sets the arena size in cells.
func (h *Handle) Resize(cols, rows int) {
	h.cols = max(cols, 0)
	h.rows = max(rows, 0)
}

// MoveTo places the cursor at the centre of the given arena cell. Cells
// outside the arena are clamped to its edge.
func (h *Handle) MoveTo(col, row int) {
	col = clamp(col, 0, h.cols-1)
	row = clamp(row, 0, h.rows-1)
	h.cursor = model.Point{X: col*h.cellW + h.cellW/2, Y: row*h.cellH + h.cellH/2}
}

// Press latches cmd until the next EndTick.
func (h *Handle) Press(cmd platform.Command) {
	h.latched[cmd] = true
}

// EndTick releases every latched key.
func (h *Handle) EndTick() {
	clear(h.latched)
}

// IsPressed implements platform.Handle.
func (h *Handle) IsPressed(cmd platform.Command) bool {
	return h.latched[cmd]
}

// WindowExtent implements platform.Handle.
func (h *Handle) WindowExtent() model.Extent {
	return model.Extent{Width: h.cols * h.cellW, Height: h.rows * h.cellH}
}

// Cursor implements platform.Handle.
func (h *Handle) Cursor() model.Point {
	return h.cursor
}

// CellOf maps a window pixel back to its arena cell.
func (h *Handle) CellOf(p model.Point) (col, row int) {
	return floorDiv(p.X, h.cellW), floorDiv(p.Y, h.cellH)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
