package sandbox

import (
	"math"
	"strings"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/ballistics"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/render"
)

// arena draws flight paths over the simulated window in braille dots.
type arena struct {
	canvas *render.Canvas
	handle *Handle
}

func newArena(cols, rows int, h *Handle) *arena {
	return &arena{canvas: render.NewCanvas(cols, rows), handle: h}
}

// drawPath plots a normalized path launched from source in a window of the
// given extent.
func (a *arena) drawPath(path []ballistics.Vec, source model.Point, extent model.Extent) {
	if !extent.Valid() || len(path) == 0 {
		return
	}
	sx := float64(extent.Width) / ballistics.BaseWidth
	sy := float64(extent.Height) / ballistics.BaseHeight
	xs := make([]int, 0, len(path))
	ys := make([]int, 0, len(path))
	for _, p := range path {
		px := float64(source.X) + p.X*sx
		py := float64(source.Y) - p.Y*sy
		dx, dy := a.dot(px, py)
		if n := len(xs); n > 0 && xs[n-1] == dx && ys[n-1] == dy {
			continue
		}
		xs = append(xs, dx)
		ys = append(ys, dy)
	}
	a.canvas.Polyline(xs, ys)
}

// dot maps a window pixel to a canvas dot.
func (a *arena) dot(px, py float64) (int, int) {
	x := int(math.Floor(px * 2 / float64(a.handle.cellW)))
	y := int(math.Floor(py * 4 / float64(a.handle.cellH)))
	return x, y
}

type marker struct {
	at   model.Point
	char rune
}

// render returns the arena lines with the markers drawn over the path. Later
// markers win when two share a cell.
func (a *arena) render(markers []marker) []string {
	rows := a.canvas.Rows()
	cells := make([][]rune, len(rows))
	for i, row := range rows {
		cells[i] = []rune(row)
	}
	marked := map[[2]int]rune{}
	for _, mk := range markers {
		r := mk.char
		col, row := a.handle.CellOf(mk.at)
		if row >= 0 && row < len(cells) && col >= 0 && col < len(cells[row]) {
			marked[[2]int{col, row}] = r
		}
	}

	lines := make([]string, len(cells))
	for y, row := range cells {
		var b strings.Builder
		start := 0
		for x := range row {
			r, ok := marked[[2]int{x, y}]
			if !ok {
				continue
			}
			b.WriteString(arenaStyle.Render(string(row[start:x])))
			b.WriteString(markerStyle.Render(string(r)))
			start = x + 1
		}
		b.WriteString(arenaStyle.Render(string(row[start:])))
		lines[y] = b.String()
	}
	return lines
}
