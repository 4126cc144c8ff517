package render

import (
	"math"
	"strings"
)

// Canvas is a grid of braille cells, each holding 2x4 dots.
type Canvas struct {
	cells [][]uint8
}

// NewCanvas allocates a canvas of width x height cells.
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &Canvas{cells: cells}
}

// DotSize returns the canvas size in dots.
func (c *Canvas) DotSize() (int, int) {
	if len(c.cells) == 0 {
		return 0, 0
	}
	return len(c.cells[0]) * 2, len(c.cells) * 4
}

// Set turns on the dot at (x, y); out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(c.cells) || cellX >= len(c.cells[cellY]) {
		return
	}
	c.cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// Line draws a straight line of dots between two points.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	drawLine(x0, y0, x1, y1, c.Set)
}

// Polyline connects consecutive points.
func (c *Canvas) Polyline(xs, ys []int) {
	for i := 1; i < len(xs) && i < len(ys); i++ {
		c.Line(xs[i-1], ys[i-1], xs[i], ys[i])
	}
	if len(xs) == 1 && len(ys) == 1 {
		c.Set(xs[0], ys[0])
	}
}

// Empty reports whether the cell at (col, row) has no dots.
func (c *Canvas) Empty(col, row int) bool {
	if row < 0 || row >= len(c.cells) || col < 0 || col >= len(c.cells[row]) {
		return true
	}
	return c.cells[row][col] == 0
}

// Rows renders each cell row; empty cells become spaces.
func (c *Canvas) Rows() []string {
	out := make([]string, len(c.cells))
	for y, row := range c.cells {
		var b strings.Builder
		for _, mask := range row {
			if mask == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(brailleFromMask(mask))
		}
		out[y] = b.String()
	}
	return out
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
