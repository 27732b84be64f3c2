package chart

import "math"

// blank is the empty braille cell.
const blank rune = 0x2800

// brailleDots maps (col 0-1, row 0-3) to the braille dot bit offsets.
// Braille character = U+2800 + sum of activated dot bits.
// Column 0: dots 1,2,3,7 (bits 0,1,2,6)
// Column 1: dots 4,5,6,8 (bits 3,4,5,7)
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40}, // left column
	{0x08, 0x10, 0x20, 0x80}, // right column
}

// Bounds returns the minimum and maximum over every finite value of every
// series. ok is false when there is no finite value.
func Bounds(series ...[]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// Canvas is a braille dot grid of width x rows characters. Each character
// holds 2x4 dots. Every cell remembers the first layer that drew into it,
// which lets callers color overlaid series.
type Canvas struct {
	width, rows int
	lo, hi      float64
	span        int
	cells       [][]rune
	owner       [][]int
}

// NewCanvas creates a canvas whose y axis covers [lo, hi] and whose x axis
// covers span points, plotted left to right from index 0.
func NewCanvas(width, rows int, lo, hi float64, span int) *Canvas {
	if width < 1 {
		width = 1
	}
	if rows < 1 {
		rows = 1
	}
	c := &Canvas{width: width, rows: rows, lo: lo, hi: hi, span: span}
	c.cells = make([][]rune, rows)
	c.owner = make([][]int, rows)
	for r := range c.cells {
		c.cells[r] = make([]rune, width)
		c.owner[r] = make([]int, width)
		for col := range c.cells[r] {
			c.cells[r][col] = blank
			c.owner[r][col] = -1
		}
	}
	return c
}

// Plot draws values as layer. Index i is placed proportionally along the x
// axis so that series of different lengths share one time scale. When there
// are more points than dot columns, later points in a column win.
func (c *Canvas) Plot(layer int, values []float64) {
	dotCols := c.width * 2
	dotRows := c.rows * 4
	span := max(c.span, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		dotCol := 0
		if span > 1 {
			dotCol = i * (dotCols - 1) / (span - 1)
		}
		dotRow := dotRows - 1 - int(math.Round(c.normalize(v)*float64(dotRows-1)))
		dotRow = min(max(dotRow, 0), dotRows-1)

		charRow, charCol := dotRow/4, dotCol/2
		c.cells[charRow][charCol] |= brailleDots[dotCol%2][dotRow%4]
		if c.owner[charRow][charCol] < 0 {
			c.owner[charRow][charCol] = layer
		}
	}
}

// normalize maps v into [0, 1]. A flat range maps to the middle.
func (c *Canvas) normalize(v float64) float64 {
	if c.hi <= c.lo {
		return 0.5
	}
	n := (v - c.lo) / (c.hi - c.lo)
	return min(max(n, 0), 1)
}

// Lines returns the plain text rows, top first.
func (c *Canvas) Lines() []string {
	return c.Render(nil)
}

// Render returns the rows with each run of same-layer cells passed through
// paint. Empty cells are reported as layer -1. A nil paint leaves the text
// unchanged.
func (c *Canvas) Render(paint func(layer int, s string) string) []string {
	out := make([]string, c.rows)
	for r := range c.cells {
		if paint == nil {
			out[r] = string(c.cells[r])
			continue
		}
		var line []byte
		start := 0
		for col := 1; col <= c.width; col++ {
			if col < c.width && c.owner[r][col] == c.owner[r][start] {
				continue
			}
			line = append(line, paint(c.owner[r][start], string(c.cells[r][start:col]))...)
			start = col
		}
		out[r] = string(line)
	}
	return out
}

// RenderBrailleChart renders one series scaled to its own range.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}
	lo, hi, ok := Bounds(values)
	if !ok {
		return nil
	}
	c := NewCanvas(width, rows, lo, hi, len(values))
	c.Plot(0, values)
	return c.Lines()
}
