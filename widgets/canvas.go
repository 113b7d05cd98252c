package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Ink is what occupies one canvas cell. Higher inks win when they overlap.
type Ink uint8

const (
	InkNone Ink = iota
	InkCorner
	InkTrail
	InkPoint
	InkPlayed
)

// Canvas is a small character raster for line art
type Canvas struct {
	W, H  int
	cells []Ink
}

func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{W: w, H: h, cells: make([]Ink, w*h)}
}

// Set paints one cell unless something more important is already there.
// Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int, ink Ink) {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return
	}
	i := y*c.W + x
	if ink > c.cells[i] {
		c.cells[i] = ink
	}
}

func (c *Canvas) At(x, y int) Ink {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return InkNone
	}
	return c.cells[y*c.W+x]
}

// Line draws from (x0, y0) to (x1, y1) inclusive (Bresenham)
func (c *Canvas) Line(x0, y0, x1, y1 int, ink Ink) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.Set(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Brush says how an ink is drawn
type Brush struct {
	Glyph rune
	Style lipgloss.Style
}

// Rows renders every canvas row. Inks without a brush are drawn as spaces.
func (c *Canvas) Rows(brushes map[Ink]Brush) []string {
	rows := make([]string, c.H)
	for y := 0; y < c.H; y++ {
		var line strings.Builder
		for x := 0; x < c.W; x++ {
			b, ok := brushes[c.At(x, y)]
			if !ok || c.At(x, y) == InkNone {
				line.WriteByte(' ')
				continue
			}
			line.WriteString(b.Style.Render(string(b.Glyph)))
		}
		rows[y] = line.String()
	}
	return rows
}

// String renders the canvas with plain glyphs, one line per row
func (c *Canvas) String(glyphs map[Ink]rune) string {
	brushes := make(map[Ink]Brush, len(glyphs))
	for ink, g := range glyphs {
		brushes[ink] = Brush{Glyph: g, Style: lipgloss.NewStyle()}
	}
	return strings.Join(c.Rows(brushes), "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
