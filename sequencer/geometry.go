package sequencer

import "math"

// GridSize is the number of rows and columns in each grid
const GridSize = 8

// Layout constants in cells: the right grid starts one empty column after
// the left one, and both sit below a margin of one and a half cells.
const (
	rightGridOffset = GridSize + 1
	topMargin       = 1.5
)

// Point is a position in canvas units. Played marks the last point once a
// sequence has finished.
type Point struct {
	X, Y   float64
	Played bool
}

// Geometry maps canvas positions to grid cells. A canvas unit is whatever the
// renderer draws with; the TUI uses one terminal column.
type Geometry struct {
	CellW, CellH float64
}

// NewGeometry returns a geometry with the given cell size
func NewGeometry(cellW, cellH float64) Geometry {
	return Geometry{CellW: cellW, CellH: cellH}
}

// Top is the y coordinate of the first grid row
func (g Geometry) Top() float64 {
	return topMargin * g.CellH
}

// LeftX is the x coordinate of the left grid's first column
func (g Geometry) LeftX() float64 {
	return 0
}

// RightX is the x coordinate of the right grid's first column
func (g Geometry) RightX() float64 {
	return rightGridOffset * g.CellW
}

// Width is the total canvas width covered by both grids
func (g Geometry) Width() float64 {
	return (rightGridOffset + GridSize) * g.CellW
}

// Bottom is the y coordinate just below the last grid row
func (g Geometry) Bottom() float64 {
	return g.Top() + GridSize*g.CellH
}

// HitLeft returns the left-grid cell containing (x, y). Cells are half-open:
// a cell owns its top and left edges.
func (g Geometry) HitLeft(x, y float64) (row, col int, ok bool) {
	return g.hit(x-g.LeftX(), y-g.Top())
}

// HitRight returns the right-grid cell containing (x, y)
func (g Geometry) HitRight(x, y float64) (row, col int, ok bool) {
	return g.hit(x-g.RightX(), y-g.Top())
}

func (g Geometry) hit(dx, dy float64) (row, col int, ok bool) {
	if dx < 0 || dy < 0 || g.CellW <= 0 || g.CellH <= 0 {
		return -1, -1, false
	}
	col = int(math.Floor(dx / g.CellW))
	row = int(math.Floor(dy / g.CellH))
	if row >= GridSize || col >= GridSize {
		return -1, -1, false
	}
	return row, col, true
}

// Mirror returns the centre of the right-grid cell matching a left-grid cell
func (g Geometry) Mirror(row, col int) Point {
	return Point{
		X: g.RightX() + (float64(col)+0.5)*g.CellW,
		Y: g.Top() + (float64(row)+0.5)*g.CellH,
	}
}

// RightCell is the inverse of Mirror: the right-grid cell containing p
func (g Geometry) RightCell(p Point) (row, col int, ok bool) {
	return g.HitRight(p.X, p.Y)
}
