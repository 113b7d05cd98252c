package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"seqgrid/sequencer"
	"seqgrid/widgets"
)

// right grid raster: one extra column and row for the closing corners
const (
	rasterW = sequencer.GridSize*cellW + 1
	rasterH = sequencer.GridSize*cellH + 1
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	if m.statusErr {
		statusStyle = lipgloss.NewStyle().Foreground(m.Theme.Warning())
	}

	var out strings.Builder
	out.WriteString(m.header(headerStyle, dimStyle))
	out.WriteString("\n")
	out.WriteString(strings.Join(m.block(), "\n"))
	out.WriteString("\n")
	out.WriteString(statusStyle.Render(m.status))
	out.WriteString("\n")
	out.WriteString(m.help.View(m.Keys))
	return out.String()
}

func (m Model) header(title, dim lipgloss.Style) string {
	state := "idle"
	if m.State.Playhead != sequencer.NoCell {
		state = fmt.Sprintf("%c playing", m.Theme.Symbols.Play)
	}
	device := ""
	if m.controller != nil {
		device = "  LP:" + m.controller.ID()
	}
	return title.Render("seqgrid") +
		dim.Render(fmt.Sprintf("  %s  %d selected  %d points%s", state, m.State.Selected(), len(m.State.Points), device))
}

// block renders the grids and controls, one string per canvas row
func (m Model) block() []string {
	geom := m.State.Geometry()
	top := int(geom.Top())
	rightX := int(geom.RightX())
	leftW := sequencer.GridSize * cellW

	raster := m.raster()
	lines := make([]string, blockHeight)
	for y := range lines {
		var left string
		switch {
		case y == labelRow:
			left = m.labels()
		case y >= top && y < top+sequencer.GridSize*cellH:
			left = m.gridLine((y-top)/cellH, (y-top)%cellH)
		case y == playRow:
			left = m.playLine()
		case y == resetRow:
			left = m.resetLine()
		}
		line := widgets.PadLine(left, leftW) + strings.Repeat(" ", rightX-leftW)
		if ry := y - top; ry >= 0 && ry < len(raster) {
			line += raster[ry]
		}
		lines[y] = strings.TrimRight(line, " ")
	}
	return lines
}

func (m Model) labels() string {
	style := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	var b strings.Builder
	for col := 0; col < sequencer.GridSize; col++ {
		b.WriteString(style.Render(widgets.PadLine(sequencer.NoteName(sequencer.Scale[col]), cellW)))
	}
	return b.String()
}

// gridLine draws one terminal line of a left-grid row. The second line of a
// row is the gutter.
func (m Model) gridLine(row, sub int) string {
	if sub != 0 {
		return ""
	}
	sym := m.Theme.Symbols
	var b strings.Builder
	for col := 0; col < sequencer.GridSize; col++ {
		on := m.State.Grid[row][col]
		cell := sequencer.Cell{Row: row, Col: col}
		cursor := m.cursor == cell

		glyph := sym.CellOff
		color := m.Theme.Color(0.15)
		switch {
		case cursor && on:
			glyph = sym.CellCursor
		case cursor:
			glyph = sym.CellCursorOff
		case on:
			glyph = sym.CellOn
		}
		switch {
		case m.State.Playhead == cell:
			color = m.Theme.Active()
		case on:
			color = m.Theme.Color(columnNorm(col))
		case cursor:
			color = m.Theme.Cursor()
		}
		for i := 0; i < cellW-1; i++ {
			b.WriteString(widgets.RenderPad(glyph, color))
		}
		b.WriteString(" ")
	}
	return b.String()
}

func (m Model) playLine() string {
	sym := m.Theme.Symbols
	button := lipgloss.NewStyle().Foreground(m.Theme.BG()).Background(m.Theme.Accent())
	full := lipgloss.NewStyle().Foreground(m.Theme.Success())
	empty := lipgloss.NewStyle().Foreground(m.Theme.Surface())

	filled := int(math.Round(m.State.Progress * barWidth))
	return widgets.RenderButton(string(sym.Play), buttonWidth, button) +
		strings.Repeat(" ", barX-buttonWidth) +
		widgets.RenderBar(filled, barWidth, sym.BarFull, sym.BarEmpty, full, empty)
}

func (m Model) resetLine() string {
	button := lipgloss.NewStyle().Foreground(m.Theme.FG()).Background(m.Theme.Surface())
	return widgets.RenderButton(string(m.Theme.Symbols.Reset), buttonWidth, button)
}

// raster draws the right grid: cell corners, the connecting trail for the
// current progress and the points themselves
func (m Model) raster() []string {
	geom := m.State.Geometry()
	c := widgets.NewCanvas(rasterW, rasterH)

	for r := 0; r <= sequencer.GridSize; r++ {
		for col := 0; col <= sequencer.GridSize; col++ {
			c.Set(col*cellW, r*cellH, widgets.InkCorner)
		}
	}

	pos := func(p sequencer.Point) (int, int) {
		return int(math.Floor(p.X - geom.RightX())), int(math.Floor(p.Y - geom.Top()))
	}

	pts := m.State.Points
	for i := 0; i < m.State.ConnectedSegments(); i++ {
		x0, y0 := pos(pts[i])
		x1, y1 := pos(pts[i+1])
		c.Line(x0, y0, x1, y1, widgets.InkTrail)
	}
	for _, p := range pts {
		ink := widgets.InkPoint
		if p.Played {
			ink = widgets.InkPlayed
		}
		x, y := pos(p)
		c.Set(x, y, ink)
	}

	sym := m.Theme.Symbols
	return c.Rows(map[widgets.Ink]widgets.Brush{
		widgets.InkCorner: {Glyph: sym.Corner, Style: lipgloss.NewStyle().Foreground(m.Theme.Surface())},
		widgets.InkTrail:  {Glyph: sym.Trail, Style: lipgloss.NewStyle().Foreground(m.Theme.Accent())},
		widgets.InkPoint:  {Glyph: sym.Point, Style: lipgloss.NewStyle().Foreground(m.Theme.FG())},
		widgets.InkPlayed: {Glyph: sym.PointPlayed, Style: lipgloss.NewStyle().Foreground(m.Theme.Success())},
	})
}
