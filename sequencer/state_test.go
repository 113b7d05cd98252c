package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() *State {
	return NewState(NewGeometry(4, 2))
}

func TestToggleTwiceRestoresCell(t *testing.T) {
	s := newTestState()
	s.Toggle(1, 1)
	s.Toggle(6, 2)
	before := s.Grid

	assert.True(t, s.Toggle(3, 4))
	assert.False(t, s.Toggle(3, 4))
	assert.Equal(t, before, s.Grid)
}

func TestPointsFollowToggleOnOnly(t *testing.T) {
	s := newTestState()
	s.Toggle(0, 0)
	s.Toggle(2, 5)
	s.Toggle(7, 7)
	assert.Len(t, s.Points, s.Selected())

	// toggling off keeps the point
	s.Toggle(2, 5)
	assert.Equal(t, 2, s.Selected())
	assert.Len(t, s.Points, 3)

	// toggling back on appends again
	s.Toggle(2, 5)
	assert.Len(t, s.Points, 4)
	assert.Equal(t, s.Geometry().Mirror(2, 5), s.Points[3])
}

func TestPointsKeepClickOrder(t *testing.T) {
	s := newTestState()
	s.Toggle(7, 0)
	s.Toggle(0, 7)

	g := s.Geometry()
	require.Len(t, s.Points, 2)
	assert.Equal(t, g.Mirror(7, 0), s.Points[0])
	assert.Equal(t, g.Mirror(0, 7), s.Points[1])
}

func TestResetClearsEverything(t *testing.T) {
	s := newTestState()
	s.Toggle(0, 0)
	s.Toggle(4, 4)
	s.SetProgress(0.5)
	s.Playhead = Cell{Row: 4, Col: 4}

	s.Reset()
	assert.Equal(t, 0, s.Selected())
	assert.Empty(t, s.Points)
	assert.Zero(t, s.Progress)
	assert.Equal(t, NoCell, s.Playhead)
}

func TestClickHitsLeftGridOnly(t *testing.T) {
	s := newTestState()
	g := s.Geometry()

	// middle of cell (2, 3)
	assert.True(t, s.Click(3*g.CellW+1, g.Top()+2*g.CellH+1))
	assert.True(t, s.Grid[2][3])

	// right grid, the margin above the grids and below them are ignored
	assert.False(t, s.Click(g.RightX()+1, g.Top()+1))
	assert.False(t, s.Click(1, g.Top()-0.5))
	assert.False(t, s.Click(1, g.Bottom()))
	assert.Equal(t, 1, s.Selected())
	assert.Len(t, s.Points, 1)
}

func TestPatternScansRowsThenColumns(t *testing.T) {
	s := newTestState()
	s.Toggle(5, 7)
	s.Toggle(0, 3)
	s.Toggle(0, 0)

	steps := s.Pattern()
	require.Len(t, steps, 3)
	assert.Equal(t, Step{Row: 0, Col: 0, Note: 60}, steps[0])
	assert.Equal(t, Step{Row: 0, Col: 3, Note: 65}, steps[1])
	assert.Equal(t, Step{Row: 5, Col: 7, Note: 72}, steps[2])
	assert.Equal(t, []uint8{60, 65, 72}, s.Notes())
}

func TestConnectedSegments(t *testing.T) {
	s := newTestState()
	assert.Zero(t, s.ConnectedSegments())

	s.Toggle(0, 0)
	s.SetProgress(1)
	assert.Zero(t, s.ConnectedSegments(), "one point has nothing to connect")

	s.Toggle(1, 1)
	s.Toggle(2, 2)
	s.Toggle(3, 3)

	s.SetProgress(0)
	assert.Zero(t, s.ConnectedSegments())
	s.SetProgress(0.25)
	assert.Equal(t, 1, s.ConnectedSegments())
	s.SetProgress(0.5)
	assert.Equal(t, 2, s.ConnectedSegments())
	s.SetProgress(1)
	assert.Equal(t, 3, s.ConnectedSegments())
}

func TestApplyDoneMarksLastPoint(t *testing.T) {
	s := newTestState()
	s.Toggle(0, 0)
	s.Toggle(1, 1)

	s.Apply(Event{Kind: EventStep, Index: 1, Total: 2, Step: Step{Row: 1, Col: 1, Note: 62}, Progress: 1})
	assert.Equal(t, 1.0, s.Progress)
	assert.Equal(t, Cell{Row: 1, Col: 1}, s.Playhead)

	s.Apply(Event{Kind: EventDone, Total: 2})
	assert.Zero(t, s.Progress)
	assert.Equal(t, NoCell, s.Playhead)
	assert.False(t, s.Points[0].Played)
	assert.True(t, s.Points[1].Played)
}

func TestMarkPlayedWithoutPoints(t *testing.T) {
	s := newTestState()
	assert.NotPanics(t, s.MarkPlayed)
}

func TestApplyStepAfterResetLeavesPlayheadOff(t *testing.T) {
	s := newTestState()
	s.Toggle(0, 0)
	s.Toggle(2, 5)

	s.Apply(Event{Kind: EventStep, Index: 0, Total: 2, Step: Step{Row: 0, Col: 0, Note: 60}, Progress: 0.5})
	assert.Equal(t, Cell{Row: 0, Col: 0}, s.Playhead)

	s.Reset()
	s.Apply(Event{Kind: EventStep, Index: 1, Total: 2, Step: Step{Row: 2, Col: 5, Note: 69}, Progress: 1})
	assert.Equal(t, NoCell, s.Playhead)
	assert.Equal(t, 1.0, s.Progress)
}
