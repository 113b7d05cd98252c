package sequencer

import "math"

// Step is one note of a sequence together with the cell that produced it
type Step struct {
	Row, Col int
	Note     uint8
}

// Cell addresses one left-grid square
type Cell struct {
	Row, Col int
}

// NoCell marks the absence of a playhead
var NoCell = Cell{Row: -1, Col: -1}

// State is the single source of truth for the toy. It is owned by the UI
// goroutine; playback reports back through events applied with Apply.
type State struct {
	Grid     [GridSize][GridSize]bool
	Points   []Point
	Progress float64 // 0..1, fraction of the running sequence already played
	Playhead Cell    // cell of the note sounding right now, NoCell when idle

	geom Geometry
}

// NewState creates an empty state using geom for click hit-testing and
// mirrored point placement
func NewState(geom Geometry) *State {
	return &State{
		geom:     geom,
		Playhead: NoCell,
	}
}

// Geometry returns the geometry the state was built with
func (s *State) Geometry() Geometry {
	return s.geom
}

// Click toggles the left-grid cell under (x, y). Clicks anywhere else,
// including the right grid, are ignored.
func (s *State) Click(x, y float64) bool {
	row, col, ok := s.geom.HitLeft(x, y)
	if !ok {
		return false
	}
	s.Toggle(row, col)
	return true
}

// Toggle flips one cell. Turning a cell on appends its mirrored point;
// turning it off leaves the point list alone.
func (s *State) Toggle(row, col int) (on bool) {
	if row < 0 || row >= GridSize || col < 0 || col >= GridSize {
		return false
	}
	s.Grid[row][col] = !s.Grid[row][col]
	if s.Grid[row][col] {
		s.Points = append(s.Points, s.geom.Mirror(row, col))
	}
	return s.Grid[row][col]
}

// Reset clears every cell and the point list
func (s *State) Reset() {
	s.Grid = [GridSize][GridSize]bool{}
	s.Points = nil
	s.Progress = 0
	s.Playhead = NoCell
}

// Selected returns the number of selected cells
func (s *State) Selected() int {
	n := 0
	for row := range s.Grid {
		for col := range s.Grid[row] {
			if s.Grid[row][col] {
				n++
			}
		}
	}
	return n
}

// Pattern scans rows then columns and returns one step per selected cell.
// The column picks the pitch from Scale.
func (s *State) Pattern() []Step {
	var steps []Step
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			if s.Grid[row][col] {
				steps = append(steps, Step{Row: row, Col: col, Note: Scale[col]})
			}
		}
	}
	return steps
}

// Notes returns just the MIDI notes of Pattern
func (s *State) Notes() []uint8 {
	steps := s.Pattern()
	notes := make([]uint8, len(steps))
	for i, st := range steps {
		notes[i] = st.Note
	}
	return notes
}

// SetProgress stores the playback fraction, clamped to 0..1
func (s *State) SetProgress(p float64) {
	s.Progress = math.Max(0, math.Min(1, p))
}

// MarkPlayed flags the most recently added point
func (s *State) MarkPlayed() {
	if len(s.Points) > 0 {
		s.Points[len(s.Points)-1].Played = true
	}
}

// ConnectedSegments is how many lines to draw between consecutive points for
// the current progress: progress scaled onto 0..len(points)-1, rounded up.
func (s *State) ConnectedSegments() int {
	if len(s.Points) < 2 || s.Progress <= 0 {
		return 0
	}
	max := len(s.Points) - 1
	n := int(math.Ceil(s.Progress * float64(max)))
	if n > max {
		n = max
	}
	return n
}

// Apply folds a playback event into the state
func (s *State) Apply(ev Event) {
	switch ev.Kind {
	case EventStep:
		s.SetProgress(ev.Progress)
		// a cell cleared mid-run is not highlighted
		s.Playhead = NoCell
		if s.Grid[ev.Step.Row][ev.Step.Col] {
			s.Playhead = Cell{Row: ev.Step.Row, Col: ev.Step.Col}
		}
	case EventDone:
		s.Progress = 0
		s.Playhead = NoCell
		s.MarkPlayed()
	}
}

// Idle clears playback-only state after a sequence was stopped early
func (s *State) Idle() {
	s.Progress = 0
	s.Playhead = NoCell
}
