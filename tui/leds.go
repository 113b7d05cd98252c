package tui

import (
	"seqgrid/debug"
	"seqgrid/midi"
	"seqgrid/sequencer"
	"seqgrid/theme"
)

// Top-row buttons on the controller
const (
	padPlay  = 0
	padStop  = 1
	padReset = 2
)

// ledMirror remembers what the controller shows so only changes are sent
type ledMirror struct {
	prev map[[2]int]midi.LEDUpdate
}

func newLEDMirror() *ledMirror {
	return &ledMirror{prev: make(map[[2]int]midi.LEDUpdate)}
}

// reset forgets the controller state; the next diff repaints everything
func (l *ledMirror) reset() {
	l.prev = make(map[[2]int]midi.LEDUpdate)
}

// diff returns the updates needed to go from the previous frame to next
func (l *ledMirror) diff(next []midi.LEDUpdate) []midi.LEDUpdate {
	newMap := make(map[[2]int]midi.LEDUpdate, len(next))
	var updates []midi.LEDUpdate

	for _, led := range next {
		key := [2]int{led.Row, led.Col}
		newMap[key] = led

		// Only send if changed
		if prev, ok := l.prev[key]; !ok || prev != led {
			updates = append(updates, led)
		}
	}

	// Clear LEDs that are no longer present
	for key := range l.prev {
		if _, ok := newMap[key]; !ok {
			updates = append(updates, midi.LEDUpdate{Row: key[0], Col: key[1]})
		}
	}

	if len(updates) > 0 {
		debug.Log("led", "diff: batch=%d prev=%d", len(updates), len(l.prev))
	}
	l.prev = newMap
	return updates
}

// renderLEDs lights selected cells in their column colour, pulses the
// playhead in white and lights the transport buttons on the top row
func renderLEDs(st *sequencer.State, th *theme.Theme) []midi.LEDUpdate {
	var leds []midi.LEDUpdate

	for row := 0; row < sequencer.GridSize; row++ {
		for col := 0; col < sequencer.GridSize; col++ {
			padRow, padCol := midi.PadFor(row, col)
			cell := sequencer.Cell{Row: row, Col: col}
			switch {
			case st.Playhead == cell:
				leds = append(leds, midi.LEDUpdate{Row: padRow, Col: padCol, Color: [3]uint8{255, 255, 255}, Channel: midi.ChannelPulse})
			case st.Grid[row][col]:
				leds = append(leds, midi.LEDUpdate{Row: padRow, Col: padCol, Color: columnRGB(th, col), Channel: midi.ChannelStatic})
			}
		}
	}

	play := [3]uint8{0, 100, 0}
	if st.Playhead != sequencer.NoCell {
		play = [3]uint8{0, 255, 0}
	}
	leds = append(leds,
		midi.LEDUpdate{Row: midi.TopRow, Col: padPlay, Color: play},
		midi.LEDUpdate{Row: midi.TopRow, Col: padStop, Color: [3]uint8{180, 60, 60}},
		midi.LEDUpdate{Row: midi.TopRow, Col: padReset, Color: [3]uint8{180, 80, 40}},
	)
	return leds
}

// columnNorm spreads the scale across the upper part of the palette
func columnNorm(col int) float64 {
	return 0.3 + 0.7*float64(col)/float64(sequencer.GridSize-1)
}

func columnRGB(th *theme.Theme, col int) [3]uint8 {
	return th.RGB(columnNorm(col))
}
