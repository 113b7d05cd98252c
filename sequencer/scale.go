package sequencer

import (
	"fmt"
	"math"
)

// Scale maps a grid column to a MIDI note: C major from middle C
var Scale = [GridSize]uint8{60, 62, 64, 65, 67, 69, 71, 72}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MIDIToFreq converts a MIDI note number to Hz (A4 = 69 = 440Hz)
func MIDIToFreq(note uint8) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

// NoteName returns scientific pitch notation, e.g. 60 -> "C4"
func NoteName(note uint8) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note)/12-1)
}
