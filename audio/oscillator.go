package audio

import (
	"math"

	"seqgrid/sequencer"
)

// slewTime is how long the gate takes to fade fully in or out; it keeps
// note edges from clicking
const slewTime = 0.002

// Oscillator is a gated triangle wave. It implements beep.Streamer and is
// never exhausted. Callers that share it with the speaker goroutine must
// hold speaker.Lock while calling the setters.
type Oscillator struct {
	sampleRate float64
	frequency  float64
	phase      float64 // 0..1

	level float64 // amplitude while the gate is open
	amp   float64 // current amplitude, slewed towards level or 0
	step  float64 // amplitude change per sample
	gate  bool
}

// NewOscillator creates a silent oscillator
func NewOscillator(sampleRate int, level float64) *Oscillator {
	o := &Oscillator{
		sampleRate: float64(sampleRate),
		frequency:  sequencer.MIDIToFreq(sequencer.Scale[0]),
		level:      level,
	}
	o.step = level / (slewTime * o.sampleRate)
	return o
}

// SetNote retunes the oscillator; phase carries over
func (o *Oscillator) SetNote(note uint8) {
	o.frequency = sequencer.MIDIToFreq(note)
}

// Frequency returns the current pitch in Hz
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// Gate opens or closes the amplitude gate
func (o *Oscillator) Gate(open bool) {
	o.gate = open
}

// Open reports whether the gate is open
func (o *Oscillator) Open() bool {
	return o.gate
}

func triangleOsc(phase float64) float64 {
	return 4*math.Abs(phase-0.5) - 1
}

// Next returns one sample and advances the oscillator
func (o *Oscillator) Next() float64 {
	target := 0.0
	if o.gate {
		target = o.level
	}
	if o.amp < target {
		o.amp = math.Min(target, o.amp+o.step)
	} else if o.amp > target {
		o.amp = math.Max(target, o.amp-o.step)
	}

	value := triangleOsc(o.phase) * o.amp
	_, o.phase = math.Modf(o.phase + o.frequency/o.sampleRate)
	return value
}

func (o *Oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := o.Next()
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (o *Oscillator) Err() error {
	return nil
}
