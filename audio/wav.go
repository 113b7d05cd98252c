package audio

import (
	"io"
	"math"
	"os"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"seqgrid/sequencer"
)

const (
	wavBitDepth = 16
	wavChannels = 1
	wavPCM      = 1

	// tail lets the last gate fade out
	renderTail = 20 * time.Millisecond
)

// RenderDuration is the length of a rendered sequence: one silent step
// before the first note, a step per note, the last gate and a short tail
func RenderDuration(n int, timing sequencer.Timing) time.Duration {
	if n == 0 {
		return 0
	}
	return time.Duration(n)*timing.Step + timing.Gate + renderTail
}

// RenderWAV plays notes through a fresh oscillator with the player's timing
// and writes the result as 16-bit mono PCM
func RenderWAV(w io.WriteSeeker, notes []uint8, timing sequencer.Timing, settings Settings) error {
	if len(notes) == 0 {
		return fault.Wrap(fault.New("nothing to render"),
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("empty pattern", "select some cells before exporting"))
	}

	sr := settings.SampleRate
	osc := NewOscillator(sr, settings.Level)
	samplesFor := func(d time.Duration) int {
		if d <= 0 {
			return 0
		}
		return int(math.Round(d.Seconds() * float64(sr)))
	}

	data := make([]int, 0, samplesFor(RenderDuration(len(notes), timing)))
	render := func(open bool, d time.Duration) {
		osc.Gate(open)
		for i := samplesFor(d); i > 0; i-- {
			data = append(data, toPCM16(osc.Next()))
		}
	}

	render(false, timing.Step)
	for i, note := range notes {
		osc.SetNote(note)
		render(true, timing.Gate)
		if i < len(notes)-1 {
			render(false, timing.Step-timing.Gate)
		}
	}
	render(false, renderTail)

	enc := wav.NewEncoder(w, sr, wavBitDepth, wavChannels, wavPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: wavChannels, SampleRate: sr},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fault.Wrap(err, fmsg.With("write wav samples"))
	}
	return fault.Wrap(enc.Close(), fmsg.With("finish wav"))
}

// ExportWAV renders notes into a new file at path
func ExportWAV(path string, notes []uint8, timing sequencer.Timing, settings Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.Wrap(err, fmsg.WithDesc("create wav", "cannot write "+path))
	}

	if err := RenderWAV(f, notes, timing, settings); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return fault.Wrap(f.Close(), fmsg.With("close wav"))
}

func toPCM16(v float64) int {
	v = math.Max(-1, math.Min(1, v))
	return int(math.Round(v * 32767))
}
