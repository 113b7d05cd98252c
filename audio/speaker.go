package audio

import (
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"seqgrid/debug"
)

// Settings configure the speaker output
type Settings struct {
	SampleRate int
	Buffer     time.Duration
	Level      float64
}

// DefaultSettings mirror config.DefaultConfig
var DefaultSettings = Settings{
	SampleRate: 44100,
	Buffer:     100 * time.Millisecond,
	Level:      0.5,
}

// Speaker plays the oscillator through the system audio device. The device
// is opened on the first NoteOn and stays open for the life of the process.
type Speaker struct {
	settings Settings
	osc      *Oscillator

	once sync.Once
	mu   sync.Mutex
	err  error
}

// NewSpeaker creates a speaker voice; nothing is opened yet
func NewSpeaker(settings Settings) *Speaker {
	return &Speaker{
		settings: settings,
		osc:      NewOscillator(settings.SampleRate, settings.Level),
	}
}

func (s *Speaker) init() error {
	s.once.Do(func() {
		sr := beep.SampleRate(s.settings.SampleRate)
		if err := speaker.Init(sr, sr.N(s.settings.Buffer)); err != nil {
			s.mu.Lock()
			s.err = fault.Wrap(err, fmsg.WithDesc("speaker init", "audio output unavailable"))
			s.mu.Unlock()
			debug.Error("audio", err, "speaker init failed")
			return
		}
		speaker.Play(s.osc)
		debug.Log("audio", "speaker open sr=%d buffer=%s", s.settings.SampleRate, s.settings.Buffer)
	})
	return s.Err()
}

// Err returns the error from opening the audio device, if any
func (s *Speaker) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Speaker) NoteOn(note uint8) {
	if err := s.init(); err != nil {
		return
	}
	speaker.Lock()
	s.osc.SetNote(note)
	s.osc.Gate(true)
	speaker.Unlock()
}

func (s *Speaker) NoteOff() {
	if s.Err() != nil {
		return
	}
	speaker.Lock()
	s.osc.Gate(false)
	speaker.Unlock()
}
