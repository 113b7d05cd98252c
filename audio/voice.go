package audio

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"

	"seqgrid/debug"
	"seqgrid/midi"
	"seqgrid/sequencer"
)

// Voices fans note events out to several voices
type Voices []sequencer.Voice

func (vs Voices) NoteOn(note uint8) {
	for _, v := range vs {
		v.NoteOn(note)
	}
}

func (vs Voices) NoteOff() {
	for _, v := range vs {
		v.NoteOff()
	}
}

// MIDIVoice sends the played notes to a MIDI output. It is monophonic like
// the oscillator: NoteOff releases whichever note is sounding.
type MIDIVoice struct {
	send     func(gomidi.Message) error
	channel  uint8
	velocity uint8

	mu       sync.Mutex
	note     uint8
	sounding bool
}

// NewMIDIVoice wraps a gomidi sender; channel is zero-based
func NewMIDIVoice(send func(gomidi.Message) error, channel uint8) *MIDIVoice {
	return &MIDIVoice{
		send:     send,
		channel:  channel,
		velocity: 100,
	}
}

// OpenMIDIVoice opens the named output port
func OpenMIDIVoice(portName string, channel uint8) (*MIDIVoice, error) {
	send, err := midi.OpenOut(portName)
	if err != nil {
		return nil, err
	}
	return NewMIDIVoice(send, channel), nil
}

func (m *MIDIVoice) NoteOn(note uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sounding {
		m.sendLocked(gomidi.NoteOff(m.channel, m.note))
	}
	m.note = note
	m.sounding = true
	m.sendLocked(gomidi.NoteOn(m.channel, note, m.velocity))
}

func (m *MIDIVoice) NoteOff() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sounding {
		return
	}
	m.sounding = false
	m.sendLocked(gomidi.NoteOff(m.channel, m.note))
}

func (m *MIDIVoice) sendLocked(msg gomidi.Message) {
	if err := m.send(msg); err != nil {
		debug.Error("midi-out", err, "send failed")
	}
}
