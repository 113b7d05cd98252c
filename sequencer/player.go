package sequencer

import (
	"context"
	"sync"
	"time"

	"seqgrid/debug"
)

// Voice is the single sound source the player drives. NoteOff silences
// whatever is sounding.
type Voice interface {
	NoteOn(note uint8)
	NoteOff()
}

// Timing holds the fixed step period and how long each note sounds
type Timing struct {
	Step time.Duration
	Gate time.Duration
}

// DefaultTiming is the only timing the UI uses: a note every 150ms, audible
// for 100ms
var DefaultTiming = Timing{
	Step: 150 * time.Millisecond,
	Gate: 100 * time.Millisecond,
}

// EventKind identifies a playback event
type EventKind int

const (
	EventStep EventKind = iota // a note was triggered
	EventDone                  // the sequence reached its end
)

// Event is emitted by the player goroutine
type Event struct {
	Gen      uint64 // run that produced the event
	Kind     EventKind
	Index    int // step index for EventStep
	Total    int // number of steps in the run
	Step     Step
	Progress float64 // (Index+1)/Total for EventStep, 0 for EventDone
}

// Player runs one sequence at a time. Starting a new one cancels the old one
// first, so sequences never overlap on the shared voice.
type Player struct {
	voice  Voice
	timing Timing
	events chan Event

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPlayer creates a player driving voice
func NewPlayer(voice Voice, timing Timing) *Player {
	return &Player{
		voice:  voice,
		timing: timing,
		events: make(chan Event, 64),
	}
}

// Events returns the channel playback events are delivered on
func (p *Player) Events() <-chan Event {
	return p.events
}

// Gen returns the generation of the most recent Play or Stop. Events with an
// older generation belong to a cancelled run.
func (p *Player) Gen() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// Play cancels any running sequence, waits for it to wind down, then starts
// steps in a new goroutine. It returns the new run's generation. An empty
// sequence only cancels.
func (p *Player) Play(ctx context.Context, steps []Step) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.gen++
	if len(steps) == 0 {
		return p.gen
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	seq := make([]Step, len(steps))
	copy(seq, steps)

	debug.Log("player", "play gen=%d steps=%d", p.gen, len(seq))
	go p.run(runCtx, p.gen, seq, done)
	return p.gen
}

// Stop cancels the running sequence, if any, and waits for it to exit
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.gen++
	}
	p.stopLocked()
}

// Playing reports whether a run goroutine is still alive
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Player) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

func (p *Player) run(ctx context.Context, gen uint64, steps []Step, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.timing.Step)
	defer ticker.Stop()

	gate := time.NewTimer(time.Hour)
	gate.Stop()
	defer gate.Stop()

	sounding := false
	defer func() {
		if sounding {
			p.voice.NoteOff()
		}
	}()

	index := 0
	for {
		select {
		case <-ctx.Done():
			debug.Log("player", "cancel gen=%d at %d/%d", gen, index, len(steps))
			return

		case <-ticker.C:
			if index >= len(steps) {
				continue
			}
			st := steps[index]
			if sounding {
				p.voice.NoteOff()
			}
			p.voice.NoteOn(st.Note)
			sounding = true
			gate.Reset(p.timing.Gate)
			index++

			ok := p.emit(ctx, Event{
				Gen:      gen,
				Kind:     EventStep,
				Index:    index - 1,
				Total:    len(steps),
				Step:     st,
				Progress: float64(index) / float64(len(steps)),
			})
			if !ok {
				return
			}

			if index == len(steps) {
				ticker.Stop()
				if !p.emit(ctx, Event{Gen: gen, Kind: EventDone, Total: len(steps)}) {
					return
				}
			}

		case <-gate.C:
			p.voice.NoteOff()
			sounding = false
			if index >= len(steps) {
				debug.Log("player", "done gen=%d", gen)
				return
			}
		}
	}
}

func (p *Player) emit(ctx context.Context, ev Event) bool {
	select {
	case p.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
