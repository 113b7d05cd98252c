package sequencer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voiceEvent struct {
	on   bool
	note uint8
	at   time.Time
}

type recordingVoice struct {
	mu     sync.Mutex
	events []voiceEvent
}

func (v *recordingVoice) NoteOn(note uint8) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, voiceEvent{on: true, note: note, at: time.Now()})
}

func (v *recordingVoice) NoteOff() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, voiceEvent{at: time.Now()})
}

func (v *recordingVoice) snapshot() []voiceEvent {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]voiceEvent, len(v.events))
	copy(out, v.events)
	return out
}

var fastTiming = Timing{Step: 20 * time.Millisecond, Gate: 10 * time.Millisecond}

func collect(t *testing.T, p *Player, gen uint64) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-p.Events():
			if ev.Gen != gen {
				continue
			}
			out = append(out, ev)
			if ev.Kind == EventDone {
				return out
			}
		case <-timeout:
			t.Fatalf("no EventDone after %d events", len(out))
			return out
		}
	}
}

func waitIdle(t *testing.T, p *Player) {
	t.Helper()
	require.Eventually(t, func() bool { return !p.Playing() }, time.Second, time.Millisecond)
}

func TestDefaultTiming(t *testing.T) {
	assert.Equal(t, 150*time.Millisecond, DefaultTiming.Step)
	assert.Equal(t, 100*time.Millisecond, DefaultTiming.Gate)
}

func TestPlayTriggersNotesInOrder(t *testing.T) {
	s := NewState(NewGeometry(4, 2))
	s.Toggle(0, 0)
	s.Toggle(2, 3)
	s.Toggle(6, 7)

	voice := &recordingVoice{}
	p := NewPlayer(voice, fastTiming)

	start := time.Now()
	gen := p.Play(context.Background(), s.Pattern())
	events := collect(t, p, gen)
	waitIdle(t, p)

	// note on/off strictly alternate: the gate is shorter than the step
	got := voice.snapshot()
	require.Len(t, got, 6)
	notes := []uint8{60, 65, 72}
	for i, note := range notes {
		on, off := got[2*i], got[2*i+1]
		assert.True(t, on.on)
		assert.Equal(t, note, on.note)
		assert.False(t, off.on)

		// ticks never fire early, so the k-th note starts k+1 steps in
		assert.GreaterOrEqual(t, on.at.Sub(start), time.Duration(i+1)*fastTiming.Step)
		assert.GreaterOrEqual(t, off.at.Sub(on.at), fastTiming.Gate)
	}

	require.Len(t, events, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, EventStep, events[i].Kind)
		assert.Equal(t, i, events[i].Index)
		assert.Equal(t, notes[i], events[i].Step.Note)
	}
	assert.Equal(t, EventDone, events[3].Kind)
}

func TestDefaultTimingWindows(t *testing.T) {
	var steps []Step
	for _, col := range []int{0, 3, 7} {
		steps = append(steps, Step{Row: 0, Col: col, Note: Scale[col]})
	}

	voice := &recordingVoice{}
	p := NewPlayer(voice, DefaultTiming)
	gen := p.Play(context.Background(), steps)
	collect(t, p, gen)
	waitIdle(t, p)

	got := voice.snapshot()
	require.Len(t, got, 6)

	var ons []voiceEvent
	for i, ev := range got {
		if !ev.on {
			continue
		}
		ons = append(ons, ev)
		require.Less(t, i+1, len(got))
		off := got[i+1]
		assert.False(t, off.on)
		gate := off.at.Sub(ev.at)
		assert.True(t, gate >= 90*time.Millisecond && gate <= 120*time.Millisecond, "gate %v", gate)
	}

	require.Len(t, ons, 3)
	assert.Equal(t, []uint8{60, 65, 72}, []uint8{ons[0].note, ons[1].note, ons[2].note})
	for i := 1; i < len(ons); i++ {
		step := ons[i].at.Sub(ons[i-1].at)
		assert.True(t, step >= 140*time.Millisecond && step <= 170*time.Millisecond, "step %v", step)
	}
}

func TestProgressPeaksOnlyAtFinalStep(t *testing.T) {
	s := NewState(NewGeometry(4, 2))
	for col := 0; col < 5; col++ {
		s.Toggle(0, col)
	}

	p := NewPlayer(&recordingVoice{}, fastTiming)
	gen := p.Play(context.Background(), s.Pattern())

	for _, ev := range collect(t, p, gen) {
		s.Apply(ev)
		switch {
		case ev.Kind == EventDone:
			assert.Zero(t, s.Progress)
		case ev.Index == ev.Total-1:
			assert.Equal(t, 1.0, s.Progress)
		default:
			assert.Less(t, s.Progress, 1.0)
			assert.Greater(t, s.Progress, 0.0)
		}
	}
	assert.True(t, s.Points[len(s.Points)-1].Played)
	waitIdle(t, p)
}

func TestPlayEmptyPatternDoesNothing(t *testing.T) {
	voice := &recordingVoice{}
	p := NewPlayer(voice, fastTiming)

	p.Play(context.Background(), nil)
	assert.False(t, p.Playing())

	time.Sleep(3 * fastTiming.Step)
	assert.Empty(t, voice.snapshot())
	assert.Empty(t, p.Events())
}

func TestPlayAgainCancelsRunningSequence(t *testing.T) {
	voice := &recordingVoice{}
	p := NewPlayer(voice, Timing{Step: 20 * time.Millisecond, Gate: 15 * time.Millisecond})

	long := make([]Step, 50)
	for i := range long {
		long[i] = Step{Note: 40}
	}
	first := p.Play(context.Background(), long)

	// wait for the first note
	select {
	case ev := <-p.Events():
		require.Equal(t, first, ev.Gen)
	case <-time.After(time.Second):
		t.Fatal("first sequence never started")
	}

	second := p.Play(context.Background(), []Step{{Note: 80}, {Note: 81}})
	assert.Greater(t, second, first)

	collect(t, p, second)
	waitIdle(t, p)

	got := voice.snapshot()
	k := -1
	for i, ev := range got {
		if ev.on && ev.note >= 80 {
			k = i
			break
		}
	}
	require.Greater(t, k, 0)

	// the cancelled run never leaves its note hanging
	assert.False(t, got[k-1].on)
	for _, ev := range got[k:] {
		if ev.on {
			assert.GreaterOrEqual(t, ev.note, uint8(80), "note from the cancelled run leaked")
		}
	}
}

func TestStopSilencesAndBumpsGeneration(t *testing.T) {
	voice := &recordingVoice{}
	p := NewPlayer(voice, Timing{Step: 10 * time.Millisecond, Gate: 500 * time.Millisecond})

	gen := p.Play(context.Background(), []Step{{Note: 60}, {Note: 62}, {Note: 64}})
	select {
	case <-p.Events():
	case <-time.After(time.Second):
		t.Fatal("sequence never started")
	}

	p.Stop()
	assert.False(t, p.Playing())
	assert.Greater(t, p.Gen(), gen)

	got := voice.snapshot()
	require.NotEmpty(t, got)
	assert.False(t, got[len(got)-1].on)
}

func TestContextCancelStopsRun(t *testing.T) {
	voice := &recordingVoice{}
	p := NewPlayer(voice, fastTiming)

	ctx, cancel := context.WithCancel(context.Background())
	p.Play(ctx, []Step{{Note: 60}, {Note: 62}, {Note: 64}, {Note: 65}})
	cancel()

	waitIdle(t, p)
}
