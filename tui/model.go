package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Southclaws/fault/fmsg"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"seqgrid/audio"
	"seqgrid/debug"
	"seqgrid/midi"
	"seqgrid/sequencer"
	"seqgrid/theme"
)

// Screen layout. One grid square is cellW columns by cellH lines. Rows follow
// the square-based layout: grids start 1.5 squares down, the play button and
// bar sit 10 squares down, reset 11.5 squares down, and the whole block is 13
// squares tall.
const (
	cellW = 4
	cellH = 2

	headerHeight = 1 // lines above the grid block
	labelRow     = 2 // note names above the left grid
	playRow      = 10 * cellH
	resetRow     = 23 // 11.5 squares
	blockHeight  = 13 * cellH
	barX         = cellW
	barWidth     = 7 * cellW // bar spans seven squares
	buttonWidth  = cellW - 1
)

// Geometry is the layout the TUI draws with
var Geometry = sequencer.NewGeometry(cellW, cellH)

// ExportConfig says how and where WAV renders are written
type ExportConfig struct {
	Dir      string
	Settings audio.Settings
	Timing   sequencer.Timing
}

type Model struct {
	State     *sequencer.State
	Player    *sequencer.Player
	DeviceMgr *midi.DeviceManager // nil when controllers are disabled
	Theme     *theme.Theme
	Keys      KeyMap

	// AudioErr reports why sound output failed, if it did
	AudioErr func() error

	export     ExportConfig
	help       help.Model
	cursor     sequencer.Cell
	status     string
	statusErr  bool
	quitting   bool
	audioShown bool
	controller midi.Controller // current controller (may be nil)
	leds       *ledMirror
}

// PlaybackMsg carries one player event into the update loop
type PlaybackMsg sequencer.Event

type DeviceEventMsg midi.DeviceEvent

// PadMsg is a pad press from the controller with the given ID
type PadMsg struct {
	ID  string
	Pad midi.PadEvent
}

type exportMsg struct {
	path string
	err  error
}

func NewModel(player *sequencer.Player, deviceMgr *midi.DeviceManager, th *theme.Theme, export ExportConfig) Model {
	return Model{
		State:     sequencer.NewState(Geometry),
		Player:    player,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Keys:      DefaultKeyMap(),
		export:    export,
		help:      help.New(),
		leds:      newLEDMirror(),
	}
}

func ListenForPlayback(player *sequencer.Player) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-player.Events()
		if !ok {
			return nil
		}
		return PlaybackMsg(ev)
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func ListenForPads(c midi.Controller) tea.Cmd {
	return func() tea.Msg {
		pad, ok := <-c.PadEvents()
		if !ok {
			return nil
		}
		return PadMsg{ID: c.ID(), Pad: pad}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForPlayback(m.Player),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.handleClick(msg.X, msg.Y-headerHeight)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case PlaybackMsg:
		ev := sequencer.Event(msg)
		if ev.Gen != m.Player.Gen() {
			debug.Log("tui", "drop stale event gen=%d", ev.Gen)
			return m, ListenForPlayback(m.Player)
		}
		m.State.Apply(ev)
		m.checkAudio()
		if ev.Kind == sequencer.EventDone && !m.statusErr {
			m.setStatus(fmt.Sprintf("played %d notes", ev.Total))
		}
		m.syncLEDs()
		return m, ListenForPlayback(m.Player)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		var cmd tea.Cmd
		if event.Type == midi.DeviceConnected {
			m.controller = event.Controller
			m.leds.reset()
			m.syncLEDs()
			m.setStatus("controller " + event.ID + " connected")
			cmd = ListenForPads(event.Controller)
		} else if event.Type == midi.DeviceDisconnected {
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
				m.leds.reset()
				m.setStatus("controller " + event.ID + " disconnected")
			}
		}
		return m, tea.Batch(cmd, ListenForDevices(m.DeviceMgr))

	case PadMsg:
		if m.controller == nil || m.controller.ID() != msg.ID {
			return m, nil
		}
		m = m.handlePad(msg.Pad)
		return m, ListenForPads(m.controller)

	case exportMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("wrote " + msg.path)
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.quitting = true
		m.Player.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.Keys.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.Keys.Right):
		m.moveCursor(0, 1)

	case key.Matches(msg, m.Keys.Toggle):
		m.toggle(m.cursor.Row, m.cursor.Col)

	case key.Matches(msg, m.Keys.Play):
		m.play()

	case key.Matches(msg, m.Keys.Stop):
		m.stop()

	case key.Matches(msg, m.Keys.Reset):
		m.reset()

	case key.Matches(msg, m.Keys.Export):
		return m, m.exportCmd()

	case key.Matches(msg, m.Keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleClick takes a press at column x, line y of the grid block
func (m Model) handleClick(x, y int) (tea.Model, tea.Cmd) {
	switch {
	case y == playRow && x >= 0 && x < buttonWidth:
		m.play()
	case y == resetRow && x >= 0 && x < buttonWidth:
		m.reset()
	default:
		// sample the middle of the terminal cell
		cx, cy := float64(x)+0.5, float64(y)+0.5
		if row, col, ok := m.State.Geometry().HitLeft(cx, cy); ok {
			m.cursor = sequencer.Cell{Row: row, Col: col}
		}
		if m.State.Click(cx, cy) {
			m.syncLEDs()
		}
	}
	return m, nil
}

func (m Model) handlePad(pad midi.PadEvent) Model {
	if pad.Row == midi.TopRow {
		switch pad.Col {
		case 0:
			m.play()
		case 1:
			m.stop()
		case 2:
			m.reset()
		}
		return m
	}
	if row, col, ok := midi.GridCell(pad); ok {
		m.cursor = sequencer.Cell{Row: row, Col: col}
		m.toggle(row, col)
	}
	return m
}

func (m *Model) moveCursor(dRow, dCol int) {
	m.cursor.Row = clamp(m.cursor.Row+dRow, 0, sequencer.GridSize-1)
	m.cursor.Col = clamp(m.cursor.Col+dCol, 0, sequencer.GridSize-1)
}

func (m *Model) toggle(row, col int) {
	m.State.Toggle(row, col)
	m.syncLEDs()
}

func (m *Model) play() {
	steps := m.State.Pattern()
	m.State.Idle()
	gen := m.Player.Play(context.Background(), steps)
	if len(steps) == 0 {
		m.setStatus("nothing selected")
	} else {
		m.setStatus(fmt.Sprintf("playing %d notes", len(steps)))
	}
	debug.Log("tui", "play gen=%d", gen)
	m.syncLEDs()
}

func (m *Model) stop() {
	m.Player.Stop()
	m.State.Idle()
	m.setStatus("stopped")
	m.syncLEDs()
}

// reset clears the grid; a running sequence keeps the notes it started with
func (m *Model) reset() {
	m.State.Reset()
	m.setStatus("cleared")
	m.syncLEDs()
}

func (m Model) exportCmd() tea.Cmd {
	notes := m.State.Notes()
	cfg := m.export
	return func() tea.Msg {
		name := fmt.Sprintf("seqgrid-%s.wav", time.Now().Format("20060102-150405"))
		path := filepath.Join(cfg.Dir, name)
		err := audio.ExportWAV(path, notes, cfg.Timing, cfg.Settings)
		if err != nil {
			debug.Error("export", err, path)
		}
		return exportMsg{path: path, err: err}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	issue := fmsg.GetIssue(err)
	if issue == "" {
		issue = err.Error()
	}
	m.status = issue
	m.statusErr = true
}

// checkAudio shows the audio device error once; playback carries on silently
func (m *Model) checkAudio() {
	if m.AudioErr == nil || m.audioShown {
		return
	}
	if err := m.AudioErr(); err != nil {
		m.audioShown = true
		m.setError(err)
	}
}

func (m *Model) syncLEDs() {
	if m.controller == nil {
		return
	}
	updates := m.leds.diff(renderLEDs(m.State, m.Theme))
	if len(updates) == 0 {
		return
	}
	if err := m.controller.SetLEDBatch(updates); err != nil {
		debug.Error("led", err, "flush")
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
