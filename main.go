package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"seqgrid/audio"
	"seqgrid/config"
	"seqgrid/debug"
	"seqgrid/midi"
	"seqgrid/sequencer"
	"seqgrid/theme"
	"seqgrid/tui"
)

func main() {
	var (
		debugFlag  = flag.Bool("debug", false, "write a debug log to ~/.config/seqgrid/debug.log")
		configPath = flag.String("config", "", "config file (default ~/.config/seqgrid/config.json)")
		noAudio    = flag.Bool("no-audio", false, "do not open the audio device")
		midiOut    = flag.String("midi-out", "", "also send notes to this MIDI output port")
		saveConfig = flag.Bool("save-config", false, "write the effective config back and exit")
	)
	flag.Parse()

	// Load config
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the file
	if *debugFlag {
		cfg.Debug = true
	}
	if *noAudio {
		cfg.Audio.Enabled = false
	}
	if *midiOut != "" {
		cfg.MIDIOutput.PortName = *midiOut
	}

	if *saveConfig {
		if *configPath != "" {
			err = cfg.SaveTo(*configPath)
		} else {
			err = cfg.Save()
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("Warning: debug log unavailable: %v\n", err)
		}
		defer debug.Disable()
	}

	// Load theme
	th := theme.Default()
	if cfg.UI.Palette != "" {
		palette, err := theme.LoadGPL(cfg.UI.Palette)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		th = theme.New(palette)
	}

	settings := audio.Settings{
		SampleRate: cfg.Audio.SampleRate,
		Buffer:     time.Duration(cfg.Audio.BufferMs) * time.Millisecond,
		Level:      cfg.Audio.Level,
	}

	// Voices: the built-in oscillator and/or a MIDI port
	var voices audio.Voices
	var spk *audio.Speaker
	if cfg.Audio.Enabled {
		spk = audio.NewSpeaker(settings)
		voices = append(voices, spk)
	}
	if cfg.MIDIOutput.PortName != "" {
		mv, err := audio.OpenMIDIVoice(cfg.MIDIOutput.PortName, cfg.MIDIChannel())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		voices = append(voices, mv)
	}

	player := sequencer.NewPlayer(voices, sequencer.DefaultTiming)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create MIDI device manager (handles hot-plug)
	var deviceMgr *midi.DeviceManager
	if cfg.Launchpad.AutoConnect {
		deviceMgr = midi.NewDeviceManager()
		go deviceMgr.Run(ctx)
	}

	exportDir := cfg.UI.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	m := tui.NewModel(player, deviceMgr, th, tui.ExportConfig{
		Dir:      exportDir,
		Settings: settings,
		Timing:   sequencer.DefaultTiming,
	})
	if spk != nil {
		m.AudioErr = spk.Err
	}

	debug.Log("main", "start audio=%t midi-out=%q launchpad=%t", cfg.Audio.Enabled, cfg.MIDIOutput.PortName, cfg.Launchpad.AutoConnect)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	player.Stop()
}
