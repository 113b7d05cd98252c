package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// AudioConfig controls the built-in oscillator
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sampleRate,omitempty"`
	BufferMs   int     `json:"bufferMs,omitempty"`
	Level      float64 `json:"level,omitempty"` // oscillator amplitude while a note sounds
}

// MIDIOutputConfig mirrors played notes to an external MIDI port
type MIDIOutputConfig struct {
	PortName string `json:"portName,omitempty"`
	Channel  int    `json:"channel,omitempty"` // 1-16
}

// LaunchpadConfig controls grid controller hot-plug
type LaunchpadConfig struct {
	AutoConnect bool `json:"autoConnect"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette   string `json:"palette,omitempty"`   // .gpl file, empty = built-in
	ExportDir string `json:"exportDir,omitempty"` // where WAV renders go
}

// Config is the main configuration structure
type Config struct {
	Audio      AudioConfig      `json:"audio"`
	MIDIOutput MIDIOutputConfig `json:"midiOutput,omitempty"`
	Launchpad  LaunchpadConfig  `json:"launchpad"`
	UI         UIConfig         `json:"ui,omitempty"`
	Debug      bool             `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			BufferMs:   100,
			Level:      0.5,
		},
		MIDIOutput: MIDIOutputConfig{
			Channel: 1,
		},
		Launchpad: LaunchpadConfig{
			AutoConnect: true,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "seqgrid"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file. Fields missing from the file keep their
// defaults; a missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("parse config", "config file "+path+" is not valid JSON"))
	}
	cfg.normalize()

	return cfg, nil
}

// Save writes the config to ~/.config/seqgrid/config.json
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to the given path
func (c *Config) SaveTo(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fault.Wrap(err, fmsg.With("create config dir"))
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("encode config"))
	}

	return fault.Wrap(os.WriteFile(path, data, 0644), fmsg.With("write config"))
}

// MIDIChannel returns the zero-based output channel
func (c *Config) MIDIChannel() uint8 {
	return uint8(c.MIDIOutput.Channel - 1)
}

// normalize clamps values a hand-edited file may get wrong
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = def.Audio.SampleRate
	}
	if c.Audio.BufferMs <= 0 {
		c.Audio.BufferMs = def.Audio.BufferMs
	}
	if c.Audio.Level <= 0 || c.Audio.Level > 1 {
		c.Audio.Level = def.Audio.Level
	}
	if c.MIDIOutput.Channel < 1 || c.MIDIOutput.Channel > 16 {
		c.MIDIOutput.Channel = def.MIDIOutput.Channel
	}
}
