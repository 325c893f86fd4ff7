package app

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joeycumines/logiface"

	"oplhost/hal"
)

// Config is the emulator configuration, usually read from a TOML file and
// then overridden by flags.
type Config struct {
	Program  ProgramConfig  `toml:"program"`
	Window   WindowConfig   `toml:"window"`
	Audio    AudioConfig    `toml:"audio"`
	Log      LogConfig      `toml:"log"`
	Headless HeadlessConfig `toml:"headless"`
	Journal  JournalConfig  `toml:"journal"`

	// Logger is built from Log by the binary.
	Logger *logiface.Logger[logiface.Event] `toml:"-"`
}

// ProgramConfig selects and tunes the guest.
type ProgramConfig struct {
	Name string `toml:"name"`
	// TickMillis is the demo guest's timer period.
	TickMillis int `toml:"tick-millis"`
}

type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type AudioConfig struct {
	SampleRate uint32 `toml:"sample-rate"`
	Mute       bool   `toml:"mute"`
}

type LogConfig struct {
	Level string `toml:"level"`
	// File receives the log; empty means stderr.
	File string `toml:"file"`
}

type HeadlessConfig struct {
	Enabled bool   `toml:"enabled"`
	Hz      int    `toml:"hz"`
	Ticks   uint64 `toml:"ticks"`
}

// JournalConfig names event journal files. Record captures host input;
// Replay feeds a captured journal back in.
type JournalConfig struct {
	Record string `toml:"record"`
	Replay string `toml:"replay"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	hc := hal.DefaultConfig()
	return Config{
		Program:  ProgramConfig{Name: "echo", TickMillis: 1000},
		Window:   WindowConfig{Width: hc.Width, Height: hc.Height},
		Audio:    AudioConfig{SampleRate: hc.SampleRate},
		Log:      LogConfig{Level: "info"},
		Headless: HeadlessConfig{Hz: 60},
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Program.Name == "" {
		c.Program.Name = d.Program.Name
	}
	if c.Program.TickMillis <= 0 {
		c.Program.TickMillis = d.Program.TickMillis
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window = d.Window
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = d.Audio.SampleRate
	}
	if c.Headless.Hz <= 0 {
		c.Headless.Hz = d.Headless.Hz
	}
}

// HAL returns the host configuration.
func (c Config) HAL() hal.Config {
	return hal.Config{
		Width:      c.Window.Width,
		Height:     c.Window.Height,
		SampleRate: c.Audio.SampleRate,
	}
}

// HeadlessHAL returns the headless runner configuration.
func (c Config) HeadlessHAL() hal.HeadlessConfig {
	return hal.HeadlessConfig{
		Enabled: c.Headless.Enabled,
		Hz:      c.Headless.Hz,
		Ticks:   c.Headless.Ticks,
	}
}
