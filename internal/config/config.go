// Package config loads the kite game settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the binaries look when no -config flag is given.
const DefaultPath = "kitefly.yaml"

// Config holds all game settings. Every field has a default, so an empty or
// missing file is valid.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Game   GameConfig   `yaml:"game"`
	Store  StoreConfig  `yaml:"store"`
	Sound  SoundConfig  `yaml:"sound"`
	Log    LogConfig    `yaml:"log"`
}

// WindowConfig configures the ebiten window.
type WindowConfig struct {
	Title string  `yaml:"title"`
	Scale float64 `yaml:"scale"` // window size as a multiple of the logical playfield
}

// GameConfig configures the arcade session.
type GameConfig struct {
	Seed     int64 `yaml:"seed"`     // 0 picks a time-based seed
	Duration int   `yaml:"duration"` // seconds
	Vertical bool  `yaml:"vertical"` // allow up/down movement
	FPS      int   `yaml:"fps"`      // terminal host frame rate
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // sqlite, memory
	Path    string `yaml:"path"`
}

// SoundConfig toggles generated sound effects.
type SoundConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
}

// LogConfig configures zap.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file"` // empty logs to stderr
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Title: "Kite Fly", Scale: 1},
		Game:   GameConfig{Duration: 60, FPS: 60},
		Store:  StoreConfig{Backend: "sqlite", Path: "kitefly.db"},
		Sound:  SoundConfig{Enabled: true, Volume: 0.4},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	d := Default()
	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}
	if c.Window.Scale <= 0 {
		c.Window.Scale = d.Window.Scale
	}
	if c.Game.Duration <= 0 {
		c.Game.Duration = d.Game.Duration
	}
	if c.Game.FPS <= 0 {
		c.Game.FPS = d.Game.FPS
	}
	if c.Store.Backend == "" {
		c.Store.Backend = d.Store.Backend
	}
	if c.Store.Path == "" {
		c.Store.Path = d.Store.Path
	}
	if c.Sound.Volume < 0 {
		c.Sound.Volume = 0
	}
	if c.Sound.Volume > 1 {
		c.Sound.Volume = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
