// Package config loads the game settings. Values come from an embedded
// default, then a YAML file, then command line flags.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/dashrunner.yaml
var defaultYAML []byte

type Config struct {
	Window   Window `yaml:"window"`
	Audio    Audio  `yaml:"audio"`
	Level    string `yaml:"level"`
	Seed     uint64 `yaml:"seed"` // zero picks a random seed
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
	Watch    bool   `yaml:"watch"`
}

type Window struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
}

type Audio struct {
	SFXVolume   float64 `yaml:"sfx_volume"`
	MusicVolume float64 `yaml:"music_volume"`
	Muted       bool    `yaml:"muted"`
}

// Default returns the embedded defaults.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return fallback()
	}
	return cfg
}

func fallback() Config {
	return Config{
		Window:   Window{Width: 1280, Height: 720, Title: "dashrunner"},
		Audio:    Audio{SFXVolume: 1, MusicVolume: 1},
		Level:    "runner_01",
		DBPath:   "~/.dashrunner/runs.db",
		LogLevel: "info",
	}
}

// Load reads path over the defaults. An empty path tries
// ~/.dashrunner/config.yaml and then returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if user := userConfigPath(); user != "" {
			if _, err := os.Stat(user); err == nil {
				path = user
			}
		}
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Audio.SFXVolume < 0 || c.Audio.SFXVolume > 1 {
		errs = append(errs, fmt.Errorf("sfx_volume %v outside [0, 1]", c.Audio.SFXVolume))
	}
	if c.Audio.MusicVolume < 0 || c.Audio.MusicVolume > 1 {
		errs = append(errs, fmt.Errorf("music_volume %v outside [0, 1]", c.Audio.MusicVolume))
	}
	if strings.TrimSpace(c.Level) == "" {
		errs = append(errs, errors.New("level is required"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// LoggerLevel returns the parsed log level, defaulting to info.
func (c Config) LoggerLevel() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// SFXGain is the effective sound effect volume.
func (c Config) SFXGain() float64 {
	if c.Audio.Muted {
		return 0
	}
	return c.Audio.SFXVolume
}

// MusicGain is the effective music volume.
func (c Config) MusicGain() float64 {
	if c.Audio.Muted {
		return 0
	}
	return c.Audio.MusicVolume
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dashrunner", "config.yaml")
}
