package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-emotive/internal/easing"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

type TransitionCfg struct {
	DurationMs int    `yaml:"duration_ms"`
	Easing     string `yaml:"easing"`
}

type SlotsCfg struct {
	Max         int     `yaml:"max"`
	DecayPerSec float64 `yaml:"decay_per_sec"`
}

type ParticlesCfg struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	MaxDeltaMs     int     `yaml:"max_delta_ms"`
	MaxAccumulated float64 `yaml:"max_accumulated"`
	Seed           int64   `yaml:"seed"` // 0 = time-seeded
}

type GesturesCfg struct {
	GroupIntervalMs int               `yaml:"group_interval_ms"`
	Chains          map[string]string `yaml:"chains"`
}

type RhythmCfg struct {
	BeatGesture string `yaml:"beat_gesture"`
}

type StorageCfg struct {
	AppName string `yaml:"app_name"` // empty = memory only
}

type Config struct {
	FPS          int    `yaml:"fps"`
	Addr         string `yaml:"addr"`
	LogLevel     string `yaml:"log_level"`
	CatalogPath  string `yaml:"catalog_path"` // empty = embedded default
	WatchCatalog bool   `yaml:"watch_catalog"`

	Transition TransitionCfg `yaml:"transition"`
	Slots      SlotsCfg      `yaml:"slots"`
	Particles  ParticlesCfg  `yaml:"particles"`
	Gestures   GesturesCfg   `yaml:"gestures"`
	Rhythm     RhythmCfg     `yaml:"rhythm,omitempty"`
	Storage    StorageCfg    `yaml:"storage,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		FPS:      60,
		Addr:     ":8080",
		LogLevel: "info",
		Transition: TransitionCfg{
			DurationMs: 1000,
			Easing:     "cubic-out",
		},
		Slots: SlotsCfg{Max: 4},
		Particles: ParticlesCfg{
			Width:          400,
			Height:         400,
			MaxDeltaMs:     50,
			MaxAccumulated: 3,
		},
		Gestures: GesturesCfg{
			GroupIntervalMs: 500,
			Chains: map[string]string{
				"greet":     "wave+glow",
				"celebrate": "bounce+sparkle>spin>settle",
				"think":     "tilt>hold>nod",
				"alarm":     "shake+flash>contract",
			},
		},
	}
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	switch {
	case c.FPS <= 0 || c.FPS > 240:
		return fmt.Errorf("%w: fps %d out of range 1..240", ErrInvalid, c.FPS)
	case c.Transition.DurationMs < 0:
		return fmt.Errorf("%w: transition.duration_ms is negative", ErrInvalid)
	case c.Slots.Max < 1:
		return fmt.Errorf("%w: slots.max must be at least 1", ErrInvalid)
	case c.Slots.DecayPerSec < 0:
		return fmt.Errorf("%w: slots.decay_per_sec is negative", ErrInvalid)
	case c.Particles.Width <= 0 || c.Particles.Height <= 0:
		return fmt.Errorf("%w: particles canvas must be positive", ErrInvalid)
	case c.Particles.MaxDeltaMs < 0 || c.Particles.MaxAccumulated < 0:
		return fmt.Errorf("%w: particles limits are negative", ErrInvalid)
	case c.Gestures.GroupIntervalMs < 0:
		return fmt.Errorf("%w: gestures.group_interval_ms is negative", ErrInvalid)
	}
	if _, ok := easing.Get(c.Transition.Easing); !ok {
		return fmt.Errorf("%w: unknown easing %q", ErrInvalid, c.Transition.Easing)
	}
	return nil
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
