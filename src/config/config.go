// Package config loads the simulation settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// View names accepted by Config.View.
const (
	ViewConsole = "console"
	ViewTUI     = "tui"
	ViewWindow  = "window"
)

// Config holds the settings shared by every host. Command line flags use
// these values as their defaults.
type Config struct {
	Width    uint32        `env:"SIMLIFE_WIDTH" envDefault:"64"`
	Height   uint32        `env:"SIMLIFE_HEIGHT" envDefault:"64"`
	Interval time.Duration `env:"SIMLIFE_INTERVAL" envDefault:"100ms"`
	MaxSteps int           `env:"SIMLIFE_MAX_STEPS" envDefault:"1000"`
	Seed     uint64        `env:"SIMLIFE_SEED"`
	Template string        `env:"SIMLIFE_TEMPLATE"`
	Trace    bool          `env:"SIMLIFE_TRACE"`
	View     string        `env:"SIMLIFE_VIEW" envDefault:"console"`
	Scale    int           `env:"SIMLIFE_SCALE" envDefault:"8"` //window pixels per cell
}

// Load parses the environment.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// TPS converts Interval to simulation steps per second for frame driven
// hosts. A zero interval maps to 60.
func (c Config) TPS() int {
	if c.Interval <= 0 {
		return 60
	}
	tps := int(time.Second / c.Interval)
	if tps < 1 {
		tps = 1
	}
	return tps
}

// Validate rejects settings no host can run with.
func (c Config) Validate() error {
	switch c.View {
	case ViewConsole, ViewTUI, ViewWindow:
	default:
		return fmt.Errorf("unknown view %q", c.View)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max steps must not be negative, got %d", c.MaxSteps)
	}
	if c.Scale < 1 {
		return fmt.Errorf("scale must be positive, got %d", c.Scale)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %v", c.Interval)
	}
	return nil
}
