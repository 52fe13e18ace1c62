// Package config provides configuration types and defaults for rustui.
package config

import (
	"fmt"
	"time"

	"github.com/cpebble/rustui/internal/tracing"
)

// Config holds all configuration options for rustui. Values come from flags
// and environment variables only; rustui reads no config files.
type Config struct {
	// Tick bounds how long the app loop waits for a command before
	// rendering another frame anyway.
	Tick time.Duration `mapstructure:"tick"`

	// MessageWindow is the number of message lines visible in the pane.
	MessageWindow int `mapstructure:"message_window"`

	// InitialSources seeds the source counter shown in the dashboard.
	InitialSources int `mapstructure:"initial_sources"`

	// Daemon configures the simulated audio daemon.
	Daemon DaemonConfig `mapstructure:"daemon"`

	// Debug enables file logging.
	Debug bool `mapstructure:"debug"`

	// LogFile is where debug logs go; stdout belongs to the TUI.
	LogFile string `mapstructure:"log_file"`

	// Tracing configures the OpenTelemetry provider.
	Tracing tracing.Config `mapstructure:"tracing"`
}

// DaemonConfig holds simulated daemon options.
type DaemonConfig struct {
	// Endpoints is the number of routing endpoints present at startup.
	Endpoints int `mapstructure:"endpoints"`

	// Churn is how often an endpoint is added or removed.
	Churn time.Duration `mapstructure:"churn"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Tick:           100 * time.Millisecond,
		MessageWindow:  8,
		InitialSources: 1,
		Daemon: DaemonConfig{
			Endpoints: 3,
			Churn:     5 * time.Second,
		},
		LogFile: "rustui.log",
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate rejects values the app loop cannot run with.
func (c Config) Validate() error {
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %s", c.Tick)
	}
	if c.MessageWindow <= 0 {
		return fmt.Errorf("message window must be positive, got %d", c.MessageWindow)
	}
	if c.InitialSources < 0 {
		return fmt.Errorf("initial sources must be non-negative, got %d", c.InitialSources)
	}
	if c.Daemon.Endpoints < 0 {
		return fmt.Errorf("daemon endpoints must be non-negative, got %d", c.Daemon.Endpoints)
	}
	return nil
}
