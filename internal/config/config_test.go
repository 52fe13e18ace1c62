package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, 100*time.Millisecond, cfg.Tick)
	require.Equal(t, 8, cfg.MessageWindow)
	require.Equal(t, 1, cfg.InitialSources)
	require.Equal(t, 3, cfg.Daemon.Endpoints)
	require.Equal(t, 5*time.Second, cfg.Daemon.Churn)
	require.False(t, cfg.Debug)
	require.False(t, cfg.Tracing.Enabled, "tracing should be off by default")
}

func TestDefaults_Validate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errText string
	}{
		{
			name:    "zero tick",
			mutate:  func(c *Config) { c.Tick = 0 },
			errText: "tick must be positive",
		},
		{
			name:    "negative tick",
			mutate:  func(c *Config) { c.Tick = -time.Second },
			errText: "tick must be positive",
		},
		{
			name:    "zero message window",
			mutate:  func(c *Config) { c.MessageWindow = 0 },
			errText: "message window must be positive",
		},
		{
			name:    "negative initial sources",
			mutate:  func(c *Config) { c.InitialSources = -1 },
			errText: "initial sources must be non-negative",
		},
		{
			name:    "negative endpoints",
			mutate:  func(c *Config) { c.Daemon.Endpoints = -4 },
			errText: "daemon endpoints must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errText)
		})
	}
}
