package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Assignments(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{name: "Increment", binding: km.Increment, expected: []string{"right", "l"}},
		{name: "Decrement", binding: km.Decrement, expected: []string{"left", "h"}},
		{name: "ToggleIdle", binding: km.ToggleIdle, expected: []string{"i"}},
		{name: "Mark", binding: km.Mark, expected: []string{"m"}},
		{name: "StopDaemon", binding: km.StopDaemon, expected: []string{"z"}},
		{name: "Quit", binding: km.Quit, expected: []string{"q", "ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestDefaultKeyMap_HelpText(t *testing.T) {
	km := DefaultKeyMap()

	for name, binding := range map[string]key.Binding{
		"Increment":  km.Increment,
		"Decrement":  km.Decrement,
		"ToggleIdle": km.ToggleIdle,
		"Mark":       km.Mark,
		"StopDaemon": km.StopDaemon,
		"Quit":       km.Quit,
	} {
		help := binding.Help()
		require.NotEmpty(t, help.Key, "%s key help should not be empty", name)
		require.NotEmpty(t, help.Desc, "%s description should not be empty", name)
	}
}
