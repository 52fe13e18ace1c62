// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the dashboard.
type KeyMap struct {
	// Counter
	Increment key.Binding
	Decrement key.Binding

	// Actions
	ToggleIdle key.Binding
	Mark       key.Binding
	StopDaemon key.Binding

	// General
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Increment: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "increment"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "decrement"),
		),
		ToggleIdle: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle idle"),
		),
		Mark: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark"),
		),
		StopDaemon: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "stop daemon"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
