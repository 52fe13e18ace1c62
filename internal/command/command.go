// Package command defines the closed set of messages exchanged between the
// dashboard loop, the input relay, and the audio daemon worker.
package command

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Command is a message carried on the dashboard's command bus.
// The set of implementations is closed; consumers dispatch with an
// exhaustive type switch.
type Command interface {
	isCommand()
}

// Terminate instructs the audio worker's event loop to stop.
type Terminate struct{}

// WorkerUp signals that the worker's daemon connection is live. It is the
// first message a healthy worker sends.
type WorkerUp struct{}

// WorkerDown signals that the worker's event loop has stopped. It is always
// the last message a worker sends.
type WorkerDown struct{}

// KeyPress carries a single terminal key press.
type KeyPress struct {
	Key tea.KeyMsg
}

// Log carries a free-form diagnostic line for the message pane.
type Log struct {
	Text string
}

func (Terminate) isCommand()  {}
func (WorkerUp) isCommand()   {}
func (WorkerDown) isCommand() {}
func (KeyPress) isCommand()   {}
func (Log) isCommand()        {}

func (Terminate) String() string  { return "terminate" }
func (WorkerUp) String() string   { return "worker up" }
func (WorkerDown) String() string { return "worker down" }
func (k KeyPress) String() string { return "key press: " + k.Key.String() }
func (l Log) String() string      { return "log: " + l.Text }
