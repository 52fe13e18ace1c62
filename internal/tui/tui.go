// Package tui drives the terminal. It owns the Bubble Tea program, feeds
// key events out to the input relay and paints the frames the app loop
// hands back. All dashboard state lives on the other side of the command
// bus; this package is presentation only.
package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cpebble/rustui/internal/app"
	"github.com/cpebble/rustui/internal/keys"
	"github.com/cpebble/rustui/internal/log"
)

// ErrClosed reports that the terminal program has exited and no more
// events will arrive.
var ErrClosed = errors.New("terminal driver closed")

const eventBufferSize = 32

// Driver hosts the Bubble Tea program on its own goroutine.
type Driver struct {
	prog   *tea.Program
	events chan tea.Msg
	done   chan struct{}
}

// New builds a driver with the default key map. The program does not touch
// the terminal until Start.
func New() *Driver {
	events := make(chan tea.Msg, eventBufferSize)
	return &Driver{
		prog:   tea.NewProgram(newModel(keys.DefaultKeyMap(), events), tea.WithAltScreen()),
		events: events,
		done:   make(chan struct{}),
	}
}

// Start launches the program and returns immediately. The event channel
// closes when the program exits, which ends the input relay with it.
func (d *Driver) Start() {
	go func() {
		defer close(d.done)
		defer close(d.events)
		if _, err := d.prog.Run(); err != nil {
			log.ErrorErr(log.CatTUI, "terminal program failed", err)
		}
	}()
}

// Stop tears the program down and blocks until the terminal is restored.
func (d *Driver) Stop() {
	d.prog.Quit()
	select {
	case <-d.done:
	case <-time.After(2 * time.Second):
		d.prog.Kill()
		<-d.done
	}
}

// ReadEvent blocks until the next terminal event. It returns ErrClosed once
// the program has exited.
func (d *Driver) ReadEvent() (tea.Msg, error) {
	msg, ok := <-d.events
	if !ok {
		return nil, ErrClosed
	}
	return msg, nil
}

// Render hands a frame to the program. Sending to a finished program is a
// no-op, so the app loop can keep rendering during shutdown.
func (d *Driver) Render(f app.Frame) {
	d.prog.Send(frameMsg{frame: f})
}
