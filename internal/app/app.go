// Package app holds the dashboard state machine. A single goroutine owns
// all state: it polls the merged command stream with a tick-bounded wait,
// dispatches each command, and emits one render frame per iteration.
package app

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cpebble/rustui/internal/command"
	"github.com/cpebble/rustui/internal/keys"
	"github.com/cpebble/rustui/internal/log"
	"github.com/cpebble/rustui/internal/msglog"
)

// Fatal protocol violations. Either one means the pipeline around the app
// broke its contract; the caller should restore the terminal, surface the
// error and exit nonzero.
var (
	// ErrWorkerDied reports a WorkerDown that nobody requested.
	ErrWorkerDied = errors.New("audio worker went down without a shutdown request")

	// ErrStreamClosed reports the merged command stream closing while the
	// dashboard was still running.
	ErrStreamClosed = errors.New("command stream closed while the dashboard was running")
)

// Terminator is the outbound control path to the audio worker.
type Terminator interface {
	Terminate()
}

// Frame is the render model handed to the Renderer each tick. Slices are
// fresh copies; the renderer may keep them.
type Frame struct {
	Messages []string // visible message window, oldest first
	Sources  []int    // endpoint placeholder indices
	Counter  int
	Idle     bool
}

// Renderer presents frames. The app knows nothing else about presentation.
type Renderer interface {
	Render(Frame)
}

// Config holds the loop parameters.
type Config struct {
	// Tick bounds the wait for the next command; on timeout the loop
	// renders another frame without any state change.
	Tick time.Duration

	// MessageWindow is how many message lines each frame carries.
	MessageWindow int

	// InitialSources seeds the counter.
	InitialSources int
}

// App is the dashboard state machine. Run owns all state on its goroutine;
// the type is not safe for concurrent use.
type App struct {
	cfg      Config
	cmds     <-chan command.Command
	daemon   Terminator
	renderer Renderer
	keymap   keys.KeyMap

	counter   int
	idle      bool
	requested bool // a shutdown we asked for is in flight
	messages  *msglog.Log
}

// New builds an App consuming the merged stream cmds, sending control to
// daemon and rendering through renderer. Nonpositive config values fall
// back to the documented defaults.
func New(cfg Config, cmds <-chan command.Command, daemon Terminator, renderer Renderer) *App {
	if cfg.Tick <= 0 {
		cfg.Tick = 100 * time.Millisecond
	}
	if cfg.MessageWindow <= 0 {
		cfg.MessageWindow = 8
	}
	if cfg.InitialSources < 0 {
		cfg.InitialSources = 0
	}

	a := &App{
		cfg:      cfg,
		cmds:     cmds,
		daemon:   daemon,
		renderer: renderer,
		keymap:   keys.DefaultKeyMap(),
		counter:  cfg.InitialSources,
		messages: msglog.New(0),
	}
	a.messages.Append("app initialized")
	return a
}

// Messages returns every retained message line, oldest first. Meant for the
// post-run dump once the terminal is restored.
func (a *App) Messages() []string {
	return a.messages.All()
}

// Run consumes the merged stream until the worker confirms a requested
// shutdown. Each iteration waits up to one tick for a command, applies it,
// and renders a frame. Run returns nil only after a WorkerDown that this
// app asked for; any other end of the stream is fatal.
func (a *App) Run() error {
	log.Info(log.CatApp, "dashboard loop starting", "tick", a.cfg.Tick)
	a.renderer.Render(a.frame())

	for {
		select {
		case cmd, ok := <-a.cmds:
			if !ok {
				return ErrStreamClosed
			}
			done, err := a.dispatch(cmd)
			if err != nil {
				return err
			}
			if done {
				log.Info(log.CatApp, "dashboard loop exiting cleanly")
				return nil
			}
		case <-time.After(a.cfg.Tick):
			// Nothing arrived this tick; just render another frame.
		}
		a.renderer.Render(a.frame())
	}
}

// dispatch applies one command to the state. done reports that a requested
// shutdown completed.
func (a *App) dispatch(cmd command.Command) (done bool, err error) {
	switch c := cmd.(type) {
	case command.Terminate, command.WorkerUp:
		// Worker control traffic; informational on this side of the bus.
		log.Debug(log.CatApp, "ignoring control command", "command", c)
	case command.WorkerDown:
		if !a.requested {
			return false, ErrWorkerDied
		}
		a.messages.Append("audio daemon stopped cleanly")
		return true, nil
	case command.KeyPress:
		a.handleKey(c.Key)
	case command.Log:
		a.messages.Append(c.Text)
	}
	return false, nil
}

// handleKey applies the fixed dashboard key map. Unbound keys are ignored.
func (a *App) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		a.requestShutdown("shutting down")
	case key.Matches(msg, a.keymap.StopDaemon):
		a.requestShutdown("stopping audio daemon")
	case key.Matches(msg, a.keymap.ToggleIdle):
		a.idle = !a.idle
	case key.Matches(msg, a.keymap.Mark):
		a.messages.Append("mark set")
	case key.Matches(msg, a.keymap.Increment):
		a.counter++
	case key.Matches(msg, a.keymap.Decrement):
		if a.counter > 0 {
			a.counter--
		}
	default:
		log.Debug(log.CatApp, "unbound key", "key", msg.String())
	}
}

// requestShutdown asks the worker to stop once; repeats are no-ops. The
// loop keeps running until the worker's WorkerDown comes back.
func (a *App) requestShutdown(reason string) {
	if a.requested {
		return
	}
	a.requested = true
	a.messages.Append(reason)
	log.Info(log.CatApp, "shutdown requested", "reason", reason)
	a.daemon.Terminate()
}

// frame derives the render model for this instant.
func (a *App) frame() Frame {
	sources := make([]int, a.counter)
	for i := range sources {
		sources[i] = i
	}
	return Frame{
		Messages: a.messages.Window(a.cfg.MessageWindow),
		Sources:  sources,
		Counter:  a.counter,
		Idle:     a.idle,
	}
}
