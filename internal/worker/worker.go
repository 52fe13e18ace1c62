// Package worker owns the connection to the audio daemon. It runs the
// daemon's event loop on a dedicated goroutine and mediates the startup and
// shutdown handshakes over the worker mailbox.
package worker

import (
	"fmt"
	"sync"

	"github.com/cpebble/rustui/internal/command"
	"github.com/cpebble/rustui/internal/log"
)

// mailboxSize leaves headroom for the handshake plus a failure diagnostic
// so the worker goroutine never blocks while tearing down.
const mailboxSize = 16

// EventLoop is the surface the coordinator needs from a daemon connection:
// a blocking main loop, a stop request, and a control stream attachment.
type EventLoop interface {
	// Run executes the daemon's event loop, blocking until a stop is
	// requested or the connection fails.
	Run() error

	// Stop requests that Run return. Idempotent and safe to call from the
	// control observer.
	Stop()

	// Attach registers the inbound control stream. While Run is active,
	// commands arriving on ctrl are observed by fn on the loop goroutine.
	Attach(ctrl <-chan command.Command, fn func(command.Command))
}

// Dialer connects to the audio daemon. It is invoked on the worker
// goroutine, so a slow daemon blocks nothing but Spawn itself.
type Dialer func() (EventLoop, error)

// StartupError reports a failed worker handshake. The dashboard can present
// it and keep the terminal usable; nothing is left running behind it.
type StartupError struct {
	Reason string
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("audio worker startup: %s", e.Reason)
}

// Worker is a handle to a running daemon worker. Obtain one from Spawn.
type Worker struct {
	ctrl chan<- command.Command
	mail <-chan command.Command
}

// Mailbox returns the worker's outbound message stream. After the startup
// handshake it carries at most a failure diagnostic followed by a single
// WorkerDown, which is always the final message before the stream closes.
func (w *Worker) Mailbox() <-chan command.Command {
	return w.mail
}

// Terminate asks the worker's event loop to stop. Non-blocking and safe to
// call any number of times; only the first delivered request has an effect.
func (w *Worker) Terminate() {
	select {
	case w.ctrl <- command.Terminate{}:
	default:
		// A request is already pending or the loop is gone.
	}
}

// Spawn dials the daemon on a new goroutine and blocks until the worker
// reports in. The first mailbox message decides the outcome:
//
//   - WorkerUp: the connection is live and a usable Worker is returned;
//   - anything else, or a closed mailbox: startup failed and the returned
//     *StartupError carries the diagnostic.
//
// On failure the worker goroutine has already returned; it is never left
// blocked inside an event loop nobody wanted.
func Spawn(dial Dialer) (*Worker, error) {
	mail := make(chan command.Command, mailboxSize)
	ctrl := make(chan command.Command, 1)

	go run(dial, ctrl, mail)

	first, ok := <-mail
	if !ok {
		return nil, &StartupError{Reason: "mailbox closed before the worker reported in"}
	}
	switch msg := first.(type) {
	case command.WorkerUp:
		log.Info(log.CatWorker, "audio worker up")
		return &Worker{ctrl: ctrl, mail: mail}, nil
	case command.Log:
		return nil, &StartupError{Reason: msg.Text}
	default:
		return nil, &StartupError{Reason: fmt.Sprintf("unexpected first message: %v", first)}
	}
}

func run(dial Dialer, ctrl <-chan command.Command, mail chan<- command.Command) {
	defer close(mail)

	log.Debug(log.CatWorker, "dialing audio daemon")
	loop, err := dial()
	if err != nil {
		mail <- command.Log{Text: fmt.Sprintf("connecting to audio daemon: %v", err)}
		return
	}

	// Exactly one WorkerDown per worker lifetime, whether the stop was
	// requested or the loop died on its own.
	var down sync.Once

	loop.Attach(ctrl, func(cmd command.Command) {
		if _, ok := cmd.(command.Terminate); !ok {
			log.Debug(log.CatWorker, "ignoring control command", "command", cmd)
			return
		}
		down.Do(func() {
			loop.Stop()
			mail <- command.WorkerDown{}
		})
	})

	mail <- command.WorkerUp{}
	err = loop.Run()
	if err != nil {
		log.ErrorErr(log.CatWorker, "audio event loop failed", err)
	}

	down.Do(func() {
		// The loop returned without a requested stop: the daemon went away
		// on its own. Surface the reason ahead of the final WorkerDown.
		if err != nil {
			mail <- command.Log{Text: fmt.Sprintf("audio loop failed: %v", err)}
		}
		mail <- command.WorkerDown{}
	})
}
