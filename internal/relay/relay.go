// Package relay turns external event sources into command bus producers.
package relay

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cpebble/rustui/internal/command"
	"github.com/cpebble/rustui/internal/log"
	"github.com/cpebble/rustui/internal/pubsub"
)

// EventSource delivers terminal events. ReadEvent blocks until an event is
// available and returns an error once the source is exhausted.
type EventSource interface {
	ReadEvent() (tea.Msg, error)
}

// Keys forwards key presses from src onto a new producer channel. Only key
// events are forwarded; mouse, resize and paste events are dropped here so
// the app loop never sees them. When the source is exhausted the channel
// closes and the relay goroutine exits silently.
func Keys(src EventSource) <-chan command.Command {
	out := make(chan command.Command)
	go func() {
		defer close(out)
		for {
			ev, err := src.ReadEvent()
			if err != nil {
				log.Debug(log.CatRelay, "key relay exiting", "reason", err)
				return
			}
			if key, ok := ev.(tea.KeyMsg); ok {
				out <- command.KeyPress{Key: key}
			}
		}
	}()
	return out
}

// Logs republishes warning-and-above log entries as Log commands so they
// surface in the message pane. Lower levels stay out of the stream: the app
// loop's own debug logging must not echo back into it. The channel closes
// when ctx is cancelled or the subscription closes.
func Logs(ctx context.Context, sub <-chan pubsub.Event[log.Entry]) <-chan command.Command {
	out := make(chan command.Command)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-sub:
				if !ok {
					return
				}
				if event.Payload.Level < log.LevelWarn {
					continue
				}
				out <- command.Log{Text: event.Payload.Message}
			}
		}
	}()
	return out
}
