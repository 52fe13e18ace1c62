package relay

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/cpebble/rustui/internal/command"
	"github.com/cpebble/rustui/internal/log"
	"github.com/cpebble/rustui/internal/pubsub"
)

// scriptedSource replays a fixed event sequence, then reports exhaustion.
type scriptedSource struct {
	events []tea.Msg
	next   int
}

func (s *scriptedSource) ReadEvent() (tea.Msg, error) {
	if s.next >= len(s.events) {
		return nil, io.EOF
	}
	ev := s.events[s.next]
	s.next++
	return ev, nil
}

func receive(t *testing.T, ch <-chan command.Command) (command.Command, bool) {
	t.Helper()
	select {
	case cmd, ok := <-ch:
		return cmd, ok
	case <-time.After(time.Second):
		t.Fatal("timeout waiting on relay channel")
		return nil, false
	}
}

func TestKeys_ForwardsOnlyKeyPresses(t *testing.T) {
	src := &scriptedSource{events: []tea.Msg{
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}},
		tea.MouseMsg{X: 3, Y: 7},
		tea.WindowSizeMsg{Width: 80, Height: 24},
		tea.KeyMsg{Type: tea.KeyLeft},
	}}

	out := Keys(src)

	first, ok := receive(t, out)
	require.True(t, ok)
	require.Equal(t, command.Command(command.KeyPress{Key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}}), first)

	second, ok := receive(t, out)
	require.True(t, ok)
	require.Equal(t, command.Command(command.KeyPress{Key: tea.KeyMsg{Type: tea.KeyLeft}}), second)

	_, ok = receive(t, out)
	require.False(t, ok, "relay should close once the source is exhausted")
}

func TestKeys_ClosesOnSourceError(t *testing.T) {
	out := Keys(&scriptedSource{})
	_, ok := receive(t, out)
	require.False(t, ok)
}

func TestLogs_FiltersBelowWarn(t *testing.T) {
	sub := make(chan pubsub.Event[log.Entry], 8)
	sub <- pubsub.Event[log.Entry]{Payload: log.Entry{Level: log.LevelDebug, Message: "noise"}}
	sub <- pubsub.Event[log.Entry]{Payload: log.Entry{Level: log.LevelInfo, Message: "chatter"}}
	sub <- pubsub.Event[log.Entry]{Payload: log.Entry{Level: log.LevelWarn, Message: "daemon slow"}}
	sub <- pubsub.Event[log.Entry]{Payload: log.Entry{Level: log.LevelError, Message: "daemon gone"}}
	close(sub)

	out := Logs(context.Background(), sub)

	first, ok := receive(t, out)
	require.True(t, ok)
	require.Equal(t, command.Command(command.Log{Text: "daemon slow"}), first)

	second, ok := receive(t, out)
	require.True(t, ok)
	require.Equal(t, command.Command(command.Log{Text: "daemon gone"}), second)

	_, ok = receive(t, out)
	require.False(t, ok, "relay should close with its subscription")
}

func TestLogs_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := make(chan pubsub.Event[log.Entry])

	out := Logs(ctx, sub)
	cancel()

	_, ok := receive(t, out)
	require.False(t, ok, "relay should close when the context is cancelled")
}
