package tui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/cpebble/rustui/internal/keys"
)

func TestDriver_ReadEvent(t *testing.T) {
	d := &Driver{events: make(chan tea.Msg, 1)}

	d.events <- tea.KeyMsg{Type: tea.KeyLeft}
	msg, err := d.ReadEvent()
	require.NoError(t, err)
	require.Equal(t, tea.KeyMsg{Type: tea.KeyLeft}, msg)

	close(d.events)
	_, err = d.ReadEvent()
	require.ErrorIs(t, err, ErrClosed)
}

// Drives the model through a real headless program: frames sent with Send
// show up in the output, key presses come back out on the event channel.
func TestModel_ThroughProgram(t *testing.T) {
	events := make(chan tea.Msg, eventBufferSize)
	tm := teatest.NewTestModel(
		t, newModel(keys.DefaultKeyMap(), events),
		teatest.WithInitialTermSize(80, 24),
	)
	t.Cleanup(func() {
		if err := tm.Quit(); err != nil {
			t.Fatal(err)
		}
	})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Pulse Outputs"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(frameMsg{frame: testFrame()})
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Hello 1"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	select {
	case msg := <-events:
		require.Equal(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, msg)
	case <-time.After(3 * time.Second):
		t.Fatal("key press did not reach the event channel")
	}
}
