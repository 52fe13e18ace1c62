package worker

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cpebble/rustui/internal/command"
)

// fakeLoop is a scriptable EventLoop. Run dispatches control commands to the
// registered observer the way a real daemon loop would, and returns runErr
// when stopped. With exitEarly set, Run returns immediately, simulating a
// daemon that dies on its own.
type fakeLoop struct {
	ctrl      <-chan command.Command
	observe   func(command.Command)
	runErr    error
	exitEarly bool
	stop      chan struct{}
	stopOnce  sync.Once
}

func newFakeLoop() *fakeLoop {
	return &fakeLoop{stop: make(chan struct{})}
}

func (f *fakeLoop) Run() error {
	if f.exitEarly {
		return f.runErr
	}
	for {
		select {
		case cmd := <-f.ctrl:
			if f.observe != nil {
				f.observe(cmd)
			}
		case <-f.stop:
			return f.runErr
		}
	}
}

func (f *fakeLoop) Stop() {
	f.stopOnce.Do(func() { close(f.stop) })
}

func (f *fakeLoop) Attach(ctrl <-chan command.Command, fn func(command.Command)) {
	f.ctrl = ctrl
	f.observe = fn
}

// drain collects every remaining mailbox message until it closes.
func drain(t *testing.T, mail <-chan command.Command) []command.Command {
	t.Helper()
	var got []command.Command
	for {
		select {
		case cmd, ok := <-mail:
			if !ok {
				return got
			}
			got = append(got, cmd)
		case <-time.After(time.Second):
			t.Fatalf("timeout draining mailbox, got %v so far", got)
		}
	}
}

func TestSpawn_Success(t *testing.T) {
	w, err := Spawn(func() (EventLoop, error) { return newFakeLoop(), nil })
	require.NoError(t, err)
	require.NotNil(t, w)

	w.Terminate()

	got := drain(t, w.Mailbox())
	require.Equal(t, []command.Command{command.WorkerDown{}}, got)
}

func TestSpawn_DialError(t *testing.T) {
	w, err := Spawn(func() (EventLoop, error) {
		return nil, errors.New("connect failed")
	})
	require.Nil(t, w)

	var startupErr *StartupError
	require.ErrorAs(t, err, &startupErr)
	require.Contains(t, startupErr.Reason, "connect failed")
	require.Contains(t, err.Error(), "audio worker startup")
}

func TestTerminate_ExactlyOneWorkerDown(t *testing.T) {
	w, err := Spawn(func() (EventLoop, error) { return newFakeLoop(), nil })
	require.NoError(t, err)

	// Repeated termination requests must not produce extra WorkerDowns.
	w.Terminate()
	w.Terminate()
	w.Terminate()

	got := drain(t, w.Mailbox())
	downs := 0
	for _, cmd := range got {
		if _, ok := cmd.(command.WorkerDown); ok {
			downs++
		}
	}
	require.Equal(t, 1, downs, "expected exactly one WorkerDown, mailbox carried %v", got)

	// The worker is gone; further requests are harmless no-ops.
	require.NotPanics(t, func() { w.Terminate() })
}

func TestWorkerDown_IsFinalMessage(t *testing.T) {
	w, err := Spawn(func() (EventLoop, error) { return newFakeLoop(), nil })
	require.NoError(t, err)

	w.Terminate()

	got := drain(t, w.Mailbox())
	require.NotEmpty(t, got)
	require.IsType(t, command.WorkerDown{}, got[len(got)-1])
}

func TestLoopDiesUnrequested_SurfacesFailureThenDown(t *testing.T) {
	loop := newFakeLoop()
	loop.exitEarly = true
	loop.runErr = fmt.Errorf("daemon socket closed")

	w, err := Spawn(func() (EventLoop, error) { return loop, nil })
	require.NoError(t, err, "handshake completes before the loop dies")

	got := drain(t, w.Mailbox())
	require.Len(t, got, 2)

	diag, ok := got[0].(command.Log)
	require.True(t, ok, "failure diagnostic should precede WorkerDown, got %v", got)
	require.Contains(t, diag.Text, "daemon socket closed")
	require.Equal(t, command.Command(command.WorkerDown{}), got[1])
}

func TestLoopExitsCleanButUnrequested_StillSendsDown(t *testing.T) {
	loop := newFakeLoop()
	loop.exitEarly = true

	w, err := Spawn(func() (EventLoop, error) { return loop, nil })
	require.NoError(t, err)

	got := drain(t, w.Mailbox())
	require.Equal(t, []command.Command{command.WorkerDown{}}, got)
}

func TestStartupError_Message(t *testing.T) {
	err := &StartupError{Reason: "no daemon at socket"}
	require.Equal(t, "audio worker startup: no daemon at socket", err.Error())
}
