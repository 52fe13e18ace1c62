// Package bus merges the dashboard's producer channels into the single
// command stream consumed by the app loop.
package bus

import (
	"fmt"
	"sync"

	"github.com/cpebble/rustui/internal/command"
)

// Merge fans two command streams into one. Each input is drained by its own
// forwarder goroutine; a forwarder exits silently once its input is closed
// and drained. The returned channel is closed only after both inputs are
// exhausted, so no producer ever observes a closed output.
//
// Ordering: messages from the same input arrive in send order. Interleaving
// between inputs is unspecified.
func Merge(a, b <-chan command.Command) <-chan command.Command {
	out := make(chan command.Command)

	var wg sync.WaitGroup
	wg.Add(2)
	forward := func(in <-chan command.Command) {
		defer wg.Done()
		for cmd := range in {
			out <- cmd
		}
	}
	go forward(a)
	go forward(b)

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// MergeAll folds Merge over the inputs left to right, producing a single
// stream with the same ordering guarantees as Merge. The result closes once
// every input has closed.
//
// At least two inputs are required; fewer is a wiring bug, so MergeAll
// panics rather than limping along with a passthrough.
func MergeAll(inputs ...<-chan command.Command) <-chan command.Command {
	if len(inputs) < 2 {
		panic(fmt.Sprintf("bus: MergeAll requires at least 2 inputs, got %d", len(inputs)))
	}

	merged := Merge(inputs[0], inputs[1])
	for _, in := range inputs[2:] {
		merged = Merge(merged, in)
	}
	return merged
}
