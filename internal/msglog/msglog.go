// Package msglog keeps the dashboard's bounded message history.
package msglog

// DefaultMaxSize is the retained-line cap when none is configured.
const DefaultMaxSize = 256

// Log is an append-only line history with a hard cap: once full, the oldest
// line is dropped for each new one. It is owned by the app goroutine and is
// not safe for concurrent use.
type Log struct {
	lines   []string
	maxSize int
}

// New creates a message log capped at maxSize lines.
// Zero or negative maxSize uses DefaultMaxSize.
func New(maxSize int) *Log {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Log{maxSize: maxSize}
}

// Append adds a line, evicting the oldest line if the log is at capacity.
func (l *Log) Append(line string) {
	if len(l.lines) == l.maxSize {
		copy(l.lines, l.lines[1:])
		l.lines[len(l.lines)-1] = line
		return
	}
	l.lines = append(l.lines, line)
}

// Window returns the most recent n lines, oldest first. If fewer than n
// lines are retained, all of them are returned. The slice is a copy.
func (l *Log) Window(n int) []string {
	if n <= 0 {
		return nil
	}
	start := len(l.lines) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, len(l.lines)-start)
	copy(out, l.lines[start:])
	return out
}

// All returns every retained line, oldest first. The slice is a copy.
func (l *Log) All() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of retained lines.
func (l *Log) Len() int {
	return len(l.lines)
}
