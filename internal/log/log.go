// Package log provides structured logging for rustui.
// Entries go to a debug log file (stdout belongs to the TUI) and are also
// published on a broker so the dashboard can surface warnings in its
// message pane. File logging is enabled via --debug flag or RUSTUI_DEBUG env.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cpebble/rustui/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatApp    Category = "app"    // App loop dispatch and state changes
	CatWorker Category = "worker" // Worker lifecycle: spawn, handshake, shutdown
	CatRelay  Category = "relay"  // Input and diagnostics relays
	CatSim    Category = "sim"    // Simulated daemon events
	CatTUI    Category = "tui"    // Terminal driver
	CatConfig Category = "config" // Configuration loading
	CatTrace  Category = "trace"  // Trace provider setup
)

// Entry is a structured log record as published to subscribers.
// Message carries the formatted key=value fields but no timestamp or
// level prefix; subscribers add their own framing.
type Entry struct {
	Level    Level
	Category Category
	Message  string
}

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[Entry]
}

// The logger always exists so entries reach broker subscribers even when
// no log file is attached.
var defaultLogger = &Logger{
	enabled:  true,
	minLevel: LevelInfo,
	broker:   pubsub.NewBroker[Entry](),
}

// Init attaches a log file to the global logger via tea.LogToFile, which
// also redirects the stdlib logger away from the TUI's stdout. Lowers the
// minimum level to Debug. Returns a cleanup function closing the file.
func Init(path, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}

	defaultLogger.mu.Lock()
	defaultLogger.file = f
	defaultLogger.writer = f
	defaultLogger.minLevel = LevelDebug
	defaultLogger.mu.Unlock()

	return func() { _ = f.Close() }, nil
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	defaultLogger.mu.Lock()
	defaultLogger.enabled = enabled
	defaultLogger.mu.Unlock()
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	defaultLogger.mu.Lock()
	defaultLogger.minLevel = level
	defaultLogger.mu.Unlock()
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	defaultLogger.mu.Lock()

	if !defaultLogger.enabled || level < defaultLogger.minLevel {
		defaultLogger.mu.Unlock()
		return
	}

	// Append fields (key=value pairs)
	body := msg
	for i := 0; i+1 < len(fields); i += 2 {
		body += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	// Handle odd field count - append orphan key with no value
	if len(fields)%2 != 0 {
		body += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}

	// Format: 2025-12-06T10:45:00 [ERROR] [worker] message key=value
	if defaultLogger.writer != nil {
		timestamp := time.Now().Format("2006-01-02T15:04:05")
		line := fmt.Sprintf("%s [%s] [%s] %s\n", timestamp, level, cat, body)
		_, _ = defaultLogger.writer.Write([]byte(line))
	}

	defaultLogger.mu.Unlock()

	// Publish outside the lock; the broker is non-blocking.
	defaultLogger.broker.Publish(Entry{Level: level, Category: cat, Message: body})
}

// Subscribe returns a stream of log entries at or above the current minimum
// level. The subscription is cleaned up when ctx is cancelled.
func Subscribe(ctx context.Context) <-chan pubsub.Event[Entry] {
	return defaultLogger.broker.Subscribe(ctx)
}
