// Package obslog provides structured logging for a forest's cycle
// detection and flounder events.
//
// Logger wraps log/slog with a persistent forest-identity field,
// adapted from aladin2907-overhuman's observability.Logger (which
// wraps slog with a persistent agent-name field); here the persistent
// field is a forest UUID (github.com/google/uuid) rather than an agent
// name, since a process may run more than one forest concurrently and
// their trace lines need to stay distinguishable.
package obslog

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog with a persistent forest-identity field. It
// satisfies engine.Logger's single-method Debugf surface directly.
type Logger struct {
	inner    *slog.Logger
	forestID string
}

// New creates a structured logger for a freshly minted forest identity.
// Output defaults to os.Stderr if w is nil.
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Logger{inner: slog.New(handler), forestID: uuid.New().String()}
}

// NewWithHandler creates a logger with a custom slog handler, useful for
// tests that want to assert on emitted records.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(h), forestID: uuid.New().String()}
}

// ForestID returns the UUID this logger's forest is identified by in
// every emitted record.
func (l *Logger) ForestID() string {
	return l.forestID
}

// Debugf implements engine.Logger: it formats msg/args and logs at DEBUG
// level tagged with the forest's identity.
func (l *Logger) Debugf(format string, args ...any) {
	l.inner.Debug(fmt.Sprintf(format, args...), slog.String("forest_id", l.forestID))
}
