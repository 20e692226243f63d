// Package logging provides the structured logger used throughout qodem in
// place of fmt.Println/log.Printf. Every component logs through a *Logger
// obtained from New or a child created with Component, so log lines carry a
// consistent "component" field.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with the component-scoping convention used
// across qodem's packages.
type Logger struct {
	zerolog.Logger
}

// New builds the root logger, writing human-readable output to w when
// pretty is true (interactive use) or compact JSON otherwise (capture to a
// log file, per the --logfile CLI flag).
func New(w io.Writer, pretty bool, level zerolog.Level) *Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zerolog.SetGlobalLevel(level)
	l := zerolog.New(w).With().Timestamp().Logger()
	return &Logger{Logger: l}
}

// Discard returns a logger that drops all output, used in tests that don't
// care about log lines.
func Discard() *Logger {
	return &Logger{Logger: zerolog.New(io.Discard)}
}

// Component returns a child logger tagged with the given component name,
// e.g. logging.Component(root, "dispatcher").
func Component(l *Logger, name string) *Logger {
	child := l.With().Str("component", name).Logger()
	return &Logger{Logger: child}
}

// Default is a process-wide fallback logger for code paths (e.g. package
// init, CLI argument errors) that run before a session-scoped logger exists.
var Default = New(os.Stderr, true, zerolog.InfoLevel)
