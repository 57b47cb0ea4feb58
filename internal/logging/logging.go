// Package logging builds the zerolog logger shared by the bot.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr. Unknown levels fall back to info.
func New(level string, pretty bool) zerolog.Logger {
	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}
	}
	return NewWithWriter(w, level)
}

// NewWithWriter returns a JSON logger writing to w.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Verbose starts a debug-level event.
func Verbose(l *zerolog.Logger) *zerolog.Event {
	return l.Debug()
}

// Emergency starts a fatal-level event that does not exit the process.
func Emergency(l *zerolog.Logger) *zerolog.Event {
	return l.WithLevel(zerolog.FatalLevel)
}
