// Package logging assembles the zerolog logger used across the daemon:
// a console writer when stderr is a terminal, JSON otherwise, with an
// optional append-mode file sink fanned out alongside.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	// Level is one of zerolog's level strings ("debug", "info", ...).
	// Empty or unknown falls back to info.
	Level string
	// File, when set, receives every event as JSON in append mode.
	File string
}

// New builds the root logger. The returned closer releases the file sink
// (a no-op when no file was configured).
func New(opts Options) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var sinks []io.Writer
	if useConsole(os.Stderr) {
		sinks = append(sinks, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.TimeOnly,
		})
	} else {
		sinks = append(sinks, os.Stderr)
	}

	closer := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		sinks = append(sinks, f)
		closer = f.Close
	}

	log := zerolog.New(zerolog.MultiLevelWriter(sinks...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return log, closer, nil
}

// useConsole reports whether human-readable console output is appropriate.
// NO_COLOR and TERM=dumb force plain JSON even on a TTY.
func useConsole(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || strings.ToLower(os.Getenv("TERM")) == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
