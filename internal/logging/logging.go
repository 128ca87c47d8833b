// Package logging configures the structured logger shared by the CLI host
// and its collaborators. The core simulation package never logs; only the
// CLI host (cliapp) does.
package logging

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the concrete logger type used throughout the host.
type Logger = logiface.Logger[*stumpy.Event]

// New builds a Logger writing newline-delimited JSON to w. Pass nil for w to
// use os.Stderr, matching the library default.
func New(w io.Writer, level string) *Logger {
	opts := []stumpy.Option{}
	if w != nil {
		opts = append(opts, stumpy.WithWriter(w))
	}
	return stumpy.L.New(
		stumpy.L.WithStumpy(opts...),
		stumpy.L.WithLevel(parseLevel(level)),
	)
}

// Discard returns a logger that writes nowhere, for tests and library
// callers that don't want simulator diagnostics.
func Discard() *Logger {
	return stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(io.Discard)))
}

func parseLevel(level string) logiface.Level {
	switch level {
	case "trace":
		return logiface.LevelTrace
	case "debug":
		return logiface.LevelDebug
	case "warning", "warn":
		return logiface.LevelWarning
	case "error", "err":
		return logiface.LevelError
	case "notice":
		return logiface.LevelNotice
	case "":
		return logiface.LevelInformational
	default:
		return logiface.LevelInformational
	}
}
