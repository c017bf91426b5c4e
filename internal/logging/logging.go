// Package logging builds the charmbracelet/log logger shared by the CLI and
// the storage backends.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix is prepended to every log line.
const Prefix = "anto"

// New creates a text logger writing to w at the named level.
// Unknown level names fall back to warn. debug forces debug level.
func New(w io.Writer, level string, debug bool) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	if debug {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		Prefix:          Prefix,
	})
}

// Discard returns a logger that writes nothing.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
