// internal/logging/logging.go
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Options selects the logger level. Verbose wins over Quiet, both win
// over Level.
type Options struct {
	Level   string // debug | info | warn | error
	Verbose bool
	Quiet   bool
	Prefix  string
}

// New returns a key/value logger writing to w. An unrecognised level falls
// back to info and is reported once at warn level.
func New(w io.Writer, o Options) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          o.Prefix,
		ReportTimestamp: true,
	})
	lvl, known := ParseLevel(o.Level)
	switch {
	case o.Verbose:
		lvl = log.DebugLevel
	case o.Quiet:
		lvl = log.WarnLevel
	}
	logger.SetLevel(lvl)
	if !known {
		logger.Warn("unknown log_level, defaulting to info", "provided", o.Level)
	}
	return logger
}

// ParseLevel maps a config string onto a level; ok is false for
// unrecognised names.
func ParseLevel(s string) (lvl log.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	}
	return log.InfoLevel, false
}

// Discard returns a logger that drops everything, for tests and library use.
func Discard() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}
