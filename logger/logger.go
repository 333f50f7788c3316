// Package logger provides leveled, colorized console logging for the rest of
// the module, wrapping github.com/op/go-logging behind a single
// construction entry point.
package logger

import (
	"os"
	"time"

	logging "github.com/op/go-logging"
)

// Logger is a leveled logger bound to a module name.
type Logger = *logging.Logger

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{shortfunc} ▶ %{level:.4s}%{color:reset} %{message}`,
)

// NewLogger returns a Logger named module, logging to stderr at level.
// An unrecognized level falls back to INFO rather than failing construction,
// since a malformed configuration value should not prevent a run from
// starting.
func NewLogger(level, module string) Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)

	parsed, err := logging.LogLevel(level)
	if err != nil {
		parsed = logging.INFO
	}
	leveled.SetLevel(parsed, module)
	logging.SetBackend(leveled)

	return logging.MustGetLogger(module)
}

// ParseTime decomposes elapsed into whole hours, minutes, and seconds.
func ParseTime(elapsed time.Duration) (hours, minutes, seconds uint32) {
	total := uint32(elapsed.Seconds())
	hours = total / 3600
	minutes = (total % 3600) / 60
	seconds = total % 60
	return hours, minutes, seconds
}
