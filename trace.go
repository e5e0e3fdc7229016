package qf

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewTraceLogger returns the logger used for per-step tracing. When debug is
// off everything is discarded.
func NewTraceLogger(debug bool) *log.Logger {
	if !debug {
		return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  log.DebugLevel,
		Prefix: "qf",
	})
}
