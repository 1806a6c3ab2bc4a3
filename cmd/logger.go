package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// NewLogger returns a logger writing to w. format is "json", or "console" for
// human readable lines, colored when w is a terminal.
func NewLogger(level, format string, w io.Writer) *log.Logger {
	logger := &log.Logger{
		Level:      log.ParseLevel(strings.ToLower(level)),
		TimeFormat: "15:04:05",
	}
	switch strings.ToLower(format) {
	case "json":
		logger.TimeFormat = ""
		logger.Writer = log.IOWriter{Writer: w}
	default:
		color := false
		if f, ok := w.(*os.File); ok {
			color = log.IsTerminal(f.Fd())
		}
		logger.Writer = &log.ConsoleWriter{Writer: w, ColorOutput: color, EndWithMessage: true}
	}
	return logger
}
