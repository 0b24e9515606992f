// Package logger provides charmbracelet/log loggers shared across the tools.
//
// Every logger writes to stderr unless told otherwise, so stdout stays free for
// the msgpack channel in server mode.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Config controls a logger created with NewWithConfig.
type Config struct {
	Prefix    string
	Level     log.Level
	Caller    bool
	Timestamp bool
	Formatter log.Formatter
}

// New creates a stderr charm log that respects the global log level.
func New(prefix string) *log.Logger {
	return NewWriter(os.Stderr, prefix)
}

// NewWriter is New with a custom destination.
func NewWriter(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(w io.Writer, cfg Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          cfg.Prefix,
		Level:           cfg.Level,
		ReportCaller:    cfg.Caller,
		ReportTimestamp: cfg.Timestamp,
		Formatter:       cfg.Formatter,
	})
}

// Setup configures the package-level charm logger.
// Debug mode adds timestamps and lowers the level, otherwise only warnings show.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		return
	}
	log.SetLevel(log.WarnLevel)
	log.SetReportTimestamp(false)
}

// ParseFormatter maps "text", "json" and "logfmt" to a charm formatter.
func ParseFormatter(name string) log.Formatter {
	switch strings.ToLower(name) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
