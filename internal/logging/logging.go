// Package logging configures the logfmt logger shared by the command line
// tools. Library packages do not log.
package logging

import (
	"io"
	stdlog "log"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Log source tags used in structured logger contexts.
const (
	SourceCLI    = "cli"
	SourceRender = "render"
	SourceTUI    = "tui"
	SourceWatch  = "watch"
)

var (
	mu         sync.Mutex
	baseLogger *log.Logger
)

// Init configures the base logger and redirects the stdlib log package to
// it. Output goes to w (stderr when nil) so rendered forms on stdout stay
// clean. Calling Init again replaces the previous configuration.
func Init(w io.Writer, level log.Level) {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		TimeFunction:    log.NowUTC,
		TimeFormat:      time.RFC3339Nano,
		Level:           level,
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})

	mu.Lock()
	baseLogger = logger
	mu.Unlock()

	stdlog.SetFlags(0)
	stdlog.SetOutput(StdLogger(SourceCLI).Writer())
}

// ParseLevel maps a flag value onto a level, defaulting to info.
func ParseLevel(raw string) log.Level {
	level, err := log.ParseLevel(raw)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Logger returns a logfmt logger tagged with the provided source.
func Logger(source string) *log.Logger {
	return base().With("source", source)
}

// StdLogger returns a stdlib logger that writes logfmt output with a source.
func StdLogger(source string) *stdlog.Logger {
	return Logger(source).StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel})
}

func base() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if baseLogger == nil {
		baseLogger = log.NewWithOptions(os.Stderr, log.Options{
			Level:     log.InfoLevel,
			Formatter: log.LogfmtFormatter,
		})
	}
	return baseLogger
}
