// Package logger configures the process-wide zerolog logger. Code
// without an injected logger uses the package-level event starters.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var root = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Setup applies the configured level and output format globally and
// returns the root logger. Format "text" renders the human console
// writer; anything else stays structured JSON. Unknown levels fall
// back to info.
func Setup(level, format string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	zerolog.TimeFieldFormat = time.RFC3339

	writer := out
	if strings.ToLower(format) == "text" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	root = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = root
	return root
}

// Debug starts a debug-level event on the root logger.
func Debug() *zerolog.Event { return root.Debug() }

// Info starts an info-level event on the root logger.
func Info() *zerolog.Event { return root.Info() }

// Warn starts a warn-level event on the root logger.
func Warn() *zerolog.Event { return root.Warn() }

// Error starts an error-level event on the root logger.
func Error() *zerolog.Event { return root.Error() }
