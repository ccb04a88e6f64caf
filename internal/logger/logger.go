package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. ENV=development switches to console output.
func New(env string) zerolog.Logger {
	zerolog.LevelFieldName = "severity"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var out io.Writer = os.Stderr
	level := zerolog.InfoLevel
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).With().Timestamp().Logger().Level(level)
}

// Nop is used by tests and tools that do not want output.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
