// Package logger wraps zerolog in the action-tagged shape used across the
// service: every log line carries service, hostname and an action label.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

func New(service string) Logger {
	hostname, _ := os.Hostname()
	zl := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", service).
		Str("hostname", hostname).
		Logger()
	return Logger{zl: zl}
}

// Action returns a child logger tagged with the action being performed.
func (l Logger) Action(action string) Logger {
	return Logger{zl: l.zl.With().Str("action", action).Logger()}
}

// With attaches an arbitrary key-value pair.
func (l Logger) With(key string, value any) Logger {
	return Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

func (l Logger) Debug(msg string) {
	l.zl.Debug().Msg(msg)
}

func (l Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

func (l Logger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
}

func (l Logger) Error(msg string, err error) {
	l.zl.Error().Err(err).Msg(msg)
}

// Nop discards everything; used in tests.
func Nop() Logger {
	return Logger{zl: zerolog.Nop()}
}
