// Package zerologadapter sends squote logs to a github.com/rs/zerolog logger.
package zerologadapter

import (
	"github.com/mwblythe/squote"
	"github.com/rs/zerolog"
)

// Logger is a squote.Logger backed by zerolog.
// Entries carry module=squote unless WithoutSquoteModule is given.
type Logger struct {
	logger        zerolog.Logger
	withoutModule bool
}

// Option configures NewLogger
type Option func(*Logger)

// WithoutSquoteModule leaves the module field off every entry
func WithoutSquoteModule() Option {
	return func(l *Logger) {
		l.withoutModule = true
	}
}

// NewLogger wraps logger
//
// b := squote.NewBuilder(squote.WithLogger(zerologadapter.NewLogger(log.Logger)), squote.Log(true))
func NewLogger(logger zerolog.Logger, options ...Option) *Logger {
	l := &Logger{logger: logger}
	for _, opt := range options {
		opt(l)
	}

	if !l.withoutModule {
		l.logger = l.logger.With().Str("module", "squote").Logger()
	}

	return l
}

// zlevels maps squote levels; anything unknown logs at trace
var zlevels = map[squote.LogLevel]zerolog.Level{
	squote.LogLevelNone:  zerolog.NoLevel,
	squote.LogLevelError: zerolog.ErrorLevel,
	squote.LogLevelWarn:  zerolog.WarnLevel,
	squote.LogLevelInfo:  zerolog.InfoLevel,
	squote.LogLevelDebug: zerolog.DebugLevel,
}

func (l *Logger) Log(level squote.LogLevel, msg string, data map[string]interface{}) {
	zlevel, ok := zlevels[level]
	if !ok {
		zlevel = zerolog.TraceLevel
	}

	l.logger.WithLevel(zlevel).Fields(data).Msg(msg)
}
