// Package logrusadapter sends squote logs to a github.com/sirupsen/logrus
// logger. Log data becomes logrus fields.
package logrusadapter

import (
	"github.com/mwblythe/squote"
	"github.com/sirupsen/logrus"
)

// Logger is a squote.Logger backed by logrus
type Logger struct {
	l logrus.FieldLogger
}

// NewLogger wraps l. A *logrus.Logger or *logrus.Entry both work, so
// callers can pre-attach fields such as a request id.
//
// b := squote.NewBuilder(squote.WithLogger(logrusadapter.NewLogger(logrus.StandardLogger())))
func NewLogger(l logrus.FieldLogger) *Logger {
	return &Logger{l: l}
}

// Log maps squote levels onto logrus. Trace has no logrus counterpart in
// FieldLogger, so it goes out at debug tagged with the squote level.
func (l *Logger) Log(level squote.LogLevel, msg string, data map[string]interface{}) {
	entry := l.l
	if len(data) > 0 {
		entry = l.l.WithFields(logrus.Fields(data))
	}

	switch level {
	case squote.LogLevelTrace:
		entry.WithField("SQUOTE_LOG_LEVEL", level).Debug(msg)
	case squote.LogLevelDebug:
		entry.Debug(msg)
	case squote.LogLevelInfo:
		entry.Info(msg)
	case squote.LogLevelWarn:
		entry.Warn(msg)
	case squote.LogLevelError:
		entry.Error(msg)
	case squote.LogLevelNone:
	default:
		entry.WithField("INVALID_SQUOTE_LOG_LEVEL", level).Error(msg)
	}
}
