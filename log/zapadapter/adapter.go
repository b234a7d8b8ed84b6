// Package zapadapter provides a logger that writes to a go.uber.org/zap.Logger.
package zapadapter

import (
	"github.com/mwblythe/squote"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a squote.Logger backed by zap. Log data becomes zap.Any fields.
type Logger struct {
	logger *zap.Logger
}

// NewLogger wraps logger, skipping the adapter frame when zap reports callers
func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

func (pl *Logger) Log(level squote.LogLevel, msg string, data map[string]interface{}) {
	fields := make([]zapcore.Field, 0, len(data)+1)
	for k, v := range data {
		fields = append(fields, zap.Any(k, v))
	}

	switch level {
	case squote.LogLevelTrace:
		pl.logger.Debug(msg, append(fields, zap.Stringer("SQUOTE_LOG_LEVEL", level))...)
	case squote.LogLevelDebug:
		pl.logger.Debug(msg, fields...)
	case squote.LogLevelInfo:
		pl.logger.Info(msg, fields...)
	case squote.LogLevelWarn:
		pl.logger.Warn(msg, fields...)
	case squote.LogLevelError:
		pl.logger.Error(msg, fields...)
	default:
		pl.logger.Error(msg, append(fields, zap.Stringer("INVALID_SQUOTE_LOG_LEVEL", level))...)
	}
}
