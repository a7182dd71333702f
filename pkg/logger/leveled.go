package logger

import (
	"github.com/rs/zerolog"
)

// Leveled adapts the logger to APIs that log a message followed by
// alternating keys and values, such as retryablehttp.LeveledLogger.
type Leveled struct {
	logger zerolog.Logger
}

func (l Logger) Leveled() Leveled {
	return Leveled{logger: l.Logger}
}

func (l Leveled) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l Leveled) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

func (l Leveled) Info(msg string, keysAndValues ...any) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

func (l Leveled) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}
