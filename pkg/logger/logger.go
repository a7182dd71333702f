package logger

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const (
	JSONLoggingFormat    = "json"
	ConsoleLoggingFormat = "console"

	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
	LogLevelFatal   = "fatal"
	LogLevelPanic   = "panic"
)

type (
	Logger struct {
		zerolog.Logger
	}

	requestIDKey struct{}
	commandKey   struct{}
)

var levels = map[string]zerolog.Level{
	LogLevelDebug:   zerolog.DebugLevel,
	LogLevelInfo:    zerolog.InfoLevel,
	LogLevelWarn:    zerolog.WarnLevel,
	LogLevelWarning: zerolog.WarnLevel,
	LogLevelError:   zerolog.ErrorLevel,
	LogLevelFatal:   zerolog.FatalLevel,
	LogLevelPanic:   zerolog.PanicLevel,
}

// ParseLevel maps a configured level name onto zerolog, falling back to info.
func ParseLevel(level string) zerolog.Level {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return lvl
	}

	return zerolog.InfoLevel
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return Logger{Logger: zerolog.Nop()}
}

// NewWithWriter logs to w. The CLI passes stderr so command output on stdout
// stays machine readable.
func NewWithWriter(level, format string, w io.Writer) Logger {
	out := w
	if !strings.EqualFold(format, JSONLoggingFormat) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return Logger{
		Logger: zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger(),
	}
}

// WithRequestID tags ctx with the id of a single CLI invocation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// WithCommand tags ctx with the command path being executed, e.g. "docrepo find".
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey{}, name)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}

// WithContext returns a child logger carrying the invocation tags and the
// active span of ctx.
func (l Logger) WithContext(ctx context.Context) zerolog.Logger {
	fields := l.Logger.With()

	if id := RequestIDFrom(ctx); id != "" {
		fields = fields.Str("request_id", id)
	}

	if name, ok := ctx.Value(commandKey{}).(string); ok && name != "" {
		fields = fields.Str("command", name)
	}

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		fields = fields.
			Str("trace_id", spanCtx.TraceID().String()).
			Str("span_id", spanCtx.SpanID().String())
	}

	return fields.Logger()
}
