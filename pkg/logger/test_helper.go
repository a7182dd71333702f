package logger

import (
	"io"

	"github.com/rs/zerolog"
)

func NewTestLogger() Logger {
	return NewNop()
}

// NewBufferedTestLogger writes JSON lines at debug level to w, for tests
// asserting on log output.
func NewBufferedTestLogger(w io.Writer) Logger {
	return Logger{Logger: zerolog.New(w).Level(zerolog.DebugLevel)}
}
