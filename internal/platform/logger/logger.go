// internal/platform/logger/logger.go
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger writing to w.
// format "json" writes JSON lines; anything else uses the console writer.
func New(w io.Writer, level string, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	writer := w
	if format != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Str("app", "master_edition").
		Logger(), nil
}
