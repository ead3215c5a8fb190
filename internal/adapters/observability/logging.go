package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a zerolog Logger writing to stderr, so stdout stays free
// for reports. APP_ENV=dev (or development) uses a human-friendly console writer.
// A non-empty file also receives JSON lines, rotated by size.
func NewLogger(env, file string) zerolog.Logger {
	var out io.Writer = os.Stderr
	if env == "dev" || env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	if file != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
