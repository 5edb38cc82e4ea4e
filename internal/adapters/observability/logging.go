package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger writing to stdout.
// APP_ENV=dev (or development) uses a human-friendly console writer.
// level is a zerolog level name; unknown or empty means info.
func NewLogger(env, level string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if env == "dev" || env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
