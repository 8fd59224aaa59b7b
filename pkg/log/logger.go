// Package log configures zerolog for the harness and provides helpers for
// attaching run and model context to log events.
package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Common structured field keys.
const (
	RunIDKey    = "run_id"
	ModelKey    = "model"
	SamplesKey  = "n_samples"
	FeaturesKey = "n_features"
	ClassesKey  = "n_classes"
	DurationKey = "duration"
)

// Setup returns a logger writing to w at the given level. Level strings
// follow zerolog conventions ("debug", "info", "warn", "error"); anything
// else falls back to info. When console is true the human-readable console
// writer is used instead of JSON.
func Setup(w io.Writer, level string, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Default returns the standard stderr console logger at info level.
func Default() zerolog.Logger {
	return Setup(os.Stderr, "info", true)
}

// Nop returns a disabled logger, useful in tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithModel returns a child logger carrying a model name field.
func WithModel(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str(ModelKey, name).Logger()
}
