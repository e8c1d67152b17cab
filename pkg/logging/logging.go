// Package logging builds the zerolog logger used by the CLI and the
// storage layer.
package logging

import (
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/ssargent/embview/pkg/config"
)

// New returns a logger writing to w. The console format is meant for a
// terminal; anything else writes JSON lines.
func New(cfg config.Logging, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, "logging: level %q", cfg.Level)
		}
		level = l
	}

	out := w
	if cfg.Format == "" || cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("app", "embview").Logger(), nil
}
