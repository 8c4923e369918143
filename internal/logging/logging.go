// Package logging configures the zerolog logger shared across the service.
package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/pinggolf/cryoplanner/internal/config"
)

// New returns a configured zerolog.Logger: pretty console output in
// development, structured JSON otherwise.
func New(cfg config.Config) zerolog.Logger {
	var out zerolog.ConsoleWriter
	lvl := zerolog.InfoLevel
	if cfg.Env == "development" {
		lvl = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: os.Stderr}
		zerolog.SetGlobalLevel(lvl)
		return zerolog.New(out).With().Timestamp().Caller().Logger()
	}
	zerolog.SetGlobalLevel(lvl)
	return zerolog.New(os.Stderr).With().Timestamp().Str("service", "cryoplanner").Logger()
}
