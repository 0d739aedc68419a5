package util

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger: console output, level
// taken from LOG_LEVEL (debug, info, warn, error), defaulting to info.
func Init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})

	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			log.Warn().Str("LOG_LEVEL", raw).Msg("invalid log level, using info")
		} else {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Str("level", level.String()).Msg("logger initialized")
}
