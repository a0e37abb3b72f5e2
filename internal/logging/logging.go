// Package logging configures the global zerolog logger used for diagnostics.
// Diagnostics go to stderr so they never mix with the answer on stdout.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at w with the given level name and tags every
// event with a fresh invocation id, which it returns.
func Setup(w io.Writer, level string, color bool) (string, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return "", err
	}
	zerolog.SetGlobalLevel(lvl)

	id := uuid.NewString()
	out := zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: time.Kitchen}
	log.Logger = zerolog.New(out).With().Timestamp().Str("invocation", id).Logger()
	return id, nil
}

// ParseLevel maps a level name to a zerolog level. An empty name means warn.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return lvl, nil
}
