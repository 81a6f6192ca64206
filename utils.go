package main

import (
	"os"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
	With().Timestamp().Str("module", "Overlay").Logger()

// setLogLevel applies to every package logger.
func setLogLevel(lvl zerolog.Level) {
	if zerolog.GlobalLevel() != lvl {
		log.Debug().Stringer("level", lvl).Msg("log level changed")
	}
	zerolog.SetGlobalLevel(lvl)
}
