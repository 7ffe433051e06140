package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log stays silent until Init is called, so packages can log from tests.
var Log = zerolog.Nop()

func Init(isDev bool) {
	InitWriter(os.Stdout, isDev)
}

func InitWriter(out io.Writer, isDev bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if isDev {
		Log = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}).With().Timestamp().Logger()
	} else {
		Log = zerolog.New(out).With().Timestamp().Logger()
	}
}

func IsDev() bool {
	env := os.Getenv("ENV")
	return env == "" || env == "dev" || env == "development"
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return Log.With().Str("component", name).Logger()
}
