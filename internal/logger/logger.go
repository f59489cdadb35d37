// Package logger configures the global zerolog logger and derives the
// request and plan scoped loggers used across the service.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// Service is attached to every line written by the global logger.
const Service = "loadplan-service"

// Init sets the global level and output. Unknown levels fall back to info.
// Pretty output is meant for terminals and the packplan CLI.
func Init(level string, pretty bool) {
	InitWithWriter(level, pretty, os.Stderr)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(level string, pretty bool, w io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", Service).Logger()
}

// ParseLevel maps a configured level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Logger returns the global logger instance.
func Logger() zerolog.Logger {
	return log.Logger
}

// ForRequest returns a logger tagged with the request id.
func ForRequest(requestID string) zerolog.Logger {
	return log.Logger.With().Str("request_id", requestID).Logger()
}

// ForPlan returns a logger describing an allocation result.
func ForPlan(result model.PlanResult) zerolog.Logger {
	return log.Logger.With().
		Str("plan_id", result.PlanID).
		Str("mode", string(result.Mode)).
		Int("requested", result.Requested).
		Int("shipments", len(result.Shipments)).
		Int("leftover", result.Leftover).
		Logger()
}
