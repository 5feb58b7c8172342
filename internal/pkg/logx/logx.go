/*
Package logx provides a structured logging wrapper based on zerolog.

It initializes the global logger, selecting the output format (JSON or console)
based on the environment, and exposes small helpers for the common levels so
call sites outside hot paths do not need to build zerolog chains by hand.
*/
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitGlobalLogger configures the global zerolog instance.
// Development mode logs at Debug level through a colored ConsoleWriter;
// everything else logs Info-level JSON to stdout. All entries carry a
// Unix timestamp and caller information.
func InitGlobalLogger(isDevelopment bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if isDevelopment {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Caller().Logger()
}

// Logger returns the global zerolog.Logger. Components derive their own
// sub-loggers from it via With().Str("component", ...).
func Logger() *zerolog.Logger {
	return &log.Logger
}

// fields normalizes a variadic key-value list, discarding it when the
// count is odd so zerolog never panics on a malformed call.
func fields(level string, kv []any) []any {
	if len(kv)%2 != 0 {
		Logger().Warn().
			Str("log_level", level).
			Int("fields_count", len(kv)).
			Msg("Odd number of log fields supplied, fields ignored.")
		return nil
	}
	return kv
}

// Info logs a message at Info level with optional key-value fields.
func Info(msg string, kv ...any) {
	Logger().Info().Fields(fields("Info", kv)).CallerSkipFrame(1).Msg(msg)
}

// Warn logs a message at Warn level with optional key-value fields.
func Warn(msg string, kv ...any) {
	Logger().Warn().Fields(fields("Warn", kv)).CallerSkipFrame(1).Msg(msg)
}

// Error logs an error at Error level with optional key-value fields.
func Error(err error, msg string, kv ...any) {
	Logger().Error().Err(err).Fields(fields("Error", kv)).CallerSkipFrame(1).Msg(msg)
}

// Fatal logs the error at Fatal level and terminates the process.
func Fatal(err error, msg string, kv ...any) {
	Logger().Fatal().Err(err).Fields(fields("Fatal", kv)).CallerSkipFrame(1).Msg(msg)
}
