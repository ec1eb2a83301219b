package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/config"
)

const serviceName = "go-tasklist"

var globalLogger zerolog.Logger

var envLogLevels = map[string]zerolog.Level{
	config.EnvLocal: zerolog.TraceLevel,
	config.EnvDev:   zerolog.DebugLevel,
	config.EnvProd:  zerolog.InfoLevel,
}

// InitDefaultLogger sets up a JSON logger usable before the
// config has been read.
func InitDefaultLogger() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	globalLogger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// MustInitApplicationLogger applies the level of the configured env,
// or LOG_LEVEL when set, and switches to console output locally.
func MustInitApplicationLogger() {
	cfg := config.Global()

	level, ok := envLogLevels[cfg.Env]
	if !ok {
		panic(fmt.Errorf("no log level for env %q", cfg.Env))
	}
	if cfg.Log.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
		if err != nil {
			globalLogger.Error().
				Err(err).
				Str("level", cfg.Log.Level).
				Msg("failed to parse log level")
			panic(err)
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)

	globalLogger = globalLogger.Output(logWriter(cfg.Env)).
		With().
		Caller().
		Int("pid", os.Getpid()).
		Logger()
	redirectGinDebugOutput(componentLogger("gin"))

	globalLogger.Info().
		Str("level", level.String()).
		Msg("initialized application logger")
}

func logWriter(env string) io.Writer {
	if env != config.EnvLocal {
		return os.Stdout
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.TimeOnly,
	}
}

// redirectGinDebugOutput sends the route table and other debug
// messages gin prints in debug mode through logger.
func redirectGinDebugOutput(logger zerolog.Logger) {
	gin.DebugPrintRouteFunc = func(method, path, handler string, handlers int) {
		logger.Debug().
			Str("method", method).
			Str("path", path).
			Str("handler", handler).
			Int("handlers", handlers).
			Msg("registered route")
	}
	gin.DebugPrintFunc = func(format string, values ...any) {
		logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, values...)))
	}
}

func componentLogger(name string) zerolog.Logger {
	return globalLogger.With().
		Str("component", name).
		Logger()
}
