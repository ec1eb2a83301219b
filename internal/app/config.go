package app

import (
	"net"
	"strconv"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-tasklist/internal/config"
	"github.com/adanyl0v/go-tasklist/internal/tasklist"
)

var globalFormatter tasklist.Formatter

// MustReadEnv reads the config from the environment and a .env file,
// if present, and makes it global.
func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	config.SetGlobal(cfg)

	storage := "memory"
	if cfg.Postgres.Enabled() {
		storage = "postgres " + net.JoinHostPort(cfg.Postgres.Host, strconv.Itoa(cfg.Postgres.Port))
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("http_addr", net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)).
		Str("id_generator", cfg.Tasks.IDGenerator).
		Dur("session_ttl", cfg.Tasks.SessionTTL).
		Int("max_sessions", cfg.Tasks.MaxSessions).
		Bool("guest_passphrase", cfg.Auth.PassphraseHash != "").
		Str("storage", storage).
		Msg("read env")
}

// MustLoadFormatter resolves the display time zone so that a bad
// TASKS_TIME_ZONE fails before anything is connected.
func MustLoadFormatter() {
	tz := config.Global().Tasks.TimeZone

	formatter, err := tasklist.LoadFormatter(tz)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("time_zone", tz).
			Msg("failed to load time zone")
		panic(err)
	}
	globalFormatter = formatter

	globalLogger.Debug().
		Str("time_zone", formatter.Location().String()).
		Msg("loaded formatter")
}
