package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-tasklist/internal/config"
	"github.com/adanyl0v/go-tasklist/internal/journal"
	"github.com/adanyl0v/go-tasklist/internal/repository"
)

const journalCloseTimeout = 5 * time.Second

var (
	globalPostgresPool *pgxpool.Pool
	globalJournal      *journal.Journal
	globalUsers        repository.UserRepository
)

// MustConnectPostgres opens the database and starts the event journal
// writer. It does nothing when no Postgres host is configured.
func MustConnectPostgres() {
	cfg := config.Global().Postgres
	if !cfg.Enabled() {
		globalLogger.Info().Msg("postgres host not set, event journal disabled")
		return
	}

	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	globalPostgresPool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = globalPostgresPool.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	globalJournal = journal.New(
		componentLogger("journal"),
		globalPostgresPool,
		cfg.JournalWriteTimeout,
		cfg.JournalQueueSize,
	)
	err = globalJournal.EnsureSchema(ctx)
	if err != nil {
		panic(err)
	}
	globalJournal.Start()
}

// MustInitUserRepository keeps accounts in Postgres when it is
// connected and in memory otherwise.
func MustInitUserRepository() {
	if globalPostgresPool == nil {
		globalUsers = repository.NewMemoryUserRepository(componentLogger("users"))
		globalLogger.Warn().Msg("accounts are kept in memory and lost on restart")
		return
	}

	users := repository.NewPostgresUserRepository(componentLogger("users"), globalPostgresPool)

	ctx, cancel := context.WithTimeout(context.Background(), config.Global().Postgres.PingTimeout)
	defer cancel()

	err := users.EnsureSchema(ctx)
	if err != nil {
		panic(err)
	}
	globalUsers = users
}

// DisconnectPostgres flushes the journal before closing the pool.
func DisconnectPostgres() {
	if globalPostgresPool == nil {
		return
	}

	if globalJournal != nil {
		ctx, cancel := context.WithTimeout(context.Background(), journalCloseTimeout)
		defer cancel()

		err := globalJournal.Close(ctx)
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("failed to flush event journal")
		}
	}

	globalPostgresPool.Close()
	globalLogger.Info().Msg("disconnected from postgres")
}
