package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	Log      LogConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Tasks    TasksConfig
	Postgres PostgresConfig
}

type LogConfig struct {
	// Overrides the level implied by Env, e.g. "warn".
	Level string `env:"LOG_LEVEL"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type JWTConfig struct {
	Issuer     string `env:"JWT_ISSUER" env-default:"go-tasklist"`
	SigningKey string `env:"JWT_SIGNING_KEY" env-required:"true"`
}

type AuthConfig struct {
	// Argon2id encoded hash. Sessions are open to anyone when empty.
	PassphraseHash string `env:"AUTH_PASSPHRASE_HASH"`
}

type TasksConfig struct {
	IDGenerator string        `env:"TASKS_ID_GENERATOR" env-default:"uuid"`
	TimeZone    string        `env:"TASKS_TIME_ZONE" env-default:"Local"`
	SessionTTL  time.Duration `env:"TASKS_SESSION_TTL" env-default:"24h"`
	// Zero lifts the limit.
	MaxSessions int           `env:"TASKS_MAX_SESSIONS" env-default:"10000"`
}

// PostgresConfig backs the users table and the event journal. While
// Host is empty accounts live in memory and the journal is off.
type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`

	JournalQueueSize    int           `env:"POSTGRES_JOURNAL_QUEUE_SIZE" env-default:"1024"`
	JournalWriteTimeout time.Duration `env:"POSTGRES_JOURNAL_WRITE_TIMEOUT" env-default:"3s"`
}

func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}
