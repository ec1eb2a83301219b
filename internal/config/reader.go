package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrInvalidEnv = errors.New("invalid env")

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEnv, cfg.Env)
	}
	if cfg.Tasks.MaxSessions < 0 {
		return nil, fmt.Errorf("TASKS_MAX_SESSIONS must not be negative, got %d", cfg.Tasks.MaxSessions)
	}

	return cfg, nil
}
