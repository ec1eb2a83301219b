package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/adanyl0v/go-tasklist/internal/config"
)

func TestEnvLogLevels(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, envLogLevels[config.EnvLocal])
	assert.Equal(t, zerolog.DebugLevel, envLogLevels[config.EnvDev])
	assert.Equal(t, zerolog.InfoLevel, envLogLevels[config.EnvProd])
}

func TestLogWriter(t *testing.T) {
	_, console := logWriter(config.EnvLocal).(zerolog.ConsoleWriter)
	assert.True(t, console)

	_, console = logWriter(config.EnvProd).(zerolog.ConsoleWriter)
	assert.False(t, console)
}
