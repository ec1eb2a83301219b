package tasklist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterGenerator_Increments(t *testing.T) {
	gen := NewCounterGenerator()

	assert.Equal(t, "1", gen.NewID())
	assert.Equal(t, "2", gen.NewID())
	assert.Equal(t, "3", gen.NewID())
}

func TestUUIDGenerator_UniqueV7(t *testing.T) {
	gen := UUIDGenerator{}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := gen.NewID()
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestNewIDGenerator(t *testing.T) {
	gen, err := NewIDGenerator(IDGeneratorCounter)
	require.NoError(t, err)
	assert.IsType(t, &CounterGenerator{}, gen)

	gen, err = NewIDGenerator(IDGeneratorUUID)
	require.NoError(t, err)
	assert.IsType(t, UUIDGenerator{}, gen)

	_, err = NewIDGenerator("random")
	assert.ErrorIs(t, err, ErrUnknownIDGenerator)
}
