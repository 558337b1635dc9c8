package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	token := gen.Generate()
	parsed, err := uuid.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	assert.NotEqual(t, token, gen.Generate())
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("run-1", "run-2")

	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}
