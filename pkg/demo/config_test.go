package demo

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	assert.Equal(t, 2048, DefaultConfig().Bits)

	tests := []struct {
		name string
		cfg  Config
		err  error
	}{
		{"odd bits", Config{Bits: 1025}, ErrInvalidBits},
		{"too small", Config{Bits: 256}, ErrInvalidBits},
		{"negative workers", Config{Bits: 512, Workers: -1}, ErrInvalidWorkers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), tt.err)
		})
	}

	assert.Error(t, Config{Bits: 512, LogLevel: "loud"}.Validate())
	assert.NoError(t, Config{Bits: 512}.Validate(), "empty level defaults to info")
}

func TestConfig_Level(t *testing.T) {
	lvl, err := Config{LogLevel: "debug"}.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	lvl, err = Config{}.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)
}
