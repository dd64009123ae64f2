package demo

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/homomorphic-sum/internal/params"
)

var (
	ErrInvalidBits    = errors.New("demo: modulus size must be even and at least 512 bits")
	ErrInvalidWorkers = errors.New("demo: worker count must not be negative")
)

// Config holds the settings of a demo session.
type Config struct {
	// Bits is the size of the Paillier modulus N.
	Bits int `json:"bits"`
	// Workers is the number of goroutines searching for primes, 0 means one per CPU.
	Workers int `json:"workers"`
	// LogLevel is a zerolog level name.
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns a 2048-bit configuration using every CPU.
func DefaultConfig() Config {
	return Config{
		Bits:     params.BitsModulus,
		Workers:  0,
		LogLevel: zerolog.LevelInfoValue,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Bits%2 != 0 || c.Bits < params.MinBitsModulus {
		return errors.Wrapf(ErrInvalidBits, "got %d", c.Bits)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalidWorkers, "got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel, defaulting to info when empty.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, errors.Wrap(err, fmt.Sprintf("demo: invalid log level %q", c.LogLevel))
	}
	return lvl, nil
}
