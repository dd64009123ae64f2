package demo

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/homomorphic-sum/pkg/entropy"
	"github.com/taurusgroup/homomorphic-sum/pkg/paillier"
	"golang.org/x/sync/errgroup"
)

func newTestSession(t *testing.T, seed string) *Session {
	cfg := Config{Bits: 512, Workers: 2, LogLevel: "debug"}
	s, err := NewSession(cfg, entropy.MustDeterministic(seed), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestSession_Sum(t *testing.T) {
	s := newTestSession(t, "sum")
	res, err := s.Sum(big.NewInt(7), big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.Sum.Int64())
	assert.True(t, res.Match)
	assert.False(t, res.EncA.Equal(res.EncB))
	assert.Len(t, res.Transcript, 64)

	pk, err := s.PublicKey()
	require.NoError(t, err)
	assert.Equal(t, 512, pk.BitLen())
	assert.Equal(t, pk.Fingerprint(), res.EncSum.Key())
}

func TestSession_Wraparound(t *testing.T) {
	s := newTestSession(t, "wrap")
	pk, err := s.PublicKey()
	require.NoError(t, err)
	nMinus1 := new(big.Int).Sub(pk.N(), big.NewInt(1))
	res, err := s.Sum(nMinus1, big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Sum.Int64())
	assert.True(t, res.Match)
}

func TestSession_OutOfRange(t *testing.T) {
	s := newTestSession(t, "range")
	_, err := s.Sum(big.NewInt(-1), big.NewInt(2))
	assert.ErrorIs(t, err, paillier.ErrOutOfRange)
}

func TestSession_Concurrent(t *testing.T) {
	s := newTestSession(t, "concurrent")
	var g errgroup.Group
	for i := int64(0); i < 8; i++ {
		a := big.NewInt(i)
		g.Go(func() error {
			res, err := s.Sum(a, a)
			if err != nil {
				return err
			}
			assert.Equal(t, 2*a.Int64(), res.Sum.Int64())
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestSession_JSON(t *testing.T) {
	s := newTestSession(t, "json")
	res, err := s.Sum(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)
	d, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded struct {
		Sum    *big.Int             `json:"sum"`
		Match  bool                 `json:"match"`
		EncSum *paillier.Ciphertext `json:"enc_sum"`
	}
	require.NoError(t, json.Unmarshal(d, &decoded))
	assert.Equal(t, int64(3), decoded.Sum.Int64())
	assert.True(t, decoded.Match)
	assert.True(t, decoded.EncSum.Equal(res.EncSum))
}

func TestNewSession_InvalidConfig(t *testing.T) {
	_, err := NewSession(Config{Bits: 100}, nil, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidBits)
}

func TestSession_LogLevel(t *testing.T) {
	run := func(level string) string {
		var buf bytes.Buffer
		cfg := Config{Bits: 512, Workers: 1, LogLevel: level}
		s, err := NewSession(cfg, entropy.MustDeterministic("log level"), zerolog.New(&buf))
		require.NoError(t, err)
		_, err = s.Sum(big.NewInt(1), big.NewInt(2))
		require.NoError(t, err)
		s.Close()
		return buf.String()
	}

	out := run("warn")
	assert.NotContains(t, out, "keys generated")
	assert.NotContains(t, out, "decrypted sum")

	out = run("info")
	assert.Contains(t, out, "keys generated")
	assert.NotContains(t, out, `"message":"encrypted"`)

	out = run("debug")
	assert.Contains(t, out, `"message":"encrypted"`)
}
