// Package demo runs the encrypt, add, decrypt walkthrough on top of package paillier.
//
// A Session generates its key pair in the background as soon as it is created,
// so that callers can keep doing other work in the meantime.
package demo

import (
	"encoding/hex"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/homomorphic-sum/internal/hash"
	"github.com/taurusgroup/homomorphic-sum/pkg/entropy"
	"github.com/taurusgroup/homomorphic-sum/pkg/paillier"
	"github.com/taurusgroup/homomorphic-sum/pkg/pool"
	"golang.org/x/sync/errgroup"
)

// Session holds one key pair for its whole lifetime.
type Session struct {
	ID  uuid.UUID
	Log zerolog.Logger

	cfg  Config
	rand io.Reader
	pool *pool.Pool

	keygen    errgroup.Group
	pk        *paillier.PublicKey
	sk        *paillier.PrivateKey
	closeOnce sync.Once
}

// Result describes one run of Sum.
type Result struct {
	A *big.Int `json:"a"`
	B *big.Int `json:"b"`
	// EncA, EncB are the encryptions of A and B, EncSum their homomorphic sum.
	EncA   *paillier.Ciphertext `json:"enc_a"`
	EncB   *paillier.Ciphertext `json:"enc_b"`
	EncSum *paillier.Ciphertext `json:"enc_sum"`
	// Sum is the decryption of EncSum.
	Sum *big.Int `json:"sum"`
	// Expected is (A + B) mod N, computed in the clear.
	Expected *big.Int `json:"expected"`
	// Match reports whether Sum equals Expected.
	Match bool `json:"match"`
	// Transcript is a blake3 digest of the three ciphertexts.
	Transcript string `json:"transcript"`
}

// NewSession validates cfg and starts generating keys with randomness from rand.
// A nil rand uses entropy.Secure(). The session logs to log at cfg's level.
func NewSession(cfg Config, rand io.Reader, log zerolog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lvl, _ := cfg.Level()
	if rand == nil {
		rand = entropy.Secure()
	}
	// Sum may be called concurrently, and rand need not be safe for that.
	rand = pool.NewLockedReader(rand)
	id := uuid.New()
	s := &Session{
		ID:   id,
		Log:  log.Level(lvl).With().Str("session", id.String()).Int("bits", cfg.Bits).Logger(),
		cfg:  cfg,
		rand: rand,
		pool: pool.NewPool(cfg.Workers),
	}
	s.Log.Info().Int("workers", s.pool.Workers()).Msg("generating keys")
	start := time.Now()
	s.keygen.Go(func() error {
		pk, sk, err := paillier.KeyGen(s.rand, cfg.Bits, s.pool)
		if err != nil {
			s.Log.Error().Err(err).Msg("key generation failed")
			return errors.Wrap(err, "demo: key generation")
		}
		s.pk, s.sk = pk, sk
		s.Log.Info().
			Dur("took", time.Since(start)).
			Str("fingerprint", pk.Fingerprint().String()).
			Msg("keys generated")
		return nil
	})
	return s, nil
}

// Wait blocks until key generation finishes.
func (s *Session) Wait() error {
	return s.keygen.Wait()
}

// PublicKey waits for key generation and returns the session's public key.
func (s *Session) PublicKey() (*paillier.PublicKey, error) {
	if err := s.Wait(); err != nil {
		return nil, err
	}
	return s.pk, nil
}

// Sum encrypts a and b, adds the ciphertexts and decrypts the result.
func (s *Session) Sum(a, b *big.Int) (*Result, error) {
	if err := s.Wait(); err != nil {
		return nil, err
	}
	encA, err := s.pk.Enc(s.rand, a)
	if err != nil {
		return nil, errors.Wrap(err, "demo: encrypt a")
	}
	encB, err := s.pk.Enc(s.rand, b)
	if err != nil {
		return nil, errors.Wrap(err, "demo: encrypt b")
	}
	s.Log.Debug().Str("enc_a", encA.String()).Str("enc_b", encB.String()).Msg("encrypted")

	encSum, err := s.pk.Add(encA, encB)
	if err != nil {
		return nil, errors.Wrap(err, "demo: add")
	}
	sum, err := s.sk.Dec(encSum)
	if err != nil {
		return nil, errors.Wrap(err, "demo: decrypt")
	}

	h := hash.New("demo transcript")
	if err = h.WriteAny(encA, encB, encSum); err != nil {
		return nil, errors.Wrap(err, "demo: transcript")
	}

	expected := new(big.Int).Add(a, b)
	expected.Mod(expected, s.pk.N())
	res := &Result{
		A:          new(big.Int).Set(a),
		B:          new(big.Int).Set(b),
		EncA:       encA,
		EncB:       encB,
		EncSum:     encSum,
		Sum:        sum,
		Expected:   expected,
		Match:      sum.Cmp(expected) == 0,
		Transcript: hex.EncodeToString(h.Sum()),
	}
	s.Log.Info().Bool("match", res.Match).Str("transcript", res.Transcript).Msg("decrypted sum")
	return res, nil
}

// Close releases the prime search workers. It waits for key generation first.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		_ = s.Wait()
		s.pool.TearDown()
	})
}
