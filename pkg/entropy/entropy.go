// Package entropy provides the random sources injected into prime generation and encryption.
//
// Production code should use Secure. Deterministic exists so that tests can
// reproduce key generation and encryption from a fixed seed.
package entropy

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"github.com/taurusgroup/homomorphic-sum/internal/params"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

const deterministicInfo = "homomorphic-sum deterministic entropy v1"

var ErrEmptySeed = errors.New("entropy: seed must not be empty")

// Secure returns the operating system's cryptographically secure source.
func Secure() io.Reader {
	return rand.Reader
}

// Deterministic is a ChaCha20 keystream keyed from a seed with HKDF-SHA256.
//
// The same seed always produces the same stream. It is not safe for concurrent use,
// wrap it in a pool.LockedReader when sharing it between goroutines.
type Deterministic struct {
	cipher *chacha20.Cipher
}

// NewDeterministic derives a ChaCha20 key and nonce from seed.
func NewDeterministic(seed []byte) (*Deterministic, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}
	kdf := hkdf.New(sha256.New, seed, nil, []byte(deterministicInfo))
	material := make([]byte, chacha20.KeySize+chacha20.NonceSize)
	if _, err := io.ReadFull(kdf, material); err != nil {
		return nil, err
	}
	c, err := chacha20.NewUnauthenticatedCipher(material[:chacha20.KeySize], material[chacha20.KeySize:])
	if err != nil {
		return nil, err
	}
	return &Deterministic{cipher: c}, nil
}

// MustDeterministic is NewDeterministic for fixed, non-empty test seeds.
func MustDeterministic(seed string) *Deterministic {
	d, err := NewDeterministic([]byte(seed))
	if err != nil {
		panic(err)
	}
	return d
}

// Read fills p with the next bytes of the keystream. It never fails.
func (d *Deterministic) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	d.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// Seed returns params.SecBytes bytes from r, suitable for NewDeterministic.
func Seed(r io.Reader) ([]byte, error) {
	seed := make([]byte, params.SecBytes)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, err
	}
	return seed, nil
}
