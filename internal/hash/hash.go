package hash

import (
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/homomorphic-sum/internal/params"
	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the length of the slice returned by Sum.
const DigestLengthBytes = params.FingerprintBytes

// Hash wraps blake3 and applies domain separation to every value written to it.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash, optionally initialised with a domain-separated context string.
func New(context string) *Hash {
	hash := &Hash{h: blake3.New()}
	if context != "" {
		_ = writeWithDomain(hash.h, BytesWithDomain{TheDomain: "context", Bytes: []byte(context)})
	}
	return hash
}

// Digest returns a reader for the current output of the function.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny writes each value to the hash state.
//
// Supported types:
//
//   - []byte
//   - *big.Int (non-negative)
//   - *saferith.Nat
//   - *saferith.Modulus
//   - WriterToWithDomain
//
// The first four get their own domain, the last one supplies it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		var err error
		switch t := d.(type) {
		case []byte:
			err = writeWithDomain(hash.h, BytesWithDomain{TheDomain: "[]byte", Bytes: t})
		case *big.Int:
			if t == nil || t.Sign() < 0 {
				return fmt.Errorf("hash.Hash: write *big.Int: nil or negative")
			}
			err = writeWithDomain(hash.h, BytesWithDomain{TheDomain: "big.Int", Bytes: t.Bytes()})
		case *saferith.Nat:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Nat: nil")
			}
			err = writeWithDomain(hash.h, BytesWithDomain{TheDomain: "saferith.Nat", Bytes: t.Bytes()})
		case *saferith.Modulus:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Modulus: nil")
			}
			err = writeWithDomain(hash.h, BytesWithDomain{TheDomain: "saferith.Modulus", Bytes: t.Bytes()})
		case WriterToWithDomain:
			err = writeWithDomain(hash.h, t)
		default:
			return fmt.Errorf("hash.Hash: unsupported type %T", d)
		}
		if err != nil {
			return fmt.Errorf("hash.Hash: write %T: %w", d, err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
