package paillier

import (
	"io"
	"math/big"
)

// Ciphertext represents a Paillier encryption c ∈ [0, N²) of a value m ∈ [0, N),
// together with the fingerprint of the key that produced it.
//
// Operations never modify a Ciphertext, they return new ones, so a Ciphertext
// can be shared between goroutines.
type Ciphertext struct {
	c   *big.Int
	key Fingerprint
}

// Int returns a copy of the ciphertext value.
func (ct *Ciphertext) Int() *big.Int {
	return new(big.Int).Set(ct.c)
}

// String returns the ciphertext value in base 10.
func (ct *Ciphertext) String() string {
	if ct == nil || ct.c == nil {
		return "<nil>"
	}
	return ct.c.String()
}

// Key returns the fingerprint of the public key ct was produced under.
func (ct *Ciphertext) Key() Fingerprint {
	return ct.key
}

// Equal checks whether ct ≡ ctA (mod N²) under the same key.
// Two nil ciphertexts are equal, a nil and a non-nil one are not.
func (ct *Ciphertext) Equal(ctA *Ciphertext) bool {
	if ct == nil || ctA == nil || ct.c == nil || ctA.c == nil {
		return ct.isNil() && ctA.isNil()
	}
	return ct.key == ctA.key && ct.c.Cmp(ctA.c) == 0
}

func (ct *Ciphertext) isNil() bool {
	return ct == nil || ct.c == nil
}

// Clone returns a deep copy of ct.
func (ct *Ciphertext) Clone() *Ciphertext {
	return &Ciphertext{
		c:   new(big.Int).Set(ct.c),
		key: ct.key,
	}
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (ct *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(ct.key[:])
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(ct.c.Bytes())
	return int64(n + m), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Ciphertext) Domain() string {
	return "Paillier Ciphertext"
}
