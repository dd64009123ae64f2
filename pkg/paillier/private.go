package paillier

import (
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
)

// PrivateKey is the decryption key matching a PublicKey.
//
// It holds λ = lcm(p-1, q-1) and μ = L(g^λ mod N²)⁻¹ mod N, but not the factors p and q.
// A PrivateKey is immutable, and safe for concurrent use.
type PrivateKey struct {
	pk *PublicKey
	// lambda = λ = lcm(p-1, q-1)
	lambda *big.Int
	// mu = μ = L(g^λ mod N²)⁻¹ mod N
	mu *big.Int
}

// NewPrivateKey rebuilds a private key from its public key and λ, recomputing μ.
//
// It fails with ErrInvalidKeyStructure if μ does not exist, or if the key fails to
// decrypt a test encryption.
func NewPrivateKey(pk *PublicKey, lambda *big.Int) (*PrivateKey, error) {
	if pk == nil || lambda == nil || lambda.Sign() <= 0 {
		return nil, fmt.Errorf("%w: λ must be positive", ErrInvalidKeyStructure)
	}
	k := pk.ops()
	// u = g^λ (mod N²)
	u := new(saferith.Nat).Exp(k.g, new(saferith.Nat).SetBig(lambda, lambda.BitLen()), k.nSquared)
	sk, err := newPrivateKey(pk, k, lambda, u)
	if err != nil {
		return nil, err
	}
	if err = sk.selfCheck(); err != nil {
		return nil, err
	}
	return sk, nil
}

// newPrivateKey computes μ = L(u)⁻¹ (mod N) where u = g^λ (mod N²).
func newPrivateKey(pk *PublicKey, k *keyOps, lambda *big.Int, u *saferith.Nat) (*PrivateKey, error) {
	l := k.l(u)
	l.Mod(l, k.n)
	if l.IsUnit(k.n) != 1 {
		return nil, fmt.Errorf("%w: L(g^λ mod N²) is not invertible mod N", ErrInvalidKeyStructure)
	}
	mu := new(saferith.Nat).ModInverse(l, k.n)
	return &PrivateKey{
		pk:     pk,
		lambda: new(big.Int).Set(lambda),
		mu:     mu.Big(),
	}, nil
}

// selfCheck decrypts a fixed encryption of 1 with nonce 2.
//
// A λ that is not a multiple of the Carmichael function of N yields a μ, but fails here
// with overwhelming probability.
func (sk *PrivateKey) selfCheck() error {
	ct, err := sk.pk.EncWithNonce(one, big.NewInt(2))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKeyStructure, err)
	}
	m, err := sk.Dec(ct)
	if err != nil || m.Cmp(one) != 0 {
		return fmt.Errorf("%w: λ does not decrypt", ErrInvalidKeyStructure)
	}
	return nil
}

// PublicKey returns the public key matching sk.
func (sk *PrivateKey) PublicKey() *PublicKey {
	return sk.pk
}

// Dec decrypts ct and returns the plaintext m ∈ [0, N).
//
// It returns an error if ct was produced under a different key, if ct is not in [0, N²),
// or if gcd(ct, N) ≠ 1.
//
// m = L(ct^λ mod N²)⋅μ (mod N)
func (sk *PrivateKey) Dec(ct *Ciphertext) (*big.Int, error) {
	if err := sk.pk.ValidateCiphertexts(ct); err != nil {
		return nil, fmt.Errorf("paillier: failed to decrypt: %w", err)
	}
	k := sk.pk.ops()
	lambda := new(saferith.Nat).SetBig(sk.lambda, sk.lambda.BitLen())
	mu := new(saferith.Nat).SetBig(sk.mu, k.n.BitLen())
	// u = ct^λ (mod N²)
	u := new(saferith.Nat).Exp(k.ciphertext(ct), lambda, k.nSquared)
	// m = L(u)⋅μ (mod N)
	m := k.l(u)
	m.ModMul(m, mu, k.n)
	return m.Big(), nil
}
