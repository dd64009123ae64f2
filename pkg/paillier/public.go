package paillier

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/homomorphic-sum/internal/hash"
	"github.com/taurusgroup/homomorphic-sum/internal/params"
	"github.com/taurusgroup/homomorphic-sum/pkg/math/arith"
	"github.com/taurusgroup/homomorphic-sum/pkg/math/sample"
)

var one = big.NewInt(1)

// Fingerprint identifies a public key. Every ciphertext carries the fingerprint
// of the key it was produced under.
type Fingerprint [params.FingerprintBytes]byte

// String returns the hex encoding of f.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// PublicKey is a Paillier public key (N, g = N+1), with N² cached.
//
// A PublicKey is immutable, and safe for concurrent use.
type PublicKey struct {
	// n = p⋅q
	n *big.Int
	// nSquared = n²
	nSquared *big.Int
	// g = n + 1
	g           *big.Int
	fingerprint Fingerprint
}

// keyOps holds the values of a PublicKey as saferith types for a single operation.
//
// saferith resizes the limbs of its operands in place, moduli included, so a keyOps
// is built per call and never stored in the key.
type keyOps struct {
	n, nSquared *saferith.Modulus
	// nNat = n, used as exponent in ρᴺ
	nNat, g *saferith.Nat
}

func (pk *PublicKey) ops() *keyOps {
	return &keyOps{
		n:        saferith.ModulusFromBytes(pk.n.Bytes()),
		nSquared: saferith.ModulusFromBytes(pk.nSquared.Bytes()),
		nNat:     new(saferith.Nat).SetBig(pk.n, pk.n.BitLen()),
		g:        new(saferith.Nat).SetBig(pk.g, pk.g.BitLen()),
	}
}

// ciphertext returns c as a Nat sized for N². c must already be validated.
func (k *keyOps) ciphertext(ct *Ciphertext) *saferith.Nat {
	return new(saferith.Nat).SetBig(ct.c, k.nSquared.BitLen())
}

// l computes L(u) = (u - 1) / N. The division is exact when u ≡ 1 (mod N).
func (k *keyOps) l(u *saferith.Nat) *saferith.Nat {
	oneNat := new(saferith.Nat).SetUint64(1)
	out := new(saferith.Nat).Sub(u, oneNat, -1)
	return out.Div(out, k.n, -1)
}

// NewPublicKey returns the public key with modulus n.
//
// n must be odd and larger than 1. Nothing else can be checked without the factorization.
func NewPublicKey(n *big.Int) (*PublicKey, error) {
	if n == nil || n.Cmp(one) <= 0 || n.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: modulus must be odd and > 1", ErrInvalidKeyStructure)
	}
	return newPublicKey(n), nil
}

func newPublicKey(n *big.Int) *PublicKey {
	n = new(big.Int).Set(n)
	pk := &PublicKey{
		n:        n,
		nSquared: new(big.Int).Mul(n, n),
		g:        new(big.Int).Add(n, one),
	}
	h := hash.New("Paillier PublicKey")
	if err := h.WriteAny(n); err != nil {
		panic(fmt.Sprintf("paillier: fingerprint: %v", err))
	}
	copy(pk.fingerprint[:], h.Sum())
	return pk
}

// N returns a copy of the modulus N.
func (pk *PublicKey) N() *big.Int {
	return new(big.Int).Set(pk.n)
}

// NSquared returns a copy of N².
func (pk *PublicKey) NSquared() *big.Int {
	return new(big.Int).Set(pk.nSquared)
}

// G returns a copy of the generator g = N + 1.
func (pk *PublicKey) G() *big.Int {
	return new(big.Int).Set(pk.g)
}

// BitLen returns the size of N in bits.
func (pk *PublicKey) BitLen() int {
	return pk.n.BitLen()
}

// Fingerprint returns the blake3 fingerprint of N.
func (pk *PublicKey) Fingerprint() Fingerprint {
	return pk.fingerprint
}

// Equal returns true if pk = other.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return pk.n.Cmp(other.n) == 0
}

// plaintext converts m to a Nat after checking 0 ≤ m < N.
func (pk *PublicKey) plaintext(m *big.Int) (*saferith.Nat, error) {
	if m == nil || m.Sign() < 0 || m.Cmp(pk.n) >= 0 {
		return nil, fmt.Errorf("%w: plaintext must be in [0, N)", ErrOutOfRange)
	}
	return new(saferith.Nat).SetBig(m, pk.n.BitLen()), nil
}

// Enc returns the encryption of m under the public key pk, with a fresh nonce read from rand.
//
// ct = (1+N)ᵐρᴺ (mod N²)
func (pk *PublicKey) Enc(rand io.Reader, m *big.Int) (*Ciphertext, error) {
	mNat, err := pk.plaintext(m)
	if err != nil {
		return nil, err
	}
	k := pk.ops()
	nonce, err := sample.UnitModN(rand, k.n)
	if err != nil {
		return nil, fmt.Errorf("paillier: sample nonce: %w", err)
	}
	return pk.enc(k, mNat, nonce), nil
}

// EncWithNonce returns the encryption of m using the given nonce ρ ∈ ℤₙˣ.
//
// Reusing a nonce for two plaintexts leaks their difference, so this is only meant for
// callers that manage nonces themselves.
func (pk *PublicKey) EncWithNonce(m, nonce *big.Int) (*Ciphertext, error) {
	mNat, err := pk.plaintext(m)
	if err != nil {
		return nil, err
	}
	if nonce == nil || nonce.Sign() <= 0 || nonce.Cmp(pk.n) >= 0 {
		return nil, fmt.Errorf("%w: nonce must be in (0, N)", ErrOutOfRange)
	}
	if !arith.IsCoprime(nonce, pk.n) {
		return nil, ErrInvalidNonce
	}
	return pk.enc(pk.ops(), mNat, new(saferith.Nat).SetBig(nonce, pk.n.BitLen())), nil
}

func (pk *PublicKey) enc(k *keyOps, m, nonce *saferith.Nat) *Ciphertext {
	// gm = gᵐ (mod N²)
	gm := new(saferith.Nat).Exp(k.g, m, k.nSquared)
	// rn = ρᴺ (mod N²)
	rn := new(saferith.Nat).Exp(nonce, k.nNat, k.nSquared)
	return pk.wrap(gm.ModMul(gm, rn, k.nSquared))
}

// wrap turns the result of an operation into a Ciphertext bound to pk.
func (pk *PublicKey) wrap(c *saferith.Nat) *Ciphertext {
	return &Ciphertext{c: c.Big(), key: pk.fingerprint}
}

// Add returns the homomorphic sum ct₁ ⊕ ct₂, which decrypts to m₁ + m₂ (mod N).
// The inputs are not modified.
//
// ct = ct₁⋅ct₂ (mod N²)
func (pk *PublicKey) Add(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := pk.validate(ct1, ct2); err != nil {
		return nil, err
	}
	k := pk.ops()
	c := new(saferith.Nat).ModMul(k.ciphertext(ct1), k.ciphertext(ct2), k.nSquared)
	return pk.wrap(c), nil
}

// AddPlain returns a ciphertext decrypting to m + x (mod N), where m is the plaintext of ct.
// x may be any integer.
//
// ct' = ct⋅gˣ (mod N²)
func (pk *PublicKey) AddPlain(ct *Ciphertext, x *big.Int) (*Ciphertext, error) {
	if err := pk.validate(ct); err != nil {
		return nil, err
	}
	k := pk.ops()
	gx := new(saferith.Nat).Exp(k.g, pk.reduce(x), k.nSquared)
	return pk.wrap(gx.ModMul(gx, k.ciphertext(ct), k.nSquared)), nil
}

// MulPlain returns the homomorphic multiplication x ⊙ ct, which decrypts to x⋅m (mod N).
// x may be any integer.
//
// ct' = ctˣ (mod N²)
func (pk *PublicKey) MulPlain(ct *Ciphertext, x *big.Int) (*Ciphertext, error) {
	if err := pk.validate(ct); err != nil {
		return nil, err
	}
	k := pk.ops()
	return pk.wrap(new(saferith.Nat).Exp(k.ciphertext(ct), pk.reduce(x), k.nSquared)), nil
}

// Randomize returns ct⋅ρᴺ (mod N²) for a fresh ρ, an unlinkable ciphertext of the same plaintext.
func (pk *PublicKey) Randomize(rand io.Reader, ct *Ciphertext) (*Ciphertext, error) {
	if err := pk.validate(ct); err != nil {
		return nil, err
	}
	k := pk.ops()
	nonce, err := sample.UnitModN(rand, k.n)
	if err != nil {
		return nil, fmt.Errorf("paillier: sample nonce: %w", err)
	}
	rn := new(saferith.Nat).Exp(nonce, k.nNat, k.nSquared)
	return pk.wrap(rn.ModMul(rn, k.ciphertext(ct), k.nSquared)), nil
}

// NewCiphertext adopts the raw value c as a ciphertext under pk.
//
// Only c ≥ 0 is checked here, c < N² is checked whenever the ciphertext is used.
func (pk *PublicKey) NewCiphertext(c *big.Int) (*Ciphertext, error) {
	if c == nil || c.Sign() < 0 {
		return nil, fmt.Errorf("%w: ciphertext must be non-negative", ErrOutOfRange)
	}
	return &Ciphertext{c: new(big.Int).Set(c), key: pk.fingerprint}, nil
}

// ValidateCiphertexts checks that each ciphertext was produced under pk, lies in [0, N²)
// and is a unit mod N².
func (pk *PublicKey) ValidateCiphertexts(cts ...*Ciphertext) error {
	if err := pk.validate(cts...); err != nil {
		return err
	}
	for _, ct := range cts {
		// gcd(c, N²) = 1 iff gcd(c, N) = 1
		if !arith.IsCoprime(ct.c, pk.n) {
			return ErrInvalidCiphertext
		}
	}
	return nil
}

// validate checks key binding and range, not invertibility.
func (pk *PublicKey) validate(cts ...*Ciphertext) error {
	for _, ct := range cts {
		if ct == nil || ct.c == nil {
			return fmt.Errorf("%w: nil ciphertext", ErrOutOfRange)
		}
		if ct.key != pk.fingerprint {
			return ErrKeyMismatch
		}
		if ct.c.Sign() < 0 || ct.c.Cmp(pk.nSquared) >= 0 {
			return fmt.Errorf("%w: ciphertext must be in [0, N²)", ErrOutOfRange)
		}
	}
	return nil
}

// reduce returns x mod N as a Nat.
func (pk *PublicKey) reduce(x *big.Int) *saferith.Nat {
	xMod := new(big.Int)
	if x != nil {
		xMod.Mod(x, pk.n)
	}
	return new(saferith.Nat).SetBig(xMod, pk.n.BitLen())
}
