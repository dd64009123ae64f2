package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

// CRT evaluates exponentiations modulo m = a⋅b, with gcd(a, b) = 1, as two
// exponentiations modulo a and b recombined with the Chinese remainder theorem.
//
// A CRT holds the factorization of m, so it must not outlive the computation
// that needed it when the factors are secret.
type CRT struct {
	m, a, b *saferith.Modulus
	// aNat = a, aInv = a⁻¹ (mod b)
	aNat, aInv *saferith.Nat
}

// NewCRT prepares exponentiation modulo a⋅b. a and b must be coprime.
func NewCRT(a, b *saferith.Nat) *CRT {
	aMod := saferith.ModulusFromNat(a)
	bMod := saferith.ModulusFromNat(b)
	return &CRT{
		m:    saferith.ModulusFromNat(new(saferith.Nat).Mul(a, b, -1)),
		a:    aMod,
		b:    bMod,
		aNat: new(saferith.Nat).SetNat(a),
		aInv: new(saferith.Nat).ModInverse(a, bMod),
	}
}

// SquaredCRT returns the context for N² = p²⋅q², given distinct primes p and q.
func SquaredCRT(p, q *big.Int) *CRT {
	pSquared := new(big.Int).Mul(p, p)
	qSquared := new(big.Int).Mul(q, q)
	return NewCRT(
		new(saferith.Nat).SetBig(pSquared, pSquared.BitLen()),
		new(saferith.Nat).SetBig(qSquared, qSquared.BitLen()),
	)
}

// Modulus returns m = a⋅b.
func (c *CRT) Modulus() *saferith.Modulus {
	return c.m
}

// Exp returns xᵉ (mod m), the same value as (saferith.Nat).Exp(x, e, c.Modulus()).
func (c *CRT) Exp(x, e *saferith.Nat) *saferith.Nat {
	var xa, xb saferith.Nat
	xa.Exp(x, e, c.a) // x₁ = xᵉ (mod a)
	xb.Exp(x, e, c.b) // x₂ = xᵉ (mod b)
	// r = x₁ + a⋅[a⁻¹ (mod b)]⋅[x₂ - x₁] (mod m)
	r := xb.ModSub(&xb, &xa, c.m)
	r.ModMul(r, c.aInv, c.m)
	r.ModMul(r, c.aNat, c.m)
	return r.ModAdd(r, &xa, c.m)
}
