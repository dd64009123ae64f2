// Package paillier implements the Paillier cryptosystem with g = N+1.
//
// Encryption is randomized and additively homomorphic: multiplying two ciphertexts
// mod N² yields an encryption of the sum of their plaintexts mod N.
package paillier

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/homomorphic-sum/internal/params"
	"github.com/taurusgroup/homomorphic-sum/pkg/math/arith"
	"github.com/taurusgroup/homomorphic-sum/pkg/math/sample"
	"github.com/taurusgroup/homomorphic-sum/pkg/pool"
)

// maxKeyGenAttempts bounds the number of fresh prime pairs tried when a pair
// is rejected for its structure.
const maxKeyGenAttempts = 64

// ValidateBits checks that bits is a usable modulus size for KeyGen.
func ValidateBits(bits int) error {
	if bits%2 != 0 || bits < params.MinBitsToyModulus {
		return fmt.Errorf("%w: got %d", ErrInvalidBits, bits)
	}
	return nil
}

// KeyGen generates a new key pair whose modulus N has exactly bits bits.
//
// Primes are read from rand and searched on pl, which may be nil.
// Sizes below params.MinBitsModulus are accepted, and are only fit for tests.
func KeyGen(rand io.Reader, bits int, pl *pool.Pool) (*PublicKey, *PrivateKey, error) {
	if err := ValidateBits(bits); err != nil {
		return nil, nil, err
	}
	for i := 0; i < maxKeyGenAttempts; i++ {
		pk, sk, err := tryKeyGen(rand, bits, pl)
		if errors.Is(err, ErrInvalidKeyStructure) {
			continue
		}
		return pk, sk, err
	}
	return nil, nil, fmt.Errorf("%w: gave up after %d attempts", ErrInvalidKeyStructure, maxKeyGenAttempts)
}

// tryKeyGen derives a key pair from a single pair of fresh primes.
// p and q do not outlive this function.
func tryKeyGen(rand io.Reader, bits int, pl *pool.Pool) (*PublicKey, *PrivateKey, error) {
	primes, err := sample.Primes(rand, bits/2, 2, pl)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrPrimeGenerationExhausted, err)
	}
	p, q := primes[0], primes[1]
	if p.Cmp(q) == 0 {
		return nil, nil, fmt.Errorf("%w: p = q", ErrInvalidKeyStructure)
	}

	n := new(big.Int).Mul(p, q)
	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	phi := new(big.Int).Mul(pMinus1, qMinus1)
	if !arith.IsCoprime(n, phi) {
		return nil, nil, fmt.Errorf("%w: gcd(N, ϕ(N)) ≠ 1", ErrInvalidKeyStructure)
	}
	// λ = lcm(p-1, q-1)
	lambda := arith.LCM(pMinus1, qMinus1)

	pk := newPublicKey(n)
	k := pk.ops()

	// g^λ (mod N²), computed mod p² and q² while the factors are known
	lambdaNat := new(saferith.Nat).SetBig(lambda, lambda.BitLen())
	u := arith.SquaredCRT(p, q).Exp(k.g, lambdaNat)

	sk, err := newPrivateKey(pk, k, lambda, u)
	if err != nil {
		return nil, nil, err
	}
	return pk, sk, nil
}
