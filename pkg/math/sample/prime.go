package sample

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/taurusgroup/homomorphic-sum/internal/params"
	"github.com/taurusgroup/homomorphic-sum/pkg/pool"
)

// trialPrimes contains the odd primes below 775.
var trialPrimes = []uint64{
	3, 5, 7, 11, 13, 17, 19, 23,
	29, 31, 37, 41, 43, 47, 53, 59,
	61, 67, 71, 73, 79, 83, 89, 97,
	101, 103, 107, 109, 113, 127, 131, 137,
	139, 149, 151, 157, 163, 167, 173, 179,
	181, 191, 193, 197, 199, 211, 223, 227,
	229, 233, 239, 241, 251, 257, 263, 269,
	271, 277, 281, 283, 293, 307, 311, 313,
	317, 331, 337, 347, 349, 353, 359, 367,
	373, 379, 383, 389, 397, 401, 409, 419,
	421, 431, 433, 439, 443, 449, 457, 461,
	463, 467, 479, 487, 491, 499, 503, 509,
	521, 523, 541, 547, 557, 563, 569, 571,
	577, 587, 593, 599, 601, 607, 613, 617,
	619, 631, 641, 643, 647, 653, 659, 661,
	673, 677, 683, 691, 701, 709, 719, 727,
	733, 739, 743, 751, 757, 761, 769, 773,
}

// windowSize is how far past a random starting point we look for a prime.
const windowSize = 1 << 20

// maxPrimeIterations is the number of random starting points tried per requested prime.
const maxPrimeIterations = 1_000

// ErrMaxPrimeIterations is the error we return when we fail to generate a prime.
var ErrMaxPrimeIterations = fmt.Errorf("sample: failed to generate prime after %d iterations", maxPrimeIterations)

var ErrPrimeSize = errors.New("sample: prime size must be at least 2 bits")

// usableTrialPrimes returns the prefix of trialPrimes whose squares lie below 2ᵇⁱᵗˢ⁻¹.
//
// A candidate of exactly bits bits is then strictly larger than every trial prime,
// so divisibility by one of them proves it composite.
func usableTrialPrimes(bits int) []uint64 {
	if bits > 20 {
		return trialPrimes
	}
	bound := uint64(1) << uint(bits-1)
	i := 0
	for i < len(trialPrimes) && trialPrimes[i]*trialPrimes[i] < bound {
		i++
	}
	return trialPrimes[:i]
}

// tryPrime picks a random odd starting point of exactly bits bits, and returns the
// first probable prime in the window following it.
//
// It returns false if reading randomness failed, or if the window ran past bits bits.
//
// Scanning a window is much cheaper than drawing a fresh candidate per test, but the
// output is not uniform: a prime is returned with probability proportional to the gap
// below it, so primes following large gaps are favoured.
func tryPrime(rand io.Reader, bits int) (*big.Int, bool) {
	// The number of significant bits in the first byte of our number
	lastBits := uint(bits % 8)
	if lastBits == 0 {
		lastBits = 8
	}
	bytes := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(rand, bytes); err != nil {
		return nil, false
	}

	// Clear bits in the first byte to make sure the candidate has a size <= bits.
	bytes[0] &= uint8(int(1<<lastBits) - 1)
	// Set the two most significant bits, so that the product of two such primes
	// has exactly twice as many bits.
	if lastBits >= 2 {
		bytes[0] |= 0b11 << (lastBits - 2)
	} else {
		bytes[0] |= 1
		if len(bytes) > 1 {
			bytes[1] |= 0b1000_0000
		}
	}
	// odd
	bytes[len(bytes)-1] |= 1

	base := new(big.Int).SetBytes(bytes)

	primes := usableTrialPrimes(bits)
	mods := make([]uint64, len(primes))
	scratch := new(big.Int)
	for i, prime := range primes {
		scratch.SetUint64(prime)
		mods[i] = scratch.Mod(base, scratch).Uint64()
	}

	p := new(big.Int)
NextDelta:
	for delta := uint64(0); delta < windowSize; delta += 2 {
		for i, prime := range primes {
			if (mods[i]+delta)%prime == 0 {
				continue NextDelta
			}
		}
		scratch.SetUint64(delta)
		p.Add(base, scratch)
		if p.BitLen() != bits {
			return nil, false
		}
		if p.ProbablyPrime(params.PrimalityIterations) {
			return p, true
		}
	}
	return nil, false
}

// Prime returns a random prime of exactly bits bits, whose two top bits are set.
//
// The distribution carries the bias of the window search described on tryPrime.
func Prime(rand io.Reader, bits int) (*big.Int, error) {
	primes, err := Primes(rand, bits, 1, nil)
	if err != nil {
		return nil, err
	}
	return primes[0], nil
}

// Primes returns count random primes of exactly bits bits, searching on pl.
//
// The primes are not guaranteed to be distinct.
func Primes(rand io.Reader, bits, count int, pl *pool.Pool) ([]*big.Int, error) {
	if bits < 2 {
		return nil, ErrPrimeSize
	}
	if pl != nil {
		rand = pool.NewLockedReader(rand)
	}
	primes, err := pool.Search(pl, count, count*maxPrimeIterations, func() (*big.Int, bool) {
		return tryPrime(rand, bits)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMaxPrimeIterations, err)
	}
	return primes, nil
}
