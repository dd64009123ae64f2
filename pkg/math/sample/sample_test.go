package sample

import (
	"errors"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/homomorphic-sum/internal/params"
	"github.com/taurusgroup/homomorphic-sum/pkg/entropy"
	"github.com/taurusgroup/homomorphic-sum/pkg/pool"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("no entropy")
}

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 100; i++ {
		x, err := ModN(entropy.Secure(), n)
		require.NoError(t, err)
		_, _, lt := x.CmpMod(n)
		assert.Equal(t, saferith.Choice(1), lt, "ModN generated a number >= %v: %v", n, x)
	}
}

func TestUnitModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 5 * 7)
	for i := 0; i < 100; i++ {
		u, err := UnitModN(entropy.Secure(), n)
		require.NoError(t, err)
		assert.Equal(t, saferith.Choice(1), u.IsUnit(n))
		gcd := new(big.Int).GCD(nil, nil, u.Big(), n.Big())
		assert.Equal(t, 0, gcd.Cmp(big.NewInt(1)))
	}
}

func TestModN_FailingReader(t *testing.T) {
	_, err := UnitModN(failingReader{}, saferith.ModulusFromUint64(101))
	assert.ErrorIs(t, err, ErrMaxIterations)
}

func TestPrime(t *testing.T) {
	for _, bits := range []int{2, 3, 8, 16, 64, 256} {
		p, err := Prime(entropy.Secure(), bits)
		require.NoError(t, err)
		assert.Equal(t, bits, p.BitLen(), "prime should have exactly %d bits", bits)
		assert.True(t, p.ProbablyPrime(params.PrimalityIterations), "Prime generated a non prime number: %v", p)
		if bits > 2 {
			assert.Equal(t, uint(1), p.Bit(0), "prime should be odd")
		}
		assert.Equal(t, uint(1), p.Bit(bits-2), "second top bit should be set")
	}
}

func TestPrime_Deterministic(t *testing.T) {
	p1, err := Prime(entropy.MustDeterministic("prime"), 128)
	require.NoError(t, err)
	p2, err := Prime(entropy.MustDeterministic("prime"), 128)
	require.NoError(t, err)
	assert.Equal(t, 0, p1.Cmp(p2))
}

func TestPrimes_Pool(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()
	primes, err := Primes(entropy.Secure(), 256, 4, pl)
	require.NoError(t, err)
	require.Len(t, primes, 4)
	for _, p := range primes {
		assert.Equal(t, 256, p.BitLen())
		assert.True(t, p.ProbablyPrime(params.PrimalityIterations))
	}
}

func TestPrime_Errors(t *testing.T) {
	_, err := Prime(entropy.Secure(), 1)
	assert.ErrorIs(t, err, ErrPrimeSize)

	_, err = Prime(failingReader{}, 64)
	assert.ErrorIs(t, err, ErrMaxPrimeIterations)
	assert.ErrorIs(t, err, pool.ErrBudgetExhausted)
}

func TestUsableTrialPrimes(t *testing.T) {
	assert.Empty(t, usableTrialPrimes(2))
	assert.Equal(t, []uint64{3, 5, 7, 11}, usableTrialPrimes(8))
	assert.Equal(t, trialPrimes, usableTrialPrimes(params.BitsPrime))
}

// This exists to save the results of functions we want to benchmark, to avoid
// having them optimized away.
var resultBig *big.Int

func BenchmarkPrime(b *testing.B) {
	for i := 0; i < b.N; i++ {
		resultBig, _ = Prime(entropy.Secure(), params.BitsPrime)
	}
}

var resultNat *saferith.Nat

func BenchmarkUnitModN(b *testing.B) {
	b.StopTimer()
	nBytes := make([]byte, params.BytesModulus)
	_, _ = entropy.Secure().Read(nBytes)
	nBytes[len(nBytes)-1] |= 1
	n := saferith.ModulusFromBytes(nBytes)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		resultNat, _ = UnitModN(entropy.Secure(), n)
	}
}
