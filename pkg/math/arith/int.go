package arith

import "math/big"

// IsCoprime reports whether gcd(a, b) = 1.
func IsCoprime(a, b *big.Int) bool {
	gcd := new(big.Int).GCD(nil, nil, a, b)
	return gcd.IsInt64() && gcd.Int64() == 1
}

// LCM returns lcm(a, b) = a⋅b / gcd(a, b) for positive a, b.
func LCM(a, b *big.Int) *big.Int {
	gcd := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Div(a, gcd)
	return out.Mul(out, b)
}
