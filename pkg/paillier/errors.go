package paillier

import "errors"

var (
	// ErrOutOfRange is returned when a plaintext is not in [0, N), a ciphertext is not in [0, N²),
	// or a nonce is not in (0, N).
	ErrOutOfRange = errors.New("paillier: value out of range")
	// ErrPrimeGenerationExhausted is returned when the prime search ran out of attempts.
	ErrPrimeGenerationExhausted = errors.New("paillier: prime generation exhausted")
	// ErrInvalidKeyStructure reports primes or key material that do not satisfy gcd(N, ϕ(N)) = 1,
	// or for which μ does not exist. Key generation retries on it.
	ErrInvalidKeyStructure = errors.New("paillier: invalid key structure")
	// ErrKeyMismatch is returned when a ciphertext is used with a key other than the one it was created under.
	ErrKeyMismatch = errors.New("paillier: ciphertext belongs to a different public key")
	// ErrInvalidCiphertext is returned for ciphertexts that are not units mod N².
	ErrInvalidCiphertext = errors.New("paillier: ciphertext is not invertible mod N²")
	// ErrInvalidNonce is returned for nonces ρ with gcd(ρ, N) ≠ 1.
	ErrInvalidNonce = errors.New("paillier: nonce is not invertible mod N")
	// ErrInvalidBits is returned for a modulus size that is odd or too small.
	ErrInvalidBits = errors.New("paillier: modulus size must be even and at least 16 bits")
)
