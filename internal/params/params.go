package params

const (
	SecParam = 128
	SecBytes = SecParam / 8

	// BitsModulus is the default size of a Paillier modulus N.
	BitsModulus = 2048
	// MinBitsModulus is the smallest modulus accepted as a configuration value.
	// Anything smaller is only usable as a toy key in tests.
	MinBitsModulus = 512
	// MinBitsToyModulus is the smallest modulus key generation will produce at all.
	MinBitsToyModulus = 16

	BitsPrime = BitsModulus / 2 // = 1024

	BytesModulus    = BitsModulus / 8  // = 256
	BytesCiphertext = 2 * BytesModulus // = 512

	// PrimalityIterations is the number of Miller-Rabin rounds applied to a candidate prime.
	// Each round has error at most 1/4, so 64 rounds bound the error by 2^-SecParam.
	PrimalityIterations = SecParam / 2

	// FingerprintBytes is the length of a public key fingerprint.
	FingerprintBytes = 2 * SecBytes // = 32
)
