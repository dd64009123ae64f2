package paillier

import (
	"encoding"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

var (
	_ json.Marshaler             = (*PublicKey)(nil)
	_ json.Unmarshaler           = (*PublicKey)(nil)
	_ json.Marshaler             = (*PrivateKey)(nil)
	_ json.Unmarshaler           = (*PrivateKey)(nil)
	_ json.Marshaler             = (*Ciphertext)(nil)
	_ json.Unmarshaler           = (*Ciphertext)(nil)
	_ encoding.BinaryMarshaler   = (*PublicKey)(nil)
	_ encoding.BinaryUnmarshaler = (*PublicKey)(nil)
	_ encoding.BinaryMarshaler   = (*PrivateKey)(nil)
	_ encoding.BinaryUnmarshaler = (*PrivateKey)(nil)
	_ encoding.BinaryMarshaler   = (*Ciphertext)(nil)
	_ encoding.BinaryUnmarshaler = (*Ciphertext)(nil)
)

// JSON encodes integers as base 10 strings, fingerprints as hex.

type jsonPublicKey struct {
	N string `json:"n"`
}

type jsonPrivateKey struct {
	N      string `json:"n"`
	Lambda string `json:"lambda"`
}

type jsonCiphertext struct {
	C   string `json:"c"`
	Key string `json:"key"`
}

// CBOR encodes integers as big-endian byte strings.

type publicKeyMarshal struct {
	N []byte
}

type privateKeyMarshal struct {
	N, Lambda []byte
}

type ciphertextMarshal struct {
	C   []byte
	Key []byte
}

func parseDecimal(s, name string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("paillier: invalid %s %q", name, s)
	}
	return x, nil
}

func (pk *PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPublicKey{N: pk.n.String()})
}

func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var x jsonPublicKey
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	n, err := parseDecimal(x.N, "n")
	if err != nil {
		return err
	}
	return pk.setN(n)
}

func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&publicKeyMarshal{N: pk.n.Bytes()})
}

func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var x publicKeyMarshal
	if err := cbor.Unmarshal(data, &x); err != nil {
		return err
	}
	return pk.setN(new(big.Int).SetBytes(x.N))
}

func (pk *PublicKey) setN(n *big.Int) error {
	pkNew, err := NewPublicKey(n)
	if err != nil {
		return err
	}
	*pk = *pkNew
	return nil
}

func (sk *PrivateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPrivateKey{
		N:      sk.pk.n.String(),
		Lambda: sk.lambda.String(),
	})
}

func (sk *PrivateKey) UnmarshalJSON(data []byte) error {
	var x jsonPrivateKey
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	n, err := parseDecimal(x.N, "n")
	if err != nil {
		return err
	}
	lambda, err := parseDecimal(x.Lambda, "lambda")
	if err != nil {
		return err
	}
	return sk.set(n, lambda)
}

func (sk *PrivateKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&privateKeyMarshal{
		N:      sk.pk.n.Bytes(),
		Lambda: sk.lambda.Bytes(),
	})
}

func (sk *PrivateKey) UnmarshalBinary(data []byte) error {
	var x privateKeyMarshal
	if err := cbor.Unmarshal(data, &x); err != nil {
		return err
	}
	return sk.set(new(big.Int).SetBytes(x.N), new(big.Int).SetBytes(x.Lambda))
}

func (sk *PrivateKey) set(n, lambda *big.Int) error {
	pk, err := NewPublicKey(n)
	if err != nil {
		return err
	}
	skNew, err := NewPrivateKey(pk, lambda)
	if err != nil {
		return err
	}
	*sk = *skNew
	return nil
}

func (ct *Ciphertext) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonCiphertext{
		C:   ct.c.String(),
		Key: ct.key.String(),
	})
}

func (ct *Ciphertext) UnmarshalJSON(data []byte) error {
	var x jsonCiphertext
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	c, err := parseDecimal(x.C, "ciphertext")
	if err != nil {
		return err
	}
	key, err := hex.DecodeString(x.Key)
	if err != nil {
		return fmt.Errorf("paillier: invalid key fingerprint: %w", err)
	}
	return ct.set(c, key)
}

func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&ciphertextMarshal{
		C:   ct.c.Bytes(),
		Key: ct.key[:],
	})
}

func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	var x ciphertextMarshal
	if err := cbor.Unmarshal(data, &x); err != nil {
		return err
	}
	return ct.set(new(big.Int).SetBytes(x.C), x.Key)
}

func (ct *Ciphertext) set(c *big.Int, key []byte) error {
	if c.Sign() < 0 {
		return fmt.Errorf("%w: ciphertext must be non-negative", ErrOutOfRange)
	}
	if len(key) != len(ct.key) {
		return fmt.Errorf("paillier: key fingerprint must be %d bytes, got %d", len(ct.key), len(key))
	}
	ct.c = new(big.Int).Set(c)
	copy(ct.key[:], key)
	return nil
}
