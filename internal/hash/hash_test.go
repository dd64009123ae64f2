package hash

import (
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_WriteAny(t *testing.T) {
	testFunc := func(vs ...interface{}) error {
		h := New("test")
		return h.WriteAny(vs...)
	}
	b := big.NewInt(35)
	n := new(saferith.Nat).SetBig(b, b.BitLen())
	m := saferith.ModulusFromBytes(b.Bytes())

	assert.NoError(t, testFunc(b, n, m))
	assert.NoError(t, testFunc([]byte{1, 4, 6}))
	assert.NoError(t, testFunc(BytesWithDomain{TheDomain: "x", Bytes: []byte{2}}))
	assert.Error(t, testFunc(big.NewInt(-1)))
	assert.Error(t, testFunc(42))
}

func TestHash_WriteAny_Domains(t *testing.T) {
	sum := func(vs ...interface{}) []byte {
		h := New("")
		require.NoError(t, h.WriteAny(vs...))
		return h.Sum()
	}
	b := big.NewInt(5)
	n := new(saferith.Nat).SetUint64(5)
	assert.NotEqual(t, sum([]byte{5}), sum(b), "same bytes under different types must hash differently")
	assert.NotEqual(t, sum(b), sum(n))
	assert.Equal(t, sum(b), sum(big.NewInt(5)))
}

func TestHash_Context(t *testing.T) {
	a := New("a")
	b := New("b")
	require.NoError(t, a.WriteAny([]byte{1}))
	require.NoError(t, b.WriteAny([]byte{1}))
	assert.NotEqual(t, a.Sum(), b.Sum())
	assert.Len(t, a.Sum(), DigestLengthBytes)
}

func TestHash_Clone(t *testing.T) {
	h := New("clone")
	require.NoError(t, h.WriteAny([]byte{7}))
	c := h.Clone()
	assert.Equal(t, h.Sum(), c.Sum())
	require.NoError(t, c.WriteAny([]byte{8}))
	assert.NotEqual(t, h.Sum(), c.Sum())
}

func TestHash_WriteAny_Framing(t *testing.T) {
	sum := func(vs ...interface{}) []byte {
		h := New("")
		require.NoError(t, h.WriteAny(vs...))
		return h.Sum()
	}
	// moving a byte across the boundary of two values changes the digest
	assert.NotEqual(t, sum([]byte{1, 2}, []byte{3}), sum([]byte{1}, []byte{2, 3}))
	assert.NotEqual(t, sum([]byte{}), sum())
}
