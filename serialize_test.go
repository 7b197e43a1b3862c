package cptrie

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleTrie(t *testing.T, width ValueWidth) *CodePointTrie {
	t.Helper()
	b := NewBuilder(0, 0xFFFF&width.max())
	require.NoError(t, b.SetRange(0x41, 0x5A, 1))
	require.NoError(t, b.SetRange(0x3040, 0x309F, 7))
	require.NoError(t, b.SetRange(0x1F600, 0x1F64F, 42))
	require.NoError(t, b.SetRange(0x30000, 0x10FFFF, 3))

	trie, err := b.Build(TrieTypeFast, width)
	require.NoError(t, err)
	return trie
}

func assertSameLookups(t *testing.T, a, b *CodePointTrie) {
	t.Helper()
	assert.Equal(t, a.Type(), b.Type())
	assert.Equal(t, a.ValueWidth(), b.ValueWidth())
	assert.Equal(t, a.HighStart(), b.HighStart())
	assert.Equal(t, a.HighValue(), b.HighValue())
	assert.Equal(t, a.ErrorValue(), b.ErrorValue())

	for cp := int32(0); cp <= maxCodePoint; cp += 101 {
		require.Equal(t, a.Get(rune(cp)), b.Get(rune(cp)), "cp=%#x", cp)
	}
	assert.Equal(t, a.Get(-1), b.Get(-1))
	assert.Equal(t, a.Get(0x110000), b.Get(0x110000))
}

func TestSerializeRoundTripLittleEndian(t *testing.T) {
	for _, width := range []ValueWidth{ValueWidth8, ValueWidth16, ValueWidth32} {
		trie := buildSampleTrie(t, width)
		buf := trie.Serialize(binary.LittleEndian)

		got, err := Deserialize(buf)
		require.NoError(t, err)
		assertSameLookups(t, trie, got)
	}
}

func TestSerializeRoundTripBigEndian(t *testing.T) {
	for _, width := range []ValueWidth{ValueWidth8, ValueWidth16, ValueWidth32} {
		trie := buildSampleTrie(t, width)
		buf := trie.Serialize(binary.BigEndian)

		got, err := Deserialize(buf)
		require.NoError(t, err)
		assertSameLookups(t, trie, got)
	}
}

func TestSerializeEndiannessIsInterchangeable(t *testing.T) {
	trie := buildSampleTrie(t, ValueWidth32)

	le := trie.Serialize(binary.LittleEndian)
	be := trie.Serialize(binary.BigEndian)

	fromLE, err := Deserialize(le)
	require.NoError(t, err)
	fromBE, err := Deserialize(be)
	require.NoError(t, err)

	assertSameLookups(t, fromLE, fromBE)
}

func TestDeserializeRejectsBadSignature(t *testing.T) {
	buf := make([]byte, headerSize)
	_, err := Deserialize(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDeserializeRejectsTruncatedHeader(t *testing.T) {
	_, err := Deserialize(make([]byte, 4))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDeserializeRejectsUnknownValueWidth(t *testing.T) {
	trie := buildSampleTrie(t, ValueWidth16)
	buf := trie.Serialize(binary.LittleEndian)

	// options low nibble 3 is not a defined ValueWidth.
	buf[4] = (buf[4] &^ 0xF) | 0x3

	_, err := Deserialize(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDeserializeRejectsReservedOptionBits(t *testing.T) {
	trie := buildSampleTrie(t, ValueWidth16)
	buf := trie.Serialize(binary.LittleEndian)

	buf[5] |= 0x01 // set a reserved high bit of the options field

	_, err := Deserialize(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDeserializeRejectsZeroIndexLength(t *testing.T) {
	trie := buildSampleTrie(t, ValueWidth16)
	buf := trie.Serialize(binary.LittleEndian)

	binary.LittleEndian.PutUint16(buf[6:8], 0)

	_, err := Deserialize(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDeserializeRejectsTruncatedBody(t *testing.T) {
	trie := buildSampleTrie(t, ValueWidth16)
	buf := trie.Serialize(binary.LittleEndian)

	_, err := Deserialize(buf[:len(buf)-1])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
