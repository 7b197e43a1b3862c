package cptrie

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactionAllInitialValue(t *testing.T) {
	b := NewBuilder(0x55, 0xAA)
	trie, err := b.Build(TrieTypeFast, ValueWidth16)
	require.NoError(t, err)

	assert.LessOrEqual(t, trie.dataLen(), blockLength+4)
	assert.Equal(t, int32(0), trie.HighStart())
}

func TestOverlapCompaction(t *testing.T) {
	b := NewBuilder(0, 0)

	// Block 0 (cp 0..63): entries 32..63 are 9.
	require.NoError(t, b.SetRange(32, 63, 9))
	// Block 1 (cp 64..127): entries 64..95 repeat the same value 9, so the
	// trailing half of block 0 and the leading half of block 1 overlap.
	require.NoError(t, b.SetRange(64, 95, 9))

	trie, err := b.Build(TrieTypeFast, ValueWidth16)
	require.NoError(t, err)

	// Blocks 2..63 are all initialValue, so the shared null block is stored
	// too. Without overlap sharing the three distinct blocks would need 192
	// entries (plus the terminals); block 1 overlaps block 0 by 32 and the
	// null block overlaps block 1's zero tail by 32, so it needs at most 128.
	assert.LessOrEqual(t, trie.dataLen(), 2*blockLength+4)

	assert.Equal(t, uint32(0), trie.Get(31))
	assert.Equal(t, uint32(9), trie.Get(32))
	assert.Equal(t, uint32(9), trie.Get(95))
	assert.Equal(t, uint32(0), trie.Get(96))
}

func TestDuplicateBlockSharing(t *testing.T) {
	b := NewBuilder(0, 0)
	require.NoError(t, b.SetRange(0, 63, 5))
	require.NoError(t, b.SetRange(1000*64, 1000*64+63, 5))

	trie, err := b.Build(TrieTypeFast, ValueWidth16)
	require.NoError(t, err)

	// The two identical (5-filled) blocks must share a single stored copy,
	// and every null block in between collapses to one shared null block:
	// at most one copy of each distinct block content, plus terminals.
	assert.LessOrEqual(t, trie.dataLen(), 2*blockLength+4)
}

func TestIdempotentFreeze(t *testing.T) {
	build := func() *Builder {
		b := NewBuilder(0, 0xFF)
		_ = b.SetRange(0x41, 0x5A, 1)
		_ = b.SetRange(0x10000, 0x100FF, 2)
		_ = b.Set(0x10FFFF, 3)
		return b
	}

	t1, err := build().Build(TrieTypeFast, ValueWidth16)
	require.NoError(t, err)
	t2, err := build().Build(TrieTypeFast, ValueWidth16)
	require.NoError(t, err)

	assert.Equal(t, t1.Serialize(binary.BigEndian), t2.Serialize(binary.BigEndian))
}

func TestBuildBothTrieTypesAgree(t *testing.T) {
	b := NewBuilder(0, 0)
	require.NoError(t, b.SetRange(0x100, 0x2FFF, 11))
	require.NoError(t, b.SetRange(0x20000, 0x20500, 22))

	fast, err := b.Build(TrieTypeFast, ValueWidth32)
	require.NoError(t, err)
	small, err := b.Build(TrieTypeSmall, ValueWidth32)
	require.NoError(t, err)

	for cp := int32(0); cp <= maxCodePoint; cp += 91 {
		assert.Equal(t, fast.Get(rune(cp)), small.Get(rune(cp)), "cp=%#x", cp)
	}
}

func TestBuildRequiresPackedIndex3(t *testing.T) {
	// Force many distinct, non-shareable blocks above the fast range so at
	// least one index3 span needs the 18-bit packed form.
	b := NewBuilder(0, 0)
	for block := int32(0); block < 4000; block++ {
		start := bmpLimit + block*blockLength
		end := start + blockLength - 1
		if end > maxCodePoint {
			break
		}
		// Vary the value per block and salt one entry so blocks can't
		// dedupe or overlap with each other.
		require.NoError(t, b.SetRange(rune(start), rune(end), uint32(block+1)))
		require.NoError(t, b.Set(rune(start), uint32(block+1)+0x1000000))
	}

	trie, err := b.Build(TrieTypeFast, ValueWidth32)
	require.NoError(t, err)

	for block := int32(0); block < 50; block++ {
		start := bmpLimit + block*blockLength
		assert.Equal(t, uint32(block+1)+0x1000000, trie.Get(rune(start)))
		assert.Equal(t, uint32(block+1), trie.Get(rune(start+1)))
	}
}
