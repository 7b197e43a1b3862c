package cptrie

import (
	"encoding/binary"
	"slices"
)

// Build freezes b into an immutable CodePointTrie of the given type and
// value width. This is the compaction pipeline described in spec section
// 4.4: find highStart, dedup/overlap-compact 64-entry data blocks, emit a
// three-level index with null-span elision and 18-bit packing for large
// offsets, append the two terminal entries, and validate the value width.
//
// On success the builder is left untouched and can be reused or discarded.
// On ErrValueTooLarge or ErrInternal, the builder is also left untouched:
// Build never partially mutates b.
func (b *Builder) Build(trieType TrieType, valueWidth ValueWidth) (*CodePointTrie, error) {
	if !trieType.valid() {
		return nil, formatErrorf("unknown trie type %d", trieType)
	}
	if !valueWidth.valid() {
		return nil, formatErrorf("unknown value width %d", valueWidth)
	}

	if err := validateWidth(b, valueWidth); err != nil {
		return nil, err
	}

	highStart, highValue := findHighStart(b.data)

	comp := newBlockCompactor()
	numBlocks := highStart / blockLength
	blockOffsets := make([]int32, numBlocks)
	for i := int32(0); i < numBlocks; i++ {
		block := b.data[i*blockLength : i*blockLength+blockLength]
		blockOffsets[i] = comp.addBlock(block, b.initialValue)
	}

	index, err := buildIndex(trieType, highStart, blockOffsets, comp.nullOffset)
	if err != nil {
		return nil, err
	}

	data := append(comp.compacted, highValue, b.errorValue)
	dataNullOffset := comp.nullOffset

	t := &CodePointTrie{
		trieType:           trieType,
		valueWidth:         valueWidth,
		index:              index,
		highStart:          highStart,
		highValue:          highValue,
		errorValue:         b.errorValue,
		index3NullOffset:   index3NullOffset,
		dataNullOffset:     dataNullOffset,
		shifted12HighStart: uint32(highStart) >> 12,
	}

	switch valueWidth {
	case ValueWidth8:
		t.data8 = make([]uint8, len(data))
		for i, v := range data {
			t.data8[i] = uint8(v)
		}
	case ValueWidth16:
		t.data16 = make([]uint16, len(data))
		for i, v := range data {
			t.data16[i] = uint16(v)
		}
	case ValueWidth32:
		t.data32 = make([]uint32, len(data))
		copy(t.data32, data)
	}

	return t, nil
}

// validateWidth checks every stored value (all code points plus errorValue)
// against the target width's maximum, without mutating the builder.
func validateWidth(b *Builder, width ValueWidth) error {
	max := width.max()
	for cp, v := range b.data {
		if v > max {
			return &ValueTooLargeError{CodePoint: int32(cp), Value: v, Width: width}
		}
	}
	if b.errorValue > max {
		return &ValueTooLargeError{CodePoint: -1, Value: b.errorValue, Width: width}
	}
	return nil
}

// findHighStart scans data from the top downward in highStartGranularity
// blocks, returning the smallest aligned highStart such that every code
// point in [highStart, 0x110000) maps to the same highValue (the value
// assigned to the very last code point).
func findHighStart(data []uint32) (int32, uint32) {
	highValue := data[maxCodePoint]
	highStart := codePointLimit

	for start := codePointLimit - highStartGranularity; start >= 0; start -= highStartGranularity {
		allSame := true
		for cp := start; cp < start+highStartGranularity; cp++ {
			if data[cp] != highValue {
				allSame = false
				break
			}
		}
		if !allSame {
			break
		}
		highStart = start
	}

	return highStart, highValue
}

// blockCompactor implements the greedy dedup + tail-overlap compaction
// described in spec section 4.4 step 2: identical blocks are shared
// outright (first-match-wins, via a fingerprint map so lookup is O(1)); the
// sole all-initialValue block is recorded once as the shared null block;
// otherwise the new block's head is overlapped with the compacted array's
// tail by the maximum amount in [0, blockLength]. This mirrors the
// find-existing/measure-overlap pair used by the CodePointWidthDetector
// trie generator, specialized to a single compaction pass with an explicit
// null-block fast path.
type blockCompactor struct {
	compacted  []uint32
	seen       map[string]int32
	nullOffset int32
}

func newBlockCompactor() *blockCompactor {
	return &blockCompactor{
		seen:       make(map[string]int32),
		nullOffset: noDataNullOffset,
	}
}

func (c *blockCompactor) addBlock(block []uint32, initialValue uint32) int32 {
	key := blockFingerprint(block)
	if off, ok := c.seen[key]; ok {
		return off
	}

	allNull := true
	for _, v := range block {
		if v != initialValue {
			allNull = false
			break
		}
	}

	if allNull && c.nullOffset != noDataNullOffset {
		c.seen[key] = c.nullOffset
		return c.nullOffset
	}

	overlap := int32(measureOverlap(c.compacted, block))
	off := int32(len(c.compacted)) - overlap
	c.compacted = append(c.compacted, block[overlap:]...)
	c.seen[key] = off

	if allNull {
		c.nullOffset = off
	}

	return off
}

// blockFingerprint renders a block of values as a byte string suitable for
// use as a map key, independent of the eventual serialized ValueWidth (the
// builder always works in uint32).
func blockFingerprint(block []uint32) string {
	buf := make([]byte, len(block)*4)
	for i, v := range block {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return string(buf)
}

// measureOverlap returns the largest k such that the last k entries of prev
// equal the first k entries of next.
func measureOverlap(prev, next []uint32) int {
	max := len(prev)
	if len(next) < max {
		max = len(next)
	}
	for overlap := max; overlap > 0; overlap-- {
		if slices.Equal(prev[len(prev)-overlap:], next[:overlap]) {
			return overlap
		}
	}
	return 0
}

// buildIndex emits the fast index plus the three-level slow-path index
// (index1 -> index2 -> index3 -> data block) described in spec section 4.1,
// eliding null index3 spans and packing any span containing a data offset
// beyond 0xFFFF into the 18-bit form from section 6.
func buildIndex(trieType TrieType, highStart int32, blockOffsets []int32, dataNullOffset int32) ([]uint16, error) {
	fastLen := trieType.fastIndexLength()
	fastLimit := trieType.fastLimit()
	fastBlocks := fastLimit / blockLength

	idx := make([]uint16, fastLen)
	for i := int32(0); i < fastBlocks && i < int32(len(blockOffsets)); i++ {
		if blockOffsets[i] > 0xFFFF {
			return nil, ErrInternal
		}
		idx[i] = uint16(blockOffsets[i])
	}

	i1Start := fastLimit >> shift1
	i1End := i1Start
	for i1End*cpPerIndex1Entry < highStart {
		i1End++
	}

	idx = append(idx, make([]uint16, i1End-i1Start)...)

	for i1 := i1Start; i1 < i1End; i1++ {
		index2BlockOffset := int32(len(idx))
		if index2BlockOffset > 0xFFFF {
			return nil, ErrInternal
		}
		idx = append(idx, make([]uint16, index2BlockLength)...)
		for i := range idx[index2BlockOffset : index2BlockOffset+index2BlockLength] {
			idx[index2BlockOffset+int32(i)] = index3NullOffset
		}
		idx[fastLen+(i1-i1Start)] = uint16(index2BlockOffset)

		for i2 := int32(0); i2 < index2BlockLength; i2++ {
			cp2Start := i1*cpPerIndex1Entry + i2*cpPerIndex2Entry
			if cp2Start >= highStart {
				break
			}

			var offsets [8]int32
			allNull := dataNullOffset != noDataNullOffset
			for k := int32(0); k < index3BlockLength; k++ {
				blockIdx := (cp2Start + k*blockLength) / blockLength
				offsets[k] = blockOffsets[blockIdx]
				if offsets[k] != dataNullOffset {
					allNull = false
				}
			}

			if allNull {
				idx[index2BlockOffset+i2] = index3NullOffset
				continue
			}

			needsPacking := false
			for _, o := range offsets {
				if o > 0xFFFF {
					needsPacking = true
				}
			}

			if !needsPacking {
				span := int32(len(idx))
				if span > int32(maxUnpackedIndex3Offset) {
					return nil, ErrInternal
				}
				idx = append(idx, make([]uint16, index3BlockLength)...)
				for k, o := range offsets {
					idx[span+int32(k)] = uint16(o)
				}
				idx[index2BlockOffset+i2] = uint16(span)
			} else {
				for _, o := range offsets {
					if o > 0x3FFFF {
						return nil, ErrInternal
					}
				}
				group := int32(len(idx))
				if group > 0x7FFF {
					return nil, ErrInternal
				}
				idx = append(idx, make([]uint16, index3BlockLength+1)...)
				var highSlot uint16
				for k, o := range offsets {
					idx[group+int32(k)] = uint16(uint32(o) & 0xFFFF)
					highSlot |= uint16((uint32(o)>>16)&0x3) << uint(2*k)
				}
				idx[group+index3BlockLength] = highSlot
				idx[index2BlockOffset+i2] = index3PackedFlag | uint16(group)
			}
		}
	}

	return idx, nil
}
