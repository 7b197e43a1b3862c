package cptrie

// CodePointTrie is an immutable mapping from every code point in
// 0..=0x10FFFF to an application-defined value. It is produced by
// [Builder.Build] or by [Deserialize], and is safe for concurrent use by
// multiple readers: nothing about a CodePointTrie's exported surface ever
// mutates its backing arrays.
//
// The zero value is not a valid CodePointTrie; always obtain one from Build
// or Deserialize.
type CodePointTrie struct {
	trieType   TrieType
	valueWidth ValueWidth

	index []uint16

	data8  []uint8
	data16 []uint16
	data32 []uint32

	highStart          int32
	highValue          uint32
	errorValue         uint32
	index3NullOffset   uint16
	dataNullOffset     int32
	shifted12HighStart uint32
}

// Type returns the TrieType the trie was built or deserialized with.
func (t *CodePointTrie) Type() TrieType { return t.trieType }

// ValueWidth returns the ValueWidth the trie was built or deserialized with.
func (t *CodePointTrie) ValueWidth() ValueWidth { return t.valueWidth }

// dataLen returns the number of entries in the packed data array, regardless
// of which width slice backs it.
func (t *CodePointTrie) dataLen() int32 {
	switch t.valueWidth {
	case ValueWidth8:
		return int32(len(t.data8))
	case ValueWidth16:
		return int32(len(t.data16))
	default:
		return int32(len(t.data32))
	}
}

// dataAt returns the value stored at the given index into the packed data
// array, widened to uint32.
func (t *CodePointTrie) dataAt(index int32) uint32 {
	switch t.valueWidth {
	case ValueWidth8:
		return uint32(t.data8[index])
	case ValueWidth16:
		return uint32(t.data16[index])
	default:
		return t.data32[index]
	}
}

// fastIndex resolves a code point known to be below the trie's fastLimit to
// a data index, via the single-level fast index.
func (t *CodePointTrie) fastIndex(cp int32) int32 {
	return int32(t.index[cp>>blockShift]) + (cp & blockMask)
}

// internalSmallIndex resolves a code point in [fastLimit, highStart) to a
// data index via the three-level slow path: index1 -> index2 -> index3 ->
// data block. Mirrors ucptrie.go's internalSmallIndex, generalized to the
// shift3=6/index3BlockLength=8 layout this package uses (see constants.go).
func (t *CodePointTrie) internalSmallIndex(cp int32) int32 {
	i1 := cp >> shift1

	if t.trieType == TrieTypeFast {
		i1 += fastIndexLengthFast - omittedBmpIndex1Length
	} else {
		i1 += fastIndexLengthSmall
	}

	i2 := int32(t.index[i1]) + ((cp >> shift2) & index2Mask)
	i3Block := t.index[i2]
	i3 := (cp >> shift3) & index3Mask

	if i3Block == index3NullOffset {
		return t.nullDataIndex() + (cp & blockMask)
	}

	var dataBlock int32
	if i3Block&index3PackedFlag == 0 {
		dataBlock = int32(t.index[int32(i3Block)+i3])
	} else {
		groupStart := int32(i3Block &^ index3PackedFlag)
		lowBits := t.index[groupStart+i3]
		highBits := (t.index[groupStart+8] >> uint(2*i3)) & 0x3
		dataBlock = int32(uint32(highBits)<<16 | uint32(lowBits))
	}

	return dataBlock + (cp & blockMask)
}

// nullDataIndex returns the data index to use when a slow-path lookup hits
// the shared null block, or 0 if no null block exists in this trie (no
// block below highStart is all initialValue). Build only writes
// index3NullOffset into the index when a null block exists.
func (t *CodePointTrie) nullDataIndex() int32 {
	if t.dataNullOffset == noDataNullOffset {
		return 0
	}
	return t.dataNullOffset
}

// dataIndex resolves any code point to a data index, including out-of-range
// ones (which resolve to the errorValue terminal entry). highStart is
// checked before fastLimit, since a trie with a small assigned range can
// have highStart below fastLimit (e.g. an all-initialValue builder freezes
// to highStart=0).
func (t *CodePointTrie) dataIndex(cp int32) int32 {
	if cp < 0 || cp > maxCodePoint {
		return t.dataLen() - errorValueNegDataOffset
	}
	if cp >= t.highStart {
		return t.dataLen() - highValueNegDataOffset
	}
	if cp < t.trieType.fastLimit() {
		return t.fastIndex(cp)
	}
	return t.internalSmallIndex(cp)
}

// Get returns the value associated with cp. Code points outside
// 0..=0x10FFFF return the trie's errorValue; this method never fails.
func (t *CodePointTrie) Get(cp rune) uint32 {
	return t.dataAt(t.dataIndex(int32(cp)))
}

// HighValue returns the value assigned to every code point in
// [HighStart(), 0x10FFFF].
func (t *CodePointTrie) HighValue() uint32 { return t.highValue }

// ErrorValue returns the value Get returns for out-of-range code points.
func (t *CodePointTrie) ErrorValue() uint32 { return t.errorValue }

// HighStart returns the first code point at and above which every code
// point maps to HighValue().
func (t *CodePointTrie) HighStart() int32 { return t.highStart }
