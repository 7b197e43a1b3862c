package cptrie

// Internal layout constants shared by the runtime trie, the builder, and the
// freeze pipeline. The shift values are chosen to match spec section 4.1's
// three-level slow path description: shift1=14, shift2=9, shift3=6, giving a
// uniform 64-entry block everywhere (instead of the variable fast/small block
// split some CodePointTrie implementations use) and an 8-entry index3 span
// that lines up exactly with the 18-bit packed group described in section 6.
const (
	// maxCodePoint is the highest code point in the Unicode range.
	maxCodePoint int32 = 0x10FFFF

	// codePointLimit is one past maxCodePoint, and also the size of the
	// Builder's flat data array.
	codePointLimit int32 = 0x110000

	// blockShift / blockLength describe the 64-entry compaction unit used
	// for both the fast index and the slow-path data blocks.
	blockShift  int32 = 6
	blockLength int32 = 1 << blockShift
	blockMask   int32 = blockLength - 1

	// bmpLimit is the fast limit for TrieTypeFast: code points below this
	// resolve via a single index lookup.
	bmpLimit int32 = 0x10000

	// smallLimit is the fast limit for TrieTypeSmall.
	smallLimit int32 = 0x1000

	// fastIndexLength{Fast,Small} are the lengths of the fixed-size fast
	// index arrays for each TrieType.
	fastIndexLengthFast  int32 = bmpLimit >> blockShift
	fastIndexLengthSmall int32 = smallLimit >> blockShift

	// shift1/shift2/shift3 govern the three-level slow path.
	shift3 int32 = blockShift // 6
	shift2 int32 = 9
	shift1 int32 = 14

	shift2Minus3 = shift2 - shift3 // 3: index3BlockLength = 1<<3 = 8
	shift1Minus2 = shift1 - shift2 // 5: index2BlockLength = 1<<5 = 32

	index3BlockLength int32 = 1 << shift2Minus3
	index3Mask        int32 = index3BlockLength - 1

	index2BlockLength int32 = 1 << shift1Minus2
	index2Mask        int32 = index2BlockLength - 1

	// cpPerIndex2Entry / cpPerIndex1Entry are the code-point spans covered
	// by one index2 entry (one index3 span of index3BlockLength data
	// blocks) and by one index1 entry (one full index2 block).
	cpPerIndex2Entry int32 = index3BlockLength * blockLength // 512
	cpPerIndex1Entry int32 = index2BlockLength * cpPerIndex2Entry // 16384

	// omittedBmpIndex1Length is the number of leading index1 slots elided
	// from storage for TrieTypeFast, since every code point they would
	// address is already resolved by the fast index.
	omittedBmpIndex1Length int32 = bmpLimit / cpPerIndex1Entry

	// highStartGranularity is the alignment boundary used when scanning
	// for highStart during freeze.
	highStartGranularity int32 = 0x1000

	// index3PackedFlag marks an index2 entry as referencing a 9-slot
	// 18-bit-packed index3 group rather than an 8-slot unpacked span.
	index3PackedFlag uint16 = 0x8000

	// index3NullOffset is the sentinel index2-entry value meaning "every
	// code point in this span maps to the shared null data block".
	index3NullOffset uint16 = 0x7FFF

	// maxUnpackedIndex3Offset bounds plain (non-null, non-packed) index3
	// offsets so they never collide with index3PackedFlag or
	// index3NullOffset.
	maxUnpackedIndex3Offset uint16 = index3NullOffset - 1

	// highValueNegDataOffset / errorValueNegDataOffset locate the two
	// terminal data entries (relative to the end of the data array)
	// appended by freeze: data[len-2] = highValue, data[len-1] = errorValue.
	highValueNegDataOffset int32 = 2
	errorValueNegDataOffset int32 = 1

	// noDataNullOffset marks the absence of a shared null data block.
	noDataNullOffset int32 = -1
)
