package cptrie

import (
	"encoding/binary"
)

// signature is the magic 4 bytes ("Tri3" in ASCII, big-endian) identifying a
// serialized CodePointTrie.
const signature uint32 = 0x54726933

const headerSize = 16

// noDataNullOffsetWire is the wire-format sentinel for "no shared null data
// block", stored in the 16-bit dataNullOffset header field. Spec section 6
// only reserves the low 16 bits of dataNullOffset for the header, so this
// package follows the same convention index3NullOffset already uses:
// 0xFFFF can never be a legitimate offset into a data array that always
// carries at least the two terminal entries below 0xFFFF in any trie worth
// serializing, so it is safe to repurpose as "absent".
const noDataNullOffsetWire uint16 = 0xFFFF

// Serialize encodes t into the bit-exact 16-byte-header format from spec
// section 6, using the given byte order. Pass binary.BigEndian or
// binary.LittleEndian; Deserialize auto-detects which was used.
func (t *CodePointTrie) Serialize(order binary.ByteOrder) []byte {
	dataLen := t.dataLen()

	options := uint16(t.valueWidth) & 0xF
	options |= (uint16(t.trieType) & 0xF) << 4

	dataNullField := noDataNullOffsetWire
	if t.dataNullOffset != noDataNullOffset {
		dataNullField = uint16(uint32(t.dataNullOffset) & 0xFFFF)
	}

	out := make([]byte, headerSize+len(t.index)*2+int(dataLen)*widthBytes(t.valueWidth))

	order.PutUint32(out[0:4], signature)
	order.PutUint16(out[4:6], options)
	order.PutUint16(out[6:8], uint16(len(t.index)))
	order.PutUint16(out[8:10], uint16(dataLen))
	order.PutUint16(out[10:12], t.index3NullOffset)
	order.PutUint16(out[12:14], dataNullField)
	order.PutUint16(out[14:16], uint16(t.shifted12HighStart))

	off := headerSize
	for _, v := range t.index {
		order.PutUint16(out[off:off+2], v)
		off += 2
	}

	switch t.valueWidth {
	case ValueWidth8:
		copy(out[off:], t.data8)
	case ValueWidth16:
		for _, v := range t.data16 {
			order.PutUint16(out[off:off+2], v)
			off += 2
		}
	case ValueWidth32:
		for _, v := range t.data32 {
			order.PutUint32(out[off:off+4], v)
			off += 4
		}
	}

	return out
}

// Deserialize decodes a byte stream produced by Serialize, in either byte
// order: it reads the signature as big-endian first, and if that mismatches
// the expected magic value it retries as little-endian, then decodes every
// multi-byte field in the order that matched.
func Deserialize(buf []byte) (*CodePointTrie, error) {
	if len(buf) < headerSize {
		return nil, formatErrorf("truncated header: need %d bytes, got %d", headerSize, len(buf))
	}

	order, err := detectByteOrder(buf)
	if err != nil {
		return nil, err
	}

	options := order.Uint16(buf[4:6])
	indexLength := order.Uint16(buf[6:8])
	dataLength := order.Uint16(buf[8:10])
	index3Null := order.Uint16(buf[10:12])
	dataNullField := order.Uint16(buf[12:14])
	shifted12HighStart := order.Uint16(buf[14:16])

	valueWidth := ValueWidth(options & 0xF)
	trieType := TrieType((options >> 4) & 0xF)
	reserved := options >> 8

	if !valueWidth.valid() {
		return nil, formatErrorf("unknown value width code %d", options&0xF)
	}
	if !trieType.valid() {
		return nil, formatErrorf("unknown trie type code %d", (options>>4)&0xF)
	}
	if reserved != 0 {
		return nil, formatErrorf("reserved options bits must be zero, got %#x", reserved)
	}
	if indexLength == 0 {
		return nil, formatErrorf("indexLength must be nonzero")
	}

	body := buf[headerSize:]
	need := int(indexLength)*2 + int(dataLength)*widthBytes(valueWidth)
	if len(body) < need {
		return nil, formatErrorf("truncated body: need %d bytes, got %d", need, len(body))
	}

	index := make([]uint16, indexLength)
	off := 0
	for i := range index {
		index[i] = order.Uint16(body[off : off+2])
		off += 2
	}

	t := &CodePointTrie{
		trieType:           trieType,
		valueWidth:         valueWidth,
		index:              index,
		index3NullOffset:   index3Null,
		shifted12HighStart: uint32(shifted12HighStart),
		highStart:          int32(shifted12HighStart) << 12,
	}

	if dataNullField == noDataNullOffsetWire {
		t.dataNullOffset = noDataNullOffset
	} else {
		t.dataNullOffset = int32(dataNullField)
	}

	switch valueWidth {
	case ValueWidth8:
		t.data8 = make([]uint8, dataLength)
		copy(t.data8, body[off:off+int(dataLength)])
	case ValueWidth16:
		t.data16 = make([]uint16, dataLength)
		for i := range t.data16 {
			t.data16[i] = order.Uint16(body[off : off+2])
			off += 2
		}
	case ValueWidth32:
		t.data32 = make([]uint32, dataLength)
		for i := range t.data32 {
			t.data32[i] = order.Uint32(body[off : off+4])
			off += 4
		}
	}

	if dataLength < 2 {
		return nil, formatErrorf("dataLength must hold at least the two terminal entries, got %d", dataLength)
	}

	t.highValue = t.dataAt(t.dataLen() - highValueNegDataOffset)
	t.errorValue = t.dataAt(t.dataLen() - errorValueNegDataOffset)

	return t, nil
}

// detectByteOrder tries binary.BigEndian first (the order the signature
// constant is written in, matching "Tri3" read as a big-endian uint32),
// falling back to binary.LittleEndian when the magic doesn't match.
func detectByteOrder(buf []byte) (binary.ByteOrder, error) {
	if binary.BigEndian.Uint32(buf[0:4]) == signature {
		return binary.BigEndian, nil
	}
	if binary.LittleEndian.Uint32(buf[0:4]) == signature {
		return binary.LittleEndian, nil
	}
	return nil, formatErrorf("bad signature %#x", buf[0:4])
}

func widthBytes(w ValueWidth) int {
	switch w {
	case ValueWidth8:
		return 1
	case ValueWidth16:
		return 2
	default:
		return 4
	}
}
