package cptrie

// ValueFilter maps a raw stored value to a comparison value before equality
// testing in GetRange. A nil filter compares raw values directly.
type ValueFilter func(value uint32) uint32

// Range describes a maximal contiguous run of code points that share the
// same (optionally filtered) value.
type Range struct {
	Start int32
	End   int32
	Value uint32
}

// GetRange returns the maximal contiguous range starting at start whose
// code points all map to the same value (after applying filter, if
// non-nil). It returns false if start is outside 0..=0x10FFFF.
//
// Callers iterate the whole code point space by re-seeding start with
// prevRange.End+1 until GetRange returns false (which only happens once
// start itself falls out of range, e.g. after a range ending at
// 0x10FFFF). See ForEachRange for this iteration pattern already wired up.
func (t *CodePointTrie) GetRange(start int32, filter ValueFilter) (Range, bool) {
	if start < 0 || start > maxCodePoint {
		return Range{}, false
	}

	if start >= t.highStart {
		return Range{Start: start, End: maxCodePoint, Value: applyFilter(filter, t.highValue)}, true
	}

	value := applyFilter(filter, t.Get(rune(start)))

	// Blocks are 64-entry-aligned on both the fast and slow paths (both use
	// cp&blockMask as the low bits of the data index), and fastLimit /
	// highStart are always block-aligned too, so a block never straddles
	// either boundary. That lets us walk one block at a time, reading
	// contiguous data-array entries directly instead of re-resolving the
	// index for every code point.
	cp := start
	for cp < t.highStart {
		blockEnd := (cp &^ blockMask) + blockMask
		if blockEnd >= t.highStart {
			blockEnd = t.highStart - 1
		}

		dataIdx := t.dataIndex(cp)
		for i := int32(0); cp+i <= blockEnd; i++ {
			v := applyFilter(filter, t.dataAt(dataIdx+i))
			if v != value {
				return Range{Start: start, End: cp + i - 1, Value: value}, true
			}
		}

		cp = blockEnd + 1
	}

	// Reached highStart with the run still intact; extend into the high
	// tail if the values still agree.
	if applyFilter(filter, t.highValue) == value {
		return Range{Start: start, End: maxCodePoint, Value: value}, true
	}
	return Range{Start: start, End: cp - 1, Value: value}, true
}

// ForEachRange walks the code point space from start to 0x10FFFF, calling fn
// once per maximal range as produced by GetRange. Iteration stops early if
// fn returns false.
func ForEachRange(t *CodePointTrie, start int32, filter ValueFilter, fn func(Range) bool) {
	for start <= maxCodePoint {
		r, ok := t.GetRange(start, filter)
		if !ok {
			return
		}
		if !fn(r) {
			return
		}
		if r.End == maxCodePoint {
			return
		}
		start = r.End + 1
	}
}

func applyFilter(filter ValueFilter, value uint32) uint32 {
	if filter == nil {
		return value
	}
	return filter(value)
}
