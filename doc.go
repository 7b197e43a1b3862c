// Package cptrie implements a compact, immutable Unicode code-point trie: a
// mapping from every code point in 0..=0x10FFFF to an application-defined
// value, together with a mutable builder that constructs a trie from
// arbitrary code-point assignments and compresses it via block sharing.
//
// The design mirrors the two-stage trie used by modern Unicode
// implementations (ICU's CodePointTrie is the best-known instance): a small
// index addresses fixed-size blocks in a packed data array, giving O(1)
// lookups: two array reads on the fast path, and four (five for an
// 18-bit-packed index3 group) on the three-level slow path.
// Construction goes through a [Builder], which owns one mutable slot per
// code point; [Builder.Build] freezes the builder into a [CodePointTrie] by
// finding a shared null block, deduplicating identical blocks, and
// overlapping adjacent blocks' tails and heads to shrink the packed data
// array.
//
// A frozen [CodePointTrie] is immutable and safe for concurrent readers.
// [Builder] is not safe for concurrent mutation; callers must serialize
// Set/SetRange/Build themselves.
package cptrie
