// Package lineindex maps character offsets in a plain-text document to
// 1-based line numbers and back.
//
// The index is a flat table of line-start offsets, rebuilt in full whenever
// the document content changes. Rebuilds are O(n) in the text length and
// lookups are O(log n), which keeps per-scroll resolution cheap even for
// large documents.
package lineindex

import "sort"

// Index is an ordered table of line-start offsets. Entry (line-1) holds the
// byte offset of the first character of that line. The table is strictly
// non-decreasing and entry 0 is always 0, so every document has at least
// one line.
//
// Index is owned by exactly one component (the editor pane adapter) and is
// not safe for concurrent use.
type Index struct {
	offsets []int
}

// New returns an index over the empty document (a single line at offset 0).
func New() *Index {
	return &Index{offsets: []int{0}}
}

// Rebuild replaces the table from a full scan of text. The previous table is
// discarded; the index is never patched incrementally.
func (ix *Index) Rebuild(text string) {
	// Reuse the backing array across rebuilds when possible.
	ix.offsets = ix.offsets[:0]
	ix.offsets = append(ix.offsets, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			ix.offsets = append(ix.offsets, i+1)
		}
	}
}

// LineForOffset returns the 1-based line containing the given byte offset.
// Any offset in [0, textLength] resolves to a valid line; negative offsets
// clamp to line 1 and offsets past the last line start resolve to the last
// line.
func (ix *Index) LineForOffset(off int) int {
	if len(ix.offsets) == 0 || off <= 0 {
		return 1
	}
	// Greatest i with offsets[i] <= off.
	i := sort.Search(len(ix.offsets), func(i int) bool {
		return ix.offsets[i] > off
	})
	return i // i-1 entries satisfy the predicate's complement; line = (i-1)+1
}

// OffsetForLine returns the byte offset of the start of the given 1-based
// line. Out-of-range lines are clamped, never rejected: sync targets are
// best-effort and a nearby position beats a refusal.
func (ix *Index) OffsetForLine(line int) int {
	if len(ix.offsets) == 0 {
		return 0
	}
	if line < 1 {
		line = 1
	}
	if line > len(ix.offsets) {
		line = len(ix.offsets)
	}
	return ix.offsets[line-1]
}

// LineCount returns the number of lines in the indexed document. The empty
// document has one line.
func (ix *Index) LineCount() int {
	if len(ix.offsets) == 0 {
		return 1
	}
	return len(ix.offsets)
}

// Offsets returns the underlying table. The slice is shared with the index
// and must not be mutated; it exists for diagnostics and tests.
func (ix *Index) Offsets() []int {
	return ix.offsets
}
