// Package poscache maps rendered visual offsets to originating source lines
// and back.
//
// The cache is a flat table of (source line, visual offset) pairs recorded in
// document order during a render pass. It is rebuilt after every render and
// after any reflow-causing mutation; between rebuilds it may lag the true
// layout by one cycle, and callers are expected to tolerate that.
package poscache

import (
	"sort"
	"strconv"
	"strings"
)

// epsilon absorbs sub-pixel and rounding noise when resolving a visual
// offset back to a line.
const epsilon = 2.0

// Entry is one annotated rendered element: the source line that produced it
// and its visual offset in the rendered view.
type Entry struct {
	Line   int
	Offset float64
}

// Cache holds the ordered entry table. Lines may repeat or skip but are
// non-decreasing; offsets are non-decreasing. Owned by exactly one component
// (the preview pane adapter); not safe for concurrent use.
type Cache struct {
	entries []Entry
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{}
}

// Rebuild replaces the table with the given entries, assumed to be in
// document order. Document order is assumed to be non-decreasing in visual
// offset; if an out-of-order pair is observed the table is sorted by offset
// as a correctness fallback.
func (c *Cache) Rebuild(entries []Entry) {
	c.entries = c.entries[:0]
	c.entries = append(c.entries, entries...)

	sorted := true
	for i := 1; i < len(c.entries); i++ {
		if c.entries[i].Offset < c.entries[i-1].Offset {
			sorted = false
			break
		}
	}
	if !sorted {
		sort.SliceStable(c.entries, func(i, j int) bool {
			return c.entries[i].Offset < c.entries[j].Offset
		})
	}
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.entries = c.entries[:0]
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// LineForOffset returns the source line of the last entry whose visual
// offset is <= y+epsilon, or 0 when no entry qualifies. Negative offsets are
// invalid input and also resolve to 0. 0 is a sentinel meaning "no line
// resolved", never a valid line.
func (c *Cache) LineForOffset(y float64) int {
	if len(c.entries) == 0 || y < 0 {
		return 0
	}
	i := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].Offset > y+epsilon
	})
	if i == 0 {
		return 0
	}
	return c.entries[i-1].Line
}

// OffsetForLine returns the visual offset of the last entry whose line is
// <= targetLine. It snaps to the nearest preceding annotated element rather
// than interpolating: rendered elements are sparse relative to source lines,
// and the preceding element is the one that actually contains the target.
// The second return is false when the cache is empty or every entry starts
// after targetLine.
func (c *Cache) OffsetForLine(targetLine int) (float64, bool) {
	if len(c.entries) == 0 {
		return 0, false
	}
	i := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].Line > targetLine
	})
	if i == 0 {
		return 0, false
	}
	return c.entries[i-1].Offset, true
}

// ParseSourcePos extracts the starting line from a renderer source-position
// annotation of the form "startLine:startCol-endLine:endCol". Only the
// starting line is consumed. Returns ok=false for malformed annotations or
// non-positive lines.
func ParseSourcePos(s string) (startLine int, ok bool) {
	colon := strings.IndexByte(s, ':')
	if colon <= 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:colon])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// FormatSourcePos renders a source-position annotation in the form consumed
// by ParseSourcePos.
func FormatSourcePos(startLine, startCol, endLine, endCol int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(startLine))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(startCol))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(endLine))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(endCol))
	return b.String()
}
