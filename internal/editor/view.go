package editor

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// View is the text-layout side of the editor pane. It soft-wraps lines to
// the pane width and exposes the two capabilities the sync engine needs
// from a text-layout system: resolving the visual top to a character
// offset, and forcing layout for an offset to find its visual row.
//
// Layout is lazy: wrapped row counts are computed per line on demand and
// invalidated wholesale on content or width changes. Tabs render as a fixed
// run of spaces (tabWidth columns).
type View struct {
	lines      []string
	lineStarts []int

	width    int
	height   int
	wrap     bool
	tabWidth int

	topRow   int
	onScroll func()

	// rowStart[i] is the first visual row of line i; rowStart has laidOut+1
	// entries, the last being the running row total.
	rowStart []int
	laidOut  int
}

// NewView creates a view with wrapping enabled.
func NewView(width, height int) *View {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v := &View{
		width:    width,
		height:   height,
		wrap:     true,
		tabWidth: 4,
	}
	v.SetText("")
	return v
}

// SetWrap enables or disables soft wrapping. Unwrapped lines occupy one row
// and are truncated at the pane edge when drawn.
func (v *View) SetWrap(wrap bool) {
	if v.wrap == wrap {
		return
	}
	v.wrap = wrap
	v.invalidateLayout()
}

// SetTabWidth sets the tab render width in columns.
func (v *View) SetTabWidth(w int) {
	if w < 1 {
		w = 1
	}
	if v.tabWidth == w {
		return
	}
	v.tabWidth = w
	v.invalidateLayout()
}

// OnScroll registers a callback fired whenever the top row changes, from
// any cause. This mirrors toolkit scroll notifications: programmatic
// scrolls fire it too, which is exactly why the adapter carries a one-shot
// suppression flag.
func (v *View) OnScroll(fn func()) {
	v.onScroll = fn
}

// SetText replaces the view content and invalidates layout. The scroll
// position is clamped but no scroll notification fires; document
// replacement is not a scroll.
func (v *View) SetText(text string) {
	v.lines = strings.Split(text, "\n")
	v.lineStarts = v.lineStarts[:0]
	off := 0
	for _, line := range v.lines {
		v.lineStarts = append(v.lineStarts, off)
		off += len(line) + 1
	}
	v.invalidateLayout()
	v.topRow = v.clampRow(v.topRow)
}

// SetSize resizes the pane. Width changes invalidate layout.
func (v *View) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width != v.width {
		v.width = width
		v.invalidateLayout()
	}
	v.height = height
	v.topRow = v.clampRow(v.topRow)
}

// Width returns the pane width in columns.
func (v *View) Width() int { return v.width }

// Height returns the pane height in rows.
func (v *View) Height() int { return v.height }

// TopRow returns the first visible visual row.
func (v *View) TopRow() int { return v.topRow }

// TotalRows returns the total visual row count, forcing full layout.
func (v *View) TotalRows() int {
	v.ensureLaidOut(len(v.lines) - 1)
	return v.rowStart[len(v.lines)]
}

// ScrollTo scrolls so that row is the top visible row, clamped to the valid
// range. Returns true if the position changed.
func (v *View) ScrollTo(row int) bool {
	row = v.clampRow(row)
	if row == v.topRow {
		return false
	}
	v.topRow = row
	if v.onScroll != nil {
		v.onScroll()
	}
	return true
}

// ScrollBy scrolls by a row delta, clamped.
func (v *View) ScrollBy(delta int) bool {
	return v.ScrollTo(v.topRow + delta)
}

// TopOffset resolves the visual top-left of the view to the nearest
// character offset: the first byte of the topmost visible row segment.
func (v *View) TopOffset() int {
	row := v.clampRow(v.topRow)
	line := v.lineForRow(row)
	segs := v.segments(v.lines[line])
	seg := row - v.rowStart[line]
	if seg < 0 {
		seg = 0
	}
	if seg >= len(segs) {
		seg = len(segs) - 1
	}
	return v.lineStarts[line] + segs[seg][0]
}

// RowForOffset forces layout up to the line containing the byte offset and
// returns its visual row. Out-of-range offsets clamp to the document.
func (v *View) RowForOffset(off int) int {
	line, rel := v.locate(off)
	v.ensureLaidOut(line)
	segs := v.segments(v.lines[line])
	row := v.rowStart[line]
	for i, seg := range segs {
		if rel < seg[1] || i == len(segs)-1 {
			return row + i
		}
	}
	return row
}

// MakeOffsetVisible scrolls the minimum amount needed to bring the offset's
// row into view. Returns true if the view moved.
func (v *View) MakeOffsetVisible(off int) bool {
	row := v.RowForOffset(off)
	if row < v.topRow {
		return v.ScrollTo(row)
	}
	if row >= v.topRow+v.height {
		return v.ScrollTo(row - v.height + 1)
	}
	return false
}

// RowContent returns the tab-expanded text of a visual row, or "" for rows
// past the end of the document.
func (v *View) RowContent(row int) string {
	if row < 0 {
		return ""
	}
	total := v.TotalRows()
	if row >= total {
		return ""
	}
	line := v.lineForRow(row)
	segs := v.segments(v.lines[line])
	seg := row - v.rowStart[line]
	if seg < 0 || seg >= len(segs) {
		return ""
	}
	return v.expandTabs(v.lines[line][segs[seg][0]:segs[seg][1]])
}

// OffsetPosition returns the visual (row, column) of a byte offset, for
// cursor placement. The column accounts for tab expansion and wide runes.
func (v *View) OffsetPosition(off int) (row, col int) {
	line, rel := v.locate(off)
	v.ensureLaidOut(line)
	segs := v.segments(v.lines[line])
	row = v.rowStart[line]
	for i, seg := range segs {
		if rel < seg[1] || i == len(segs)-1 {
			row += i
			col = v.displayWidth(v.lines[line][seg[0]:min(rel, seg[1])])
			return row, col
		}
	}
	return row, 0
}

// locate maps a byte offset to (line index, offset within line), clamped.
func (v *View) locate(off int) (line, rel int) {
	if off < 0 {
		off = 0
	}
	i := sort.Search(len(v.lineStarts), func(i int) bool {
		return v.lineStarts[i] > off
	})
	line = i - 1
	if line < 0 {
		line = 0
	}
	rel = off - v.lineStarts[line]
	if rel > len(v.lines[line]) {
		rel = len(v.lines[line])
	}
	return line, rel
}

// lineForRow returns the line containing a visual row, forcing layout as
// far as needed.
func (v *View) lineForRow(row int) int {
	v.ensureLaidOut(len(v.lines) - 1)
	i := sort.Search(len(v.lines), func(i int) bool {
		return v.rowStart[i+1] > row
	})
	if i >= len(v.lines) {
		i = len(v.lines) - 1
	}
	return i
}

func (v *View) clampRow(row int) int {
	maxTop := v.TotalRows() - v.height
	if maxTop < 0 {
		maxTop = 0
	}
	if row > maxTop {
		row = maxTop
	}
	if row < 0 {
		row = 0
	}
	return row
}

func (v *View) invalidateLayout() {
	v.rowStart = append(v.rowStart[:0], 0)
	v.laidOut = 0
}

// ensureLaidOut extends the row table through the given line index.
func (v *View) ensureLaidOut(line int) {
	if line >= len(v.lines) {
		line = len(v.lines) - 1
	}
	for v.laidOut <= line {
		rows := len(v.segments(v.lines[v.laidOut]))
		v.rowStart = append(v.rowStart, v.rowStart[v.laidOut]+rows)
		v.laidOut++
	}
}

// segments returns the byte ranges of each wrapped visual row of a line.
// Every line has at least one segment, possibly empty.
func (v *View) segments(line string) [][2]int {
	if !v.wrap || line == "" {
		return [][2]int{{0, len(line)}}
	}

	var segs [][2]int
	start := 0
	col := 0
	for i, r := range line {
		w := v.runeWidth(r)
		if col+w > v.width && i > start {
			segs = append(segs, [2]int{start, i})
			start = i
			col = 0
		}
		col += w
	}
	segs = append(segs, [2]int{start, len(line)})
	return segs
}

func (v *View) runeWidth(r rune) int {
	if r == '\t' {
		return v.tabWidth
	}
	return runewidth.RuneWidth(r)
}

func (v *View) displayWidth(s string) int {
	w := 0
	for _, r := range s {
		w += v.runeWidth(r)
	}
	return w
}

func (v *View) expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", v.tabWidth))
}
