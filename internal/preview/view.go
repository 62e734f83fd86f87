package preview

// Annotation pairs a block's source-position metadata with its visual row
// offset in the rendered view. The adapter turns these into position-cache
// entries.
type Annotation struct {
	SourcePos string
	RowOffset int
}

// View holds the rendered block list and a scroll position over its rows.
// The scroll offset is fractional: programmatic syncs set it directly from
// cached visual offsets and must not lose sub-row precision to rounding.
type View struct {
	blocks    []Block
	rowOffs   []int
	totalRows int

	height   int
	scroll   float64
	onScroll func()
}

// NewView creates an empty view.
func NewView(height int) *View {
	if height < 1 {
		height = 1
	}
	return &View{height: height}
}

// OnScroll registers a callback fired whenever the scroll offset changes,
// from any cause, programmatic scrolls included.
func (v *View) OnScroll(fn func()) {
	v.onScroll = fn
}

// SetBlocks replaces the rendered content and assigns each block its visual
// row offset. The scroll position is clamped to the new content; no scroll
// notification fires, a re-render is not a scroll.
func (v *View) SetBlocks(blocks []Block) {
	v.blocks = blocks
	v.rowOffs = v.rowOffs[:0]
	total := 0
	for _, b := range blocks {
		v.rowOffs = append(v.rowOffs, total)
		total += len(b.Rows)
	}
	v.totalRows = total
	v.scroll = v.clamp(v.scroll)
}

// SetHeight resizes the view.
func (v *View) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	v.height = h
	v.scroll = v.clamp(v.scroll)
}

// Height returns the view height in rows.
func (v *View) Height() int { return v.height }

// TotalRows returns the rendered row count.
func (v *View) TotalRows() int { return v.totalRows }

// ScrollOffset returns the current scroll offset in rows.
func (v *View) ScrollOffset() float64 { return v.scroll }

// SetScrollOffset scrolls to the given offset, clamped to the content.
// Returns true if the position changed.
func (v *View) SetScrollOffset(y float64) bool {
	y = v.clamp(y)
	if y == v.scroll {
		return false
	}
	v.scroll = y
	if v.onScroll != nil {
		v.onScroll()
	}
	return true
}

// ScrollBy scrolls by a row delta, clamped.
func (v *View) ScrollBy(dy float64) bool {
	return v.SetScrollOffset(v.scroll + dy)
}

// Annotations enumerates the rendered blocks carrying source-position
// metadata, in document order.
func (v *View) Annotations() []Annotation {
	anns := make([]Annotation, 0, len(v.blocks))
	for i, b := range v.blocks {
		if b.SourcePos == "" {
			continue
		}
		anns = append(anns, Annotation{SourcePos: b.SourcePos, RowOffset: v.rowOffs[i]})
	}
	return anns
}

// VisibleRows returns the rows in the current viewport, topmost first. Rows
// past the end of the content are omitted.
func (v *View) VisibleRows() []Row {
	top := int(v.scroll)
	rows := make([]Row, 0, v.height)
	for r := top; r < top+v.height && r < v.totalRows; r++ {
		rows = append(rows, v.rowAt(r))
	}
	return rows
}

// rowAt finds the block containing a global row index.
func (v *View) rowAt(row int) Row {
	// Linear scan from a binary-search start would be overkill: block
	// counts are small and VisibleRows walks sequentially anyway.
	for i := len(v.rowOffs) - 1; i >= 0; i-- {
		if v.rowOffs[i] <= row {
			rel := row - v.rowOffs[i]
			if rel < len(v.blocks[i].Rows) {
				return v.blocks[i].Rows[rel]
			}
			return Row{}
		}
	}
	return Row{}
}

func (v *View) clamp(y float64) float64 {
	max := float64(v.totalRows - v.height)
	if max < 0 {
		max = 0
	}
	if y > max {
		y = max
	}
	if y < 0 {
		y = 0
	}
	return y
}
