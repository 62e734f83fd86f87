package preview

import (
	"testing"

	"github.com/dshills/mdpane/internal/scrollsync"
)

// testBlocks builds three annotated blocks of the given row heights
// (including their margin rows), mirroring renderer output.
func testBlocks() []Block {
	return []Block{
		{Kind: KindHeading, SourcePos: "1:1-1:7", Rows: make([]Row, 2)},
		{Kind: KindParagraph, SourcePos: "5:1-8:20", Rows: make([]Row, 4)},
		{Kind: KindCode, SourcePos: "10:1-14:3", Rows: make([]Row, 6)},
	}
}

func newTestPreview(height int) (*Adapter, *View, *scrollsync.ReportQueue, *[]int) {
	v := NewView(height)
	q := scrollsync.NewReportQueue(8)
	reported := &[]int{}
	a := NewAdapter(v, q, func(_ scrollsync.Pane, line int) {
		*reported = append(*reported, line)
	})
	v.SetBlocks(testBlocks())
	a.RebuildCache()
	return a, v, q, reported
}

func TestViewRowOffsets(t *testing.T) {
	v := NewView(4)
	v.SetBlocks(testBlocks())

	anns := v.Annotations()
	if len(anns) != 3 {
		t.Fatalf("annotations = %d, want 3", len(anns))
	}
	wantOffs := []int{0, 2, 6}
	for i, want := range wantOffs {
		if anns[i].RowOffset != want {
			t.Errorf("annotation %d offset = %d, want %d", i, anns[i].RowOffset, want)
		}
	}
	if got := v.TotalRows(); got != 12 {
		t.Errorf("TotalRows() = %d, want 12", got)
	}
}

func TestViewScrollClampsAndNotifies(t *testing.T) {
	v := NewView(4)
	v.SetBlocks(testBlocks())

	var fired int
	v.OnScroll(func() { fired++ })

	if !v.SetScrollOffset(100) {
		t.Error("scroll past end should clamp and move")
	}
	if got := v.ScrollOffset(); got != 8 { // 12 rows - height 4
		t.Errorf("ScrollOffset() = %v, want 8", got)
	}
	if v.SetScrollOffset(8) {
		t.Error("no-op scroll should not report movement")
	}
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestAdapterPublishesResolvedLines(t *testing.T) {
	_, v, q, _ := newTestPreview(4)

	v.SetScrollOffset(3) // inside the paragraph block (rows 2..5)

	select {
	case line := <-q.C():
		if line != 5 {
			t.Errorf("published line = %d, want 5", line)
		}
	default:
		t.Fatal("no report published for user scroll")
	}
}

func TestAdapterApplyScrollDirect(t *testing.T) {
	a, v, q, _ := newTestPreview(4)

	a.ApplyScroll(12) // snaps to the code block entry at row 6

	if got := v.ScrollOffset(); got != 6 {
		t.Errorf("ScrollOffset() = %v, want 6", got)
	}
	// The programmatic scroll must not publish an echo report.
	select {
	case line := <-q.C():
		t.Errorf("echo published line %d, want none", line)
	default:
	}
}

func TestAdapterApplyScrollEmptyCacheNoop(t *testing.T) {
	v := NewView(4)
	q := scrollsync.NewReportQueue(8)
	a := NewAdapter(v, q, func(scrollsync.Pane, int) {})
	// No blocks, no cache: rendering not ready.
	a.RebuildCache()

	a.ApplyScroll(7)
	if got := v.ScrollOffset(); got != 0 {
		t.Errorf("ScrollOffset() = %v, want 0 (no-op)", got)
	}
}

func TestAdapterApplyScrollNoMovementDisarms(t *testing.T) {
	a, v, q, _ := newTestPreview(4)

	a.ApplyScroll(1) // row 0 is already the current position

	// The next genuine scroll must still be published.
	v.SetScrollOffset(7)
	select {
	case line := <-q.C():
		if line != 10 {
			t.Errorf("published line = %d, want 10", line)
		}
	default:
		t.Fatal("genuine scroll after no-op apply was swallowed")
	}
}

func TestAdapterHandleReportForwards(t *testing.T) {
	a, _, _, reported := newTestPreview(4)

	a.HandleReport(9)
	if len(*reported) != 1 || (*reported)[0] != 9 {
		t.Errorf("reported = %v, want [9]", *reported)
	}
}

func TestAdapterCacheLagsUntilRebuild(t *testing.T) {
	a, v, q, _ := newTestPreview(4)

	// Content reflows: code block doubles in height. Until RebuildCache the
	// adapter answers from the stale table.
	blocks := testBlocks()
	blocks[1].Rows = make([]Row, 8)
	v.SetBlocks(blocks)

	a.ApplyScroll(10)
	if got := v.ScrollOffset(); got != 6 {
		t.Errorf("stale cache ScrollOffset() = %v, want 6", got)
	}

	a.RebuildCache()
	a.ApplyScroll(10)
	if got := v.ScrollOffset(); got != 10 {
		t.Errorf("rebuilt cache ScrollOffset() = %v, want 10", got)
	}

	// Drain anything the clamped scrolls published.
	for {
		select {
		case <-q.C():
			continue
		default:
		}
		break
	}
}
