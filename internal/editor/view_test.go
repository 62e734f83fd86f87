package editor

import (
	"strings"
	"testing"
)

func TestViewRowLayoutNoWrapNeeded(t *testing.T) {
	v := NewView(20, 5)
	v.SetText("one\ntwo\nthree")

	if got := v.TotalRows(); got != 3 {
		t.Errorf("TotalRows() = %d, want 3", got)
	}
	if got := v.RowContent(1); got != "two" {
		t.Errorf("RowContent(1) = %q, want %q", got, "two")
	}
}

func TestViewSoftWrap(t *testing.T) {
	v := NewView(4, 5)
	v.SetText("abcdefghij\nxy")

	// 10 chars at width 4 wrap into 3 rows, plus one row for "xy".
	if got := v.TotalRows(); got != 4 {
		t.Errorf("TotalRows() = %d, want 4", got)
	}
	wantRows := []string{"abcd", "efgh", "ij", "xy"}
	for i, want := range wantRows {
		if got := v.RowContent(i); got != want {
			t.Errorf("RowContent(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestViewWrapDisabled(t *testing.T) {
	v := NewView(4, 5)
	v.SetText("abcdefghij\nxy")
	v.SetWrap(false)

	if got := v.TotalRows(); got != 2 {
		t.Errorf("TotalRows() = %d, want 2", got)
	}
}

func TestViewScrollClamps(t *testing.T) {
	v := NewView(10, 3)
	v.SetText("a\nb\nc\nd\ne\nf")

	if moved := v.ScrollTo(100); !moved {
		t.Error("ScrollTo(100) should move")
	}
	if got := v.TopRow(); got != 3 { // 6 rows, height 3
		t.Errorf("TopRow() = %d, want 3", got)
	}

	if moved := v.ScrollTo(-5); !moved {
		t.Error("ScrollTo(-5) should move back to 0")
	}
	if got := v.TopRow(); got != 0 {
		t.Errorf("TopRow() = %d, want 0", got)
	}

	if moved := v.ScrollTo(0); moved {
		t.Error("ScrollTo to current position should not report movement")
	}
}

func TestViewScrollNotification(t *testing.T) {
	v := NewView(10, 3)
	v.SetText("a\nb\nc\nd\ne\nf")

	var fired int
	v.OnScroll(func() { fired++ })

	v.ScrollBy(2)
	if fired != 1 {
		t.Errorf("fired = %d after ScrollBy, want 1", fired)
	}

	v.ScrollBy(0)
	if fired != 1 {
		t.Errorf("fired = %d after no-op scroll, want 1", fired)
	}
}

func TestViewTopOffset(t *testing.T) {
	v := NewView(10, 2)
	v.SetText("abc\ndef\nghi")

	if got := v.TopOffset(); got != 0 {
		t.Errorf("TopOffset() = %d, want 0", got)
	}

	v.ScrollTo(1)
	if got := v.TopOffset(); got != 4 {
		t.Errorf("TopOffset() after scroll = %d, want 4", got)
	}
}

func TestViewTopOffsetWrappedSegment(t *testing.T) {
	v := NewView(4, 2)
	v.SetText("abcdefghij")

	v.ScrollTo(1)
	// Second wrapped segment of the single line starts at byte 4.
	if got := v.TopOffset(); got != 4 {
		t.Errorf("TopOffset() = %d, want 4", got)
	}
}

func TestViewRowForOffset(t *testing.T) {
	v := NewView(4, 5)
	v.SetText("abcdefghij\nxy")

	tests := []struct {
		off  int
		want int
	}{
		{0, 0},
		{3, 0},
		{4, 1},
		{9, 2},
		{10, 2}, // end of first line
		{11, 3}, // start of "xy"
		{999, 3},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := v.RowForOffset(tt.off); got != tt.want {
			t.Errorf("RowForOffset(%d) = %d, want %d", tt.off, got, tt.want)
		}
	}
}

func TestViewMakeOffsetVisible(t *testing.T) {
	v := NewView(10, 2)
	v.SetText("a\nb\nc\nd\ne\nf")

	// Offset of line "e" (row 4) is below the viewport.
	if moved := v.MakeOffsetVisible(8); !moved {
		t.Error("MakeOffsetVisible below viewport should scroll")
	}
	if got := v.TopRow(); got != 3 {
		t.Errorf("TopRow() = %d, want 3", got)
	}

	// Already visible: no movement.
	if moved := v.MakeOffsetVisible(8); moved {
		t.Error("MakeOffsetVisible of visible offset should not scroll")
	}

	// Offset of line "a" (row 0) is above.
	if moved := v.MakeOffsetVisible(0); !moved {
		t.Error("MakeOffsetVisible above viewport should scroll")
	}
	if got := v.TopRow(); got != 0 {
		t.Errorf("TopRow() = %d, want 0", got)
	}
}

func TestViewResizeRelayout(t *testing.T) {
	v := NewView(10, 5)
	v.SetText(strings.Repeat("x", 20))

	if got := v.TotalRows(); got != 2 {
		t.Fatalf("TotalRows() = %d, want 2", got)
	}

	v.SetSize(5, 5)
	if got := v.TotalRows(); got != 4 {
		t.Errorf("TotalRows() after resize = %d, want 4", got)
	}
}

func TestViewOffsetPosition(t *testing.T) {
	v := NewView(4, 5)
	v.SetText("abcdefghij")

	row, col := v.OffsetPosition(6)
	if row != 1 || col != 2 {
		t.Errorf("OffsetPosition(6) = (%d, %d), want (1, 2)", row, col)
	}
}

func TestViewTabExpansion(t *testing.T) {
	v := NewView(20, 5)
	v.SetText("\tx")

	if got := v.RowContent(0); got != "    x" {
		t.Errorf("RowContent(0) = %q, want %q", got, "    x")
	}

	_, col := v.OffsetPosition(1)
	if col != 4 {
		t.Errorf("OffsetPosition(1) col = %d, want 4", col)
	}
}
