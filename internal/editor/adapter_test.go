package editor

import (
	"testing"

	"github.com/dshills/mdpane/internal/scrollsync"
)

type reportRec struct {
	from  []scrollsync.Pane
	lines []int
}

func (r *reportRec) report(from scrollsync.Pane, line int) {
	r.from = append(r.from, from)
	r.lines = append(r.lines, line)
}

func newTestAdapter(text string, width, height int) (*Adapter, *View, *reportRec) {
	v := NewView(width, height)
	rec := &reportRec{}
	a := NewAdapter(v, rec.report)
	v.SetText(text)
	a.OnContentChanged(text)
	return a, v, rec
}

func TestAdapterReportsUserScroll(t *testing.T) {
	_, v, rec := newTestAdapter("a\nb\nc\nd\ne\nf", 10, 2)

	v.ScrollTo(3)

	if len(rec.lines) != 1 || rec.lines[0] != 4 {
		t.Errorf("reported lines = %v, want [4]", rec.lines)
	}
	if rec.from[0] != scrollsync.PaneEditor {
		t.Errorf("reported pane = %v, want editor", rec.from[0])
	}
}

func TestAdapterApplyScrollSuppressesEcho(t *testing.T) {
	a, v, rec := newTestAdapter("a\nb\nc\nd\ne\nf", 10, 2)

	a.ApplyScroll(5)

	if got := v.TopRow(); got != 3 {
		t.Errorf("TopRow() = %d, want 3", got)
	}
	// The programmatic scroll's own notification must not be reported.
	if len(rec.lines) != 0 {
		t.Errorf("reported lines = %v, want none (echo suppressed)", rec.lines)
	}

	// The next genuine user scroll is reported again.
	v.ScrollTo(0)
	if len(rec.lines) != 1 || rec.lines[0] != 1 {
		t.Errorf("reported lines = %v, want [1]", rec.lines)
	}
}

func TestAdapterApplyScrollNoMovementDisarms(t *testing.T) {
	a, v, rec := newTestAdapter("a\nb\nc\nd\ne\nf", 10, 2)

	// Line 1 is already visible: ApplyScroll must not leave the suppression
	// flag armed, or it would eat the next genuine report.
	a.ApplyScroll(1)

	v.ScrollTo(2)
	if len(rec.lines) != 1 || rec.lines[0] != 3 {
		t.Errorf("reported lines = %v, want [3]", rec.lines)
	}
}

func TestAdapterApplyScrollClampsLine(t *testing.T) {
	a, v, _ := newTestAdapter("a\nb\nc\nd\ne\nf", 10, 2)

	a.ApplyScroll(999)
	if got := v.TopRow(); got != 4 {
		t.Errorf("TopRow() = %d, want 4 (clamped to last line)", got)
	}

	a.ApplyScroll(-7)
	if got := v.TopRow(); got != 0 {
		t.Errorf("TopRow() = %d, want 0 (clamped to first line)", got)
	}
}

func TestAdapterContentChangeRebuildsIndex(t *testing.T) {
	a, v, rec := newTestAdapter("a\nb\nc\nd\ne\nf", 10, 2)

	text := "first\nsecond"
	v.SetText(text)
	a.OnContentChanged(text)

	v.ScrollTo(1)
	if len(rec.lines) != 1 || rec.lines[0] != 2 {
		t.Errorf("reported lines = %v, want [2] after rebuild", rec.lines)
	}
}

func TestAdapterTopLineWrapped(t *testing.T) {
	a, v, _ := newTestAdapter("abcdefghij\nxy", 4, 2)

	// Scrolling into the middle of a wrapped line still resolves to that
	// line, not the next one.
	v.ScrollTo(1)
	if got := a.TopLine(); got != 1 {
		t.Errorf("TopLine() = %d, want 1", got)
	}

	v.ScrollTo(3)
	if got := a.TopLine(); got != 2 {
		t.Errorf("TopLine() = %d, want 2", got)
	}
}

func TestBufferNotifiesOnChange(t *testing.T) {
	b := NewBuffer()

	var changes int
	b.OnChange(func() { changes++ })

	b.SetText("hello world")
	b.Insert(5, ",")
	b.Delete(0, 2)

	if changes != 3 {
		t.Errorf("changes = %d, want 3", changes)
	}
	if got := b.Text(); got != "llo, world" {
		t.Errorf("Text() = %q, want %q", got, "llo, world")
	}
}

func TestBufferClampsRanges(t *testing.T) {
	b := NewBuffer()
	b.SetText("abc")

	b.Insert(100, "!")
	if got := b.Text(); got != "abc!" {
		t.Errorf("Text() = %q, want %q", got, "abc!")
	}

	b.Insert(-5, ">")
	if got := b.Text(); got != ">abc!" {
		t.Errorf("Text() = %q, want %q", got, ">abc!")
	}

	b.Delete(3, 100)
	if got := b.Text(); got != ">ab" {
		t.Errorf("Text() = %q, want %q", got, ">ab")
	}

	var changes int
	b.OnChange(func() { changes++ })
	b.Delete(2, 1) // inverted range: no-op, no notification
	b.Insert(0, "")
	if changes != 0 {
		t.Errorf("changes = %d for no-op mutations, want 0", changes)
	}
}
