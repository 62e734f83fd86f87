package editor

import (
	"github.com/dshills/mdpane/internal/scrollsync"
	"github.com/dshills/mdpane/internal/scrollsync/lineindex"
)

// ReportFunc forwards a resolved scroll position to the sync coordinator.
type ReportFunc func(from scrollsync.Pane, line int)

// Adapter is the editor-side pane adapter. It exclusively owns the source
// line index, rebuilding it on every content change, and translates between
// the coordinator's source lines and the view's character offsets.
type Adapter struct {
	view   *View
	index  *lineindex.Index
	report ReportFunc

	// suppressNext drops the next self-reported scroll after a programmatic
	// one. Local second line of defense behind the coordinator's
	// suppression window: the view's notification may arrive after the
	// window has passed.
	suppressNext bool
}

// NewAdapter wires an adapter to its view. The adapter subscribes to the
// view's scroll notifications.
func NewAdapter(view *View, report ReportFunc) *Adapter {
	a := &Adapter{
		view:   view,
		index:  lineindex.New(),
		report: report,
	}
	view.OnScroll(a.onViewScroll)
	return a
}

// OnContentChanged rebuilds the line index from the new document text.
// Called for wholesale replacement and for every edit; the index is never
// patched in place.
func (a *Adapter) OnContentChanged(text string) {
	a.index.Rebuild(text)
}

// ApplyScroll resolves the target source line to a character offset, forces
// layout for that offset, and scrolls the view to make it visible. The
// self-report suppression is armed first and disarmed again if the view did
// not actually move.
func (a *Adapter) ApplyScroll(line int) {
	off := a.index.OffsetForLine(line)
	a.suppressNext = true
	if !a.view.MakeOffsetVisible(off) {
		a.suppressNext = false
	}
}

// TopLine resolves the view's current visual top to a source line.
func (a *Adapter) TopLine() int {
	return a.index.LineForOffset(a.view.TopOffset())
}

// Index exposes the line index for components that need offset resolution
// (cursor movement, preview sourcepos mapping). Callers must not mutate it.
func (a *Adapter) Index() *lineindex.Index {
	return a.index
}

// onViewScroll handles a scroll notification from the view, dropping it
// when it is the echo of a programmatic scroll.
func (a *Adapter) onViewScroll() {
	if a.suppressNext {
		a.suppressNext = false
		return
	}
	line := a.TopLine()
	if line <= 0 {
		return
	}
	a.report(scrollsync.PaneEditor, line)
}
