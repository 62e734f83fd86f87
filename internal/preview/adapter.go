package preview

import (
	"github.com/dshills/mdpane/internal/scrollsync"
	"github.com/dshills/mdpane/internal/scrollsync/poscache"
)

// ReportFunc forwards a resolved scroll position to the sync coordinator.
type ReportFunc func(from scrollsync.Pane, line int)

// Adapter is the preview-side pane adapter. It exclusively owns the
// rendered position cache, rebuilding it after every render and reflow, and
// translates between the coordinator's source lines and the view's visual
// offsets.
//
// User scrolls are not reported synchronously: the resolved line is
// published to a ReportQueue and the application loop forwards it to the
// coordinator, preserving the engine's single-threaded model no matter
// where the view's notifications come from.
type Adapter struct {
	view   *View
	cache  *poscache.Cache
	queue  *scrollsync.ReportQueue
	report ReportFunc

	// suppressNext drops the next self-notified scroll after a programmatic
	// one; see the editor adapter for why the coordinator's window alone is
	// not enough.
	suppressNext bool
}

// NewAdapter wires an adapter to its view and report queue.
func NewAdapter(view *View, queue *scrollsync.ReportQueue, report ReportFunc) *Adapter {
	a := &Adapter{
		view:   view,
		cache:  poscache.New(),
		queue:  queue,
		report: report,
	}
	view.OnScroll(a.onViewScroll)
	return a
}

// RebuildCache re-derives the position cache from the view's current
// annotations. Called after every render and after reflow-causing changes
// (resize); between calls the cache may lag the layout by one cycle, which
// the engine tolerates.
func (a *Adapter) RebuildCache() {
	anns := a.view.Annotations()
	entries := make([]poscache.Entry, 0, len(anns))
	for _, ann := range anns {
		line, ok := poscache.ParseSourcePos(ann.SourcePos)
		if !ok {
			continue
		}
		entries = append(entries, poscache.Entry{Line: line, Offset: float64(ann.RowOffset)})
	}
	a.cache.Rebuild(entries)
}

// ApplyScroll resolves the target source line to a cached visual offset and
// sets the view's scroll position directly. With no cache entry (rendering
// not ready) this is a no-op. The offset comes straight from the cache;
// there is deliberately no query-then-scroll round trip.
func (a *Adapter) ApplyScroll(line int) {
	off, ok := a.cache.OffsetForLine(line)
	if !ok {
		return
	}
	a.suppressNext = true
	if !a.view.SetScrollOffset(off) {
		a.suppressNext = false
	}
}

// HandleReport forwards a queued scroll report to the coordinator. Called
// by the application loop when it drains the report queue.
func (a *Adapter) HandleReport(line int) {
	a.report(scrollsync.PanePreview, line)
}

// onViewScroll resolves a scroll notification to a source line and
// publishes it, unless it is the echo of a programmatic scroll or the cache
// cannot resolve a line (sentinel 0).
func (a *Adapter) onViewScroll() {
	if a.suppressNext {
		a.suppressNext = false
		return
	}
	line := a.cache.LineForOffset(a.view.ScrollOffset())
	if line <= 0 {
		return
	}
	a.queue.Publish(line)
}
