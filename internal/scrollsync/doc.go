// Package scrollsync implements the bidirectional scroll synchronization engine
// that keeps the source pane and the rendered preview pane scrolled to the
// same place.
//
// The two panes have incompatible coordinate systems: the editor thinks in
// character offsets, the preview in rendered row offsets. Each pane adapter
// resolves its own scroll position to a 1-based source line and reports it
// to the Coordinator; the Coordinator records a pending target for the other
// pane and flushes it on the next frame tick, so at most one programmatic
// scroll is applied per pane per frame regardless of how many reports
// arrived in between.
//
// Feedback loops are broken twice: the Coordinator drops reports from the
// non-active pane inside a short suppression window, and each adapter drops
// the first self-reported scroll after applying a programmatic one. Both are
// needed; the underlying view may deliver its scroll notification outside
// the window under load.
//
// Everything in this package runs on a single goroutine (the application
// event loop). The only concurrency is in delivery: frame ticks and preview
// scroll reports originate elsewhere and are serialized onto that goroutine
// by the caller.
package scrollsync
