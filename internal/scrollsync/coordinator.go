package scrollsync

import "time"

// DefaultSuppressionWindow is how long reports from the non-active pane are
// treated as echo after a sync is issued. 50ms is long enough to catch the
// echo from a just-issued programmatic scroll and short enough not to eat
// genuine rapid back-and-forth user scrolling.
const DefaultSuppressionWindow = 50 * time.Millisecond

// Coordinator owns all cross-pane sync state: which pane is active, the
// echo-suppression deadline, and one pending target line per direction.
// Reports between frame ticks are coalesced last-write-wins; each tick
// applies at most one scroll per pane and stops the clock once both
// directions are idle.
//
// All methods must be called from the same goroutine.
type Coordinator struct {
	clock  FrameClock
	window time.Duration
	now    func() time.Time

	editor  Adapter
	preview Adapter

	active         Pane
	suppressUntil  time.Time
	pendingEditor  int
	pendingPreview int

	stats Stats
}

// Stats counts coordinator activity since creation or the last Reset.
type Stats struct {
	// ReportsAccepted is the number of reports recorded as pending targets.
	ReportsAccepted uint64
	// EchoesDropped is the number of reports dropped by the suppression window.
	EchoesDropped uint64
	// InvalidDropped is the number of reports dropped for a non-positive line.
	InvalidDropped uint64
	// ScrollsApplied is the number of ApplyScroll calls issued to adapters.
	ScrollsApplied uint64
	// Coalesced is the number of pending targets overwritten before a flush.
	Coalesced uint64
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSuppressionWindow overrides the echo-suppression window.
func WithSuppressionWindow(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithNowFunc overrides the time source. Tests use this to step through the
// suppression window deterministically.
func WithNowFunc(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCoordinator creates a coordinator in the idle state. The clock must be
// stopped; the coordinator starts it on the first accepted report.
func NewCoordinator(clock FrameClock, opts ...Option) *Coordinator {
	c := &Coordinator{
		clock:  clock,
		window: DefaultSuppressionWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach registers the two pane adapters. The coordinator holds them only
// for dispatch; it never owns or mutates their caches.
func (c *Coordinator) Attach(editor, preview Adapter) {
	c.editor = editor
	c.preview = preview
}

// Report records that pane `from` scrolled so that `line` is its topmost
// visible source line. Invalid lines and echoes are dropped; otherwise the
// line becomes the pending target for the other pane, overwriting any
// earlier unflushed target, and the frame clock is ensured running.
func (c *Coordinator) Report(from Pane, line int) {
	if from != PaneEditor && from != PanePreview {
		return
	}
	if line <= 0 {
		c.stats.InvalidDropped++
		return
	}

	now := c.now()
	if c.active == from.Other() && now.Before(c.suppressUntil) {
		// Echo from a sync this coordinator itself just issued.
		c.stats.EchoesDropped++
		return
	}

	c.active = from
	c.suppressUntil = now.Add(c.window)
	c.stats.ReportsAccepted++

	switch from {
	case PaneEditor:
		if c.pendingPreview != 0 {
			c.stats.Coalesced++
		}
		c.pendingPreview = line
	case PanePreview:
		if c.pendingEditor != 0 {
			c.stats.Coalesced++
		}
		c.pendingEditor = line
	}

	c.clock.Start()
}

// OnFrameTick flushes pending targets, one ApplyScroll per direction at
// most, and stops the clock when nothing remains pending. Spurious ticks
// after a stop are harmless no-ops.
func (c *Coordinator) OnFrameTick() {
	if line := c.pendingEditor; line != 0 {
		c.pendingEditor = 0
		c.stats.ScrollsApplied++
		if c.editor != nil {
			c.editor.ApplyScroll(line)
		}
	}
	if line := c.pendingPreview; line != 0 {
		c.pendingPreview = 0
		c.stats.ScrollsApplied++
		if c.preview != nil {
			c.preview.ApplyScroll(line)
		}
	}
	if c.pendingEditor == 0 && c.pendingPreview == 0 {
		c.clock.Stop()
	}
}

// Reset clears all sync state and stops the clock. Called on document
// replacement; safe at any time, including with a tick pending.
func (c *Coordinator) Reset() {
	c.active = PaneNone
	c.suppressUntil = time.Time{}
	c.pendingEditor = 0
	c.pendingPreview = 0
	c.stats = Stats{}
	c.clock.Stop()
}

// PendingTarget returns the unflushed target line for the given pane, or 0.
func (c *Coordinator) PendingTarget(p Pane) int {
	switch p {
	case PaneEditor:
		return c.pendingEditor
	case PanePreview:
		return c.pendingPreview
	default:
		return 0
	}
}

// ActiveSource returns the pane that most recently initiated a sync.
func (c *Coordinator) ActiveSource() Pane {
	return c.active
}

// Stats returns a snapshot of the activity counters.
func (c *Coordinator) Stats() Stats {
	return c.stats
}
