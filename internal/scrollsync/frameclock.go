package scrollsync

import (
	"sync"
	"time"
)

// FrameClock is a display-refresh-aligned callback source. The coordinator
// starts it when a pending target exists and stops it when both directions
// are idle; a stopped clock costs nothing. Start and Stop are idempotent.
type FrameClock interface {
	Start()
	Stop()
}

// TickerClock drives a callback from its own goroutine at a fixed rate.
// The callback is invoked off the UI goroutine; callers are expected to
// post it onto their serialized event queue rather than mutate state from
// it directly.
type TickerClock struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func()
	done     chan struct{}
}

// NewTickerClock creates a stopped clock firing fn once per interval.
// Rates at or below zero fall back to 60Hz.
func NewTickerClock(interval time.Duration, fn func()) *TickerClock {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerClock{interval: interval, fn: fn}
}

// Start begins ticking. Starting a running clock is a no-op.
func (t *TickerClock) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != nil {
		return
	}
	done := make(chan struct{})
	t.done = done

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.fn()
			case <-done:
				return
			}
		}
	}()
}

// Stop halts ticking. Stopping a stopped clock is a no-op. A tick already
// in flight may still be delivered after Stop returns; the coordinator
// tolerates spurious ticks.
func (t *TickerClock) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		return
	}
	close(t.done)
	t.done = nil
}

// ManualClock is a FrameClock for tests: it only records whether it is
// running. Tests call Coordinator.OnFrameTick directly to simulate ticks.
type ManualClock struct {
	running bool
	Starts  int
	Stops   int
}

// Start marks the clock running.
func (m *ManualClock) Start() {
	if !m.running {
		m.running = true
		m.Starts++
	}
}

// Stop marks the clock stopped.
func (m *ManualClock) Stop() {
	if m.running {
		m.running = false
		m.Stops++
	}
}

// Running reports whether the clock is running.
func (m *ManualClock) Running() bool {
	return m.running
}
