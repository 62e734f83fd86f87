package scrollsync

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerClockFires(t *testing.T) {
	var ticks atomic.Int64
	clock := NewTickerClock(time.Millisecond, func() {
		ticks.Add(1)
	})

	clock.Start()
	defer clock.Stop()

	deadline := time.After(500 * time.Millisecond)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("got %d ticks, want at least 3", ticks.Load())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestTickerClockStopHaltsTicks(t *testing.T) {
	var ticks atomic.Int64
	clock := NewTickerClock(time.Millisecond, func() {
		ticks.Add(1)
	})

	clock.Start()
	time.Sleep(10 * time.Millisecond)
	clock.Stop()

	// A tick may be in flight at Stop; allow it to land, then verify quiet.
	time.Sleep(5 * time.Millisecond)
	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if got := ticks.Load(); got != after {
		t.Errorf("ticks advanced from %d to %d after Stop", after, got)
	}
}

func TestTickerClockStartStopIdempotent(t *testing.T) {
	clock := NewTickerClock(time.Millisecond, func() {})

	clock.Stop() // stop before start is a no-op
	clock.Start()
	clock.Start() // double start is a no-op
	clock.Stop()
	clock.Stop()

	// Restart after stop must work.
	var ticks atomic.Int64
	clock2 := NewTickerClock(time.Millisecond, func() { ticks.Add(1) })
	clock2.Start()
	clock2.Stop()
	clock2.Start()
	defer clock2.Stop()

	deadline := time.After(500 * time.Millisecond)
	for ticks.Load() < 1 {
		select {
		case <-deadline:
			t.Fatal("clock did not tick after restart")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestManualClock(t *testing.T) {
	m := &ManualClock{}
	if m.Running() {
		t.Fatal("new ManualClock should be stopped")
	}

	m.Start()
	m.Start()
	if !m.Running() || m.Starts != 1 {
		t.Errorf("after double Start: running=%v starts=%d, want true/1", m.Running(), m.Starts)
	}

	m.Stop()
	m.Stop()
	if m.Running() || m.Stops != 1 {
		t.Errorf("after double Stop: running=%v stops=%d, want false/1", m.Running(), m.Stops)
	}
}

func TestReportQueuePublishAndDrain(t *testing.T) {
	q := NewReportQueue(2)

	if !q.Publish(5) || !q.Publish(9) {
		t.Fatal("publishes within capacity should succeed")
	}
	if q.Publish(12) {
		t.Error("publish beyond capacity should drop")
	}
	if got := q.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}

	// Order preserved.
	if got := <-q.C(); got != 5 {
		t.Errorf("first receive = %d, want 5", got)
	}
	if got := <-q.C(); got != 9 {
		t.Errorf("second receive = %d, want 9", got)
	}

	q.Publish(7)
	q.Drain()
	select {
	case line := <-q.C():
		t.Errorf("received %d after Drain, want empty queue", line)
	default:
	}
}
