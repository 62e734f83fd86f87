package scrollsync

import "sync/atomic"

// ReportQueue is the asynchronous message channel between the preview view
// and the coordinator. The preview side resolves its scroll position to a
// source line and publishes it here; the application event loop drains the
// queue on the UI goroutine, which keeps the coordinator single-threaded no
// matter where the preview's notifications originate.
//
// Publishing never blocks: when the queue is full the report is dropped.
// A lost report just means a stale sync on that tick; the next user scroll
// self-corrects.
type ReportQueue struct {
	ch      chan int
	dropped atomic.Uint64
}

// DefaultReportQueueSize bounds the queue between drains.
const DefaultReportQueueSize = 32

// NewReportQueue creates a queue with the given capacity. Sizes at or below
// zero fall back to DefaultReportQueueSize.
func NewReportQueue(size int) *ReportQueue {
	if size <= 0 {
		size = DefaultReportQueueSize
	}
	return &ReportQueue{ch: make(chan int, size)}
}

// Publish enqueues a resolved source line without blocking. Returns false
// when the queue is full and the report was dropped.
func (q *ReportQueue) Publish(line int) bool {
	select {
	case q.ch <- line:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// C returns the receive side for the event loop to select on. Delivery
// order matches publish order.
func (q *ReportQueue) C() <-chan int {
	return q.ch
}

// Dropped returns the number of reports discarded because the queue was
// full.
func (q *ReportQueue) Dropped() uint64 {
	return q.dropped.Load()
}

// Drain discards any queued reports. Used on document replacement so stale
// reports from the previous document cannot resurrect sync state after a
// Reset.
func (q *ReportQueue) Drain() {
	for {
		select {
		case <-q.ch:
		default:
			return
		}
	}
}
