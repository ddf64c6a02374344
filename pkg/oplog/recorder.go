package oplog

import "sync/atomic"

// Recorder buffers events between the dispatch and a slower consumer.
// Record never blocks: when the buffer is full the event is dropped and
// counted.
type Recorder struct {
	events  chan Event
	dropped atomic.Uint64
}

// NewRecorder creates a recorder with the given buffer capacity.
func NewRecorder(capacity int) *Recorder {
	if capacity < 1 {
		capacity = 1
	}
	return &Recorder{events: make(chan Event, capacity)}
}

// Record offers an event to the buffer and reports whether it was
// accepted.
func (r *Recorder) Record(event Event) bool {
	select {
	case r.events <- event:
		return true
	default:
		r.dropped.Add(1)
		return false
	}
}

// Events exposes the buffered events for a consumer to drain.
func (r *Recorder) Events() <-chan Event {
	return r.events
}

// Dropped returns how many events were discarded on a full buffer.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}
