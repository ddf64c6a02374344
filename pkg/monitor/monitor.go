// Package monitor provides the edge-triggered poller that turns shared
// state changes into Task Controller value-changed triggers.
package monitor

import (
	"context"
	"time"
)

// Watcher polls an int32 source and invokes a callback exactly once per
// observed transition. Repeated identical polls never re-fire; the
// baseline is the value at construction, so an unchanged source is
// silent from the start.
type Watcher struct {
	poll     func() int32
	onChange func(int32)
	last     int32
}

// NewWatcher creates a watcher over poll, seeding the baseline with the
// current value.
func NewWatcher(poll func() int32, onChange func(int32)) *Watcher {
	return &Watcher{
		poll:     poll,
		onChange: onChange,
		last:     poll(),
	}
}

// Poll samples the source once, firing the callback if the value
// differs from the previous observation. It reports whether it fired.
func (w *Watcher) Poll() bool {
	v := w.poll()
	if v == w.last {
		return false
	}
	w.last = v
	if w.onChange != nil {
		w.onChange(v)
	}
	return true
}

// Run polls on a fixed interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}
