package implement

import "sync/atomic"

// State holds the scalar values shared between the sentence feed, the
// dispatch and the monitoring loop. Every field is independently
// atomic; there is no transaction across fields. In particular the
// sentence handler stores AuthResult and Warning one after the other,
// so a reader may observe the pair mid-update.
type State struct {
	// AuthResult is the last GNSS authentication result from the
	// PHTG feed.
	AuthResult atomic.Int32

	// Warning is the last receiver warning code from the PHTG feed.
	Warning atomic.Int32
}

// NewState returns zeroed shared state.
func NewState() *State {
	return &State{}
}
