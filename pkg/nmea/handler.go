package nmea

import "sync"

// Handler feeds parsed PHTG sentences into shared implement state.
//
// The last accepted sentence is kept as one unit and replaced only on a
// fully valid parse. The two scalar sinks, however, are written one
// after the other: a concurrent reader may observe a fresh auth result
// next to a stale warning code between the two stores. Readers that
// need both values from the same sentence must use Last.
type Handler struct {
	mu   sync.RWMutex
	last Sentence
	seen bool

	storeAuth    func(int32)
	storeWarning func(int32)
}

// NewHandler creates a handler that publishes the auth result and
// warning code of every accepted sentence through the given sinks.
// Either sink may be nil.
func NewHandler(storeAuth, storeWarning func(int32)) *Handler {
	return &Handler{storeAuth: storeAuth, storeWarning: storeWarning}
}

// HandleLine processes one line from the sentence feed and reports
// whether it was accepted. Lines with a foreign tag and lines failing
// checksum or field validation are dropped silently; no state changes
// on a drop.
func (h *Handler) HandleLine(line string) bool {
	s, err := Parse(line)
	if err != nil {
		return false
	}

	h.mu.Lock()
	h.last = s
	h.seen = true
	h.mu.Unlock()

	if h.storeAuth != nil {
		h.storeAuth(s.AuthResult)
	}
	if h.storeWarning != nil {
		h.storeWarning(s.Warning)
	}
	return true
}

// Last returns the most recently accepted sentence, if any.
func (h *Handler) Last() (Sentence, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.seen
}
