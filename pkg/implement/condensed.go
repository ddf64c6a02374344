package implement

// SectionsPerCondensedWord is how many sections one condensed
// work-state word covers. Pools with more sections use additional
// condensed DDIs, which the session layer addresses separately.
const SectionsPerCondensedWord = 16

// Per-section codes within a condensed word. The fourth code (0b10,
// error state) is never emitted by this encoder.
const (
	condensedOff          uint32 = 0b00
	condensedOn           uint32 = 0b01
	condensedNotInstalled uint32 = 0b11
)

// EncodeCondensedWorkState packs the given section states into a
// condensed word, least-significant bits first: section i occupies bits
// [2i, 2i+1]. Positions at or beyond len(states), up to the sixteen
// section limit, are marked not-installed. States beyond sixteen are
// ignored.
func EncodeCondensedWorkState(states []bool) uint32 {
	var word uint32
	for i := 0; i < SectionsPerCondensedWord; i++ {
		code := condensedNotInstalled
		if i < len(states) {
			code = condensedOff
			if states[i] {
				code = condensedOn
			}
		}
		word |= code << (2 * i)
	}
	return word
}

// DecodeCondensedWorkState unpacks a condensed word into per-section
// booleans. Only the exact on code (0b01) maps to true; off,
// not-installed and the reserved error code all map to false. Bits for
// sections at or beyond sectionCount are ignored. sectionCount is
// capped at sixteen.
func DecodeCondensedWorkState(word uint32, sectionCount int) []bool {
	if sectionCount > SectionsPerCondensedWord {
		sectionCount = SectionsPerCondensedWord
	}
	if sectionCount < 0 {
		sectionCount = 0
	}

	states := make([]bool, sectionCount)
	for i := range states {
		states[i] = (word>>(2*i))&0b11 == condensedOn
	}
	return states
}
