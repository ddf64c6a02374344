package implement

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// MaxSections is the largest supported section count.
const MaxSections = 256

// ErrSectionCount is returned for section counts outside 1..MaxSections.
var ErrSectionCount = errors.New("implement: section count out of range")

// Simulator defaults, matching a mid-size sprayer.
const (
	// DefaultTargetRate is the initial volume-per-area target rate.
	DefaultTargetRate uint32 = 100000
)

// SectionControlSimulator is the state machine behind the dispatch.
//
// The mode flag selects which array drives the actual section state:
// in automatic mode a section follows its Task Controller setpoint, in
// manual mode it follows the local operator switch. The flag changes
// only through a commandValue write to the section/prescription control
// state DDI.
//
// Each boolean array has exactly one writer: the dispatch writes
// setpoints, the operator console writes switches. Scalars are atomic
// and safe from any goroutine.
type SectionControlSimulator struct {
	setpoint []bool
	switches []bool

	targetRate        atomic.Uint32
	setpointWorkState atomic.Bool
	autoMode          atomic.Bool
}

// NewSectionControlSimulator creates a simulator for the given number
// of sections (1..MaxSections). All sections start off, mode starts
// automatic, and the target rate starts at DefaultTargetRate.
func NewSectionControlSimulator(sections int) (*SectionControlSimulator, error) {
	if sections < 1 || sections > MaxSections {
		return nil, fmt.Errorf("%w: %d", ErrSectionCount, sections)
	}

	s := &SectionControlSimulator{
		setpoint: make([]bool, sections),
		switches: make([]bool, sections),
	}
	s.targetRate.Store(DefaultTargetRate)
	s.setpointWorkState.Store(true)
	s.autoMode.Store(true)
	return s, nil
}

// NumberOfSections returns the configured section count.
func (s *SectionControlSimulator) NumberOfSections() int {
	return len(s.setpoint)
}

// SectionActualState returns the effective state of section i: the
// setpoint in automatic mode, the local switch in manual mode.
func (s *SectionControlSimulator) SectionActualState(i int) bool {
	if i < 0 || i >= len(s.setpoint) {
		return false
	}
	if s.autoMode.Load() {
		return s.setpoint[i]
	}
	return s.switches[i]
}

// SectionSetpointState returns the commanded state of section i.
func (s *SectionControlSimulator) SectionSetpointState(i int) bool {
	if i < 0 || i >= len(s.setpoint) {
		return false
	}
	return s.setpoint[i]
}

// SectionSwitchState returns the local switch state of section i.
func (s *SectionControlSimulator) SectionSwitchState(i int) bool {
	if i < 0 || i >= len(s.switches) {
		return false
	}
	return s.switches[i]
}

// SetSectionSwitchState sets the local switch for section i. Out of
// range indices are ignored. Caller is the single switch writer.
func (s *SectionControlSimulator) SetSectionSwitchState(i int, on bool) {
	if i < 0 || i >= len(s.switches) {
		return
	}
	s.switches[i] = on
}

// ActualSectionsOn counts sections whose effective state is on.
func (s *SectionControlSimulator) ActualSectionsOn() int {
	count := 0
	for i := range s.setpoint {
		if s.SectionActualState(i) {
			count++
		}
	}
	return count
}

// ActualWorkState is 1 when any section is effectively on, else 0.
func (s *SectionControlSimulator) ActualWorkState() int32 {
	if s.ActualSectionsOn() > 0 {
		return 1
	}
	return 0
}

// TargetRate returns the commanded volume-per-area rate.
func (s *SectionControlSimulator) TargetRate() uint32 {
	return s.targetRate.Load()
}

// SetTargetRate sets the commanded volume-per-area rate.
func (s *SectionControlSimulator) SetTargetRate(rate uint32) {
	s.targetRate.Store(rate)
}

// ActualRate returns the target rate while at least one section is on
// and zero otherwise. The simulated implement gates the rate as a whole
// rather than scaling it per active section.
func (s *SectionControlSimulator) ActualRate() uint32 {
	if s.ActualSectionsOn() > 0 {
		return s.targetRate.Load()
	}
	return 0
}

// SetpointWorkState returns the commanded work state.
func (s *SectionControlSimulator) SetpointWorkState() bool {
	return s.setpointWorkState.Load()
}

// SetSetpointWorkState sets the commanded work state.
func (s *SectionControlSimulator) SetSetpointWorkState(working bool) {
	s.setpointWorkState.Store(working)
}

// IsAutoMode reports whether the Task Controller drives the sections.
func (s *SectionControlSimulator) IsAutoMode() bool {
	return s.autoMode.Load()
}

// SetAutoMode switches between automatic and manual section control.
func (s *SectionControlSimulator) SetAutoMode(auto bool) {
	s.autoMode.Store(auto)
}

// SectionControlState is 1 in automatic mode and 0 in manual mode.
func (s *SectionControlSimulator) SectionControlState() int32 {
	if s.autoMode.Load() {
		return 1
	}
	return 0
}

// ActualCondensedWorkState packs the effective state of the first
// sixteen sections.
func (s *SectionControlSimulator) ActualCondensedWorkState() uint32 {
	n := len(s.setpoint)
	if n > SectionsPerCondensedWord {
		n = SectionsPerCondensedWord
	}
	states := make([]bool, n)
	for i := range states {
		states[i] = s.SectionActualState(i)
	}
	return EncodeCondensedWorkState(states)
}

// SetpointCondensedWorkState packs the commanded state of the first
// sixteen sections.
func (s *SectionControlSimulator) SetpointCondensedWorkState() uint32 {
	n := len(s.setpoint)
	if n > SectionsPerCondensedWord {
		n = SectionsPerCondensedWord
	}
	return EncodeCondensedWorkState(s.setpoint[:n])
}

// ApplySetpointCondensedWorkState unpacks a commanded condensed word
// into the setpoint array. Caller is the single setpoint writer.
func (s *SectionControlSimulator) ApplySetpointCondensedWorkState(word uint32) {
	states := DecodeCondensedWorkState(word, len(s.setpoint))
	copy(s.setpoint, states)
}

// SwitchStates returns a copy of the local switch array.
func (s *SectionControlSimulator) SwitchStates() []bool {
	out := make([]bool, len(s.switches))
	copy(out, s.switches)
	return out
}
