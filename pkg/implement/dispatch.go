package implement

import "github.com/hashtag-agritech/hashtag-go/pkg/ddi"

// Capabilities are the static values the implement reports for
// geometry, tank and practice DDIs. They are fixed at construction,
// alongside the object pool that declares them.
type Capabilities struct {
	// WorkingWidthMM is the boom working width in millimeters.
	WorkingWidthMM int32

	// TankCapacity and TankVolume are the product tank capacity and
	// current content in milliliters.
	TankCapacity int32
	TankVolume   int32

	// Connector geometry and type.
	ConnectorXOffsetMM int32
	ConnectorYOffsetMM int32
	ConnectorType      int32

	// CulturalPractice is the reported operation code.
	CulturalPractice int32
}

// TapFunc observes every dispatched read or write. Implementations must
// not block; the dispatch runs on the session layer's servicing path.
type TapFunc func(write bool, element uint16, index ddi.DDI, value int32)

// Dispatch answers the Task Controller's requestValue and commandValue
// callbacks from current shared state. Both entry points are pure
// lookups over the simulator, the shared state and the static
// capabilities; neither performs I/O or blocks.
type Dispatch struct {
	sim   *SectionControlSimulator
	state *State
	caps  Capabilities

	scoped        bool
	scopedElement uint16

	tap TapFunc
}

// NewDispatch binds a dispatch to one simulator and shared state.
func NewDispatch(sim *SectionControlSimulator, state *State, caps Capabilities) *Dispatch {
	return &Dispatch{sim: sim, state: state, caps: caps}
}

// ScopeToElement restricts reads to the given element number: requests
// for any other element return zero for every DDI. Scoping is off by
// default; single-element sensor builds enable it.
func (d *Dispatch) ScopeToElement(element uint16) {
	d.scoped = true
	d.scopedElement = element
}

// SetTap installs an observer for dispatched operations.
func (d *Dispatch) SetTap(tap TapFunc) {
	d.tap = tap
}

// RequestValue resolves a process variable read. Unrecognized DDIs
// yield zero; the boolean result is always true, as the session layer
// contract defines no failure path.
func (d *Dispatch) RequestValue(element uint16, index ddi.DDI) (int32, bool) {
	value := d.readValue(element, index)
	if d.tap != nil {
		d.tap(false, element, index, value)
	}
	return value, true
}

func (d *Dispatch) readValue(element uint16, index ddi.DDI) int32 {
	if d.scoped && element != d.scopedElement {
		return 0
	}

	switch index {
	case ddi.RequestDefaultProcessData:
		return 0
	case ddi.HashtagAuthResult:
		return d.state.AuthResult.Load()
	case ddi.ActualWorkState:
		return d.sim.ActualWorkState()
	case ddi.EffectiveTotalTime:
		// Time accumulation is not implemented; the value is a
		// declared zero, not a measurement.
		return 0
	case ddi.SectionControlState, ddi.PrescriptionControlState:
		return d.sim.SectionControlState()
	case ddi.ActualCondensedWorkState1To16:
		return int32(d.sim.ActualCondensedWorkState())
	case ddi.SetpointCondensedWorkState1To16:
		return int32(d.sim.SetpointCondensedWorkState())
	case ddi.SetpointVolumePerAreaApplicationRate:
		return int32(d.sim.TargetRate())
	case ddi.ActualVolumePerAreaApplicationRate:
		return int32(d.sim.ActualRate())
	case ddi.ActualWorkingWidth:
		return d.caps.WorkingWidthMM
	case ddi.MaximumVolumeContent:
		return d.caps.TankCapacity
	case ddi.ActualVolumeContent:
		return d.caps.TankVolume
	case ddi.DeviceElementOffsetX:
		return d.caps.ConnectorXOffsetMM
	case ddi.DeviceElementOffsetY:
		return d.caps.ConnectorYOffsetMM
	case ddi.ConnectorType:
		return d.caps.ConnectorType
	case ddi.ActualCulturalPractice:
		return d.caps.CulturalPractice
	default:
		return 0
	}
}

// CommandValue applies a process variable write. Writes to unrecognized
// DDIs change nothing; every write is acknowledged.
func (d *Dispatch) CommandValue(element uint16, index ddi.DDI, value int32) bool {
	if d.tap != nil {
		d.tap(true, element, index, value)
	}

	switch index {
	case ddi.SetpointCondensedWorkState1To16:
		d.sim.ApplySetpointCondensedWorkState(uint32(value))
	case ddi.SetpointVolumePerAreaApplicationRate:
		d.sim.SetTargetRate(uint32(value))
	case ddi.SetpointWorkState:
		d.sim.SetSetpointWorkState(value == 1)
	case ddi.SectionControlState, ddi.PrescriptionControlState:
		d.sim.SetAutoMode(value != 0)
	}
	return true
}
