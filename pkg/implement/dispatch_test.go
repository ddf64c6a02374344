package implement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashtag-agritech/hashtag-go/pkg/ddi"
)

func newTestDispatch(t *testing.T, sections int) (*Dispatch, *SectionControlSimulator, *State) {
	t.Helper()

	sim, err := NewSectionControlSimulator(sections)
	require.NoError(t, err)
	state := NewState()

	caps := Capabilities{
		WorkingWidthMM:     12000,
		TankCapacity:       4000000,
		TankVolume:         3000000,
		ConnectorXOffsetMM: -1000,
		ConnectorYOffsetMM: 0,
		ConnectorType:      1,
		CulturalPractice:   4,
	}
	return NewDispatch(sim, state, caps), sim, state
}

func TestDispatch_RequestValue(t *testing.T) {
	d, sim, state := newTestDispatch(t, 8)

	sim.ApplySetpointCondensedWorkState(0b01)
	sim.SetTargetRate(150000)
	state.AuthResult.Store(1)

	tests := []struct {
		name  string
		index ddi.DDI
		want  int32
	}{
		{"actual work state", ddi.ActualWorkState, 1},
		{"section control state", ddi.SectionControlState, 1},
		{"prescription control state", ddi.PrescriptionControlState, 1},
		{"target rate", ddi.SetpointVolumePerAreaApplicationRate, 150000},
		{"actual rate", ddi.ActualVolumePerAreaApplicationRate, 150000},
		{"working width", ddi.ActualWorkingWidth, 12000},
		{"tank capacity", ddi.MaximumVolumeContent, 4000000},
		{"tank volume", ddi.ActualVolumeContent, 3000000},
		{"connector x", ddi.DeviceElementOffsetX, -1000},
		{"connector y", ddi.DeviceElementOffsetY, 0},
		{"connector type", ddi.ConnectorType, 1},
		{"cultural practice", ddi.ActualCulturalPractice, 4},
		{"auth result", ddi.HashtagAuthResult, 1},
		{"effective total time", ddi.EffectiveTotalTime, 0},
		{"request default process data", ddi.RequestDefaultProcessData, 0},
		{"unknown ddi", ddi.DDI(9999), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := d.RequestValue(0, tt.index)
			assert.True(t, ok)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestDispatch_RequestValue_CondensedWords(t *testing.T) {
	d, sim, _ := newTestDispatch(t, 4)

	sim.ApplySetpointCondensedWorkState(0b01_00_00_01)
	want := int32(EncodeCondensedWorkState([]bool{true, false, false, true}))

	setpoint, ok := d.RequestValue(2, ddi.SetpointCondensedWorkState1To16)
	assert.True(t, ok)
	assert.Equal(t, want, setpoint)

	actual, ok := d.RequestValue(2, ddi.ActualCondensedWorkState1To16)
	assert.True(t, ok)
	assert.Equal(t, setpoint, actual)
}

func TestDispatch_CommandValue(t *testing.T) {
	d, sim, _ := newTestDispatch(t, 8)

	t.Run("setpoint condensed drives sections", func(t *testing.T) {
		assert.True(t, d.CommandValue(2, ddi.SetpointCondensedWorkState1To16, 0b0101))
		assert.True(t, sim.SectionSetpointState(0))
		assert.False(t, sim.SectionSetpointState(1))
		assert.True(t, sim.SectionSetpointState(2))
	})

	t.Run("target rate", func(t *testing.T) {
		assert.True(t, d.CommandValue(3, ddi.SetpointVolumePerAreaApplicationRate, 220000))
		assert.Equal(t, uint32(220000), sim.TargetRate())
	})

	t.Run("setpoint work state is exactly one", func(t *testing.T) {
		assert.True(t, d.CommandValue(2, ddi.SetpointWorkState, 1))
		assert.True(t, sim.SetpointWorkState())
		assert.True(t, d.CommandValue(2, ddi.SetpointWorkState, 2))
		assert.False(t, sim.SetpointWorkState())
	})

	t.Run("control state selects mode by nonzero", func(t *testing.T) {
		assert.True(t, d.CommandValue(2, ddi.SectionControlState, 0))
		assert.False(t, sim.IsAutoMode())
		assert.True(t, d.CommandValue(2, ddi.SectionControlState, 2))
		assert.True(t, sim.IsAutoMode())
		assert.True(t, d.CommandValue(3, ddi.PrescriptionControlState, 0))
		assert.False(t, sim.IsAutoMode())
	})

	t.Run("unknown ddi acknowledged without effect", func(t *testing.T) {
		before := sim.TargetRate()
		assert.True(t, d.CommandValue(0, ddi.DDI(9999), 42))
		assert.Equal(t, before, sim.TargetRate())
	})
}

func TestDispatch_ModeTransitionSequence(t *testing.T) {
	d, sim, _ := newTestDispatch(t, 4)

	// Automatic: the commanded word is what runs.
	d.CommandValue(2, ddi.SetpointCondensedWorkState1To16, 0b01)
	assert.Equal(t, int32(1), sim.ActualWorkState())

	// Drop to manual: the stale setpoint stops driving the sections.
	d.CommandValue(2, ddi.SectionControlState, 0)
	assert.Equal(t, int32(0), sim.ActualWorkState())

	// Operator switches now rule without any further command.
	sim.SetSectionSwitchState(1, true)
	assert.Equal(t, int32(1), sim.ActualWorkState())

	// Back to automatic: the retained setpoint applies again.
	d.CommandValue(2, ddi.SectionControlState, 1)
	assert.True(t, sim.SectionActualState(0))
	assert.False(t, sim.SectionActualState(1))
}

func TestDispatch_ScopeToElement(t *testing.T) {
	d, sim, state := newTestDispatch(t, 4)
	state.AuthResult.Store(1)
	sim.ApplySetpointCondensedWorkState(0b01)

	d.ScopeToElement(7)

	value, ok := d.RequestValue(0, ddi.ActualWorkState)
	assert.True(t, ok)
	assert.Equal(t, int32(0), value)

	value, ok = d.RequestValue(7, ddi.ActualWorkState)
	assert.True(t, ok)
	assert.Equal(t, int32(1), value)

	value, _ = d.RequestValue(7, ddi.HashtagAuthResult)
	assert.Equal(t, int32(1), value)
}

func TestDispatch_TapObservesTraffic(t *testing.T) {
	d, _, _ := newTestDispatch(t, 4)

	type tapped struct {
		write   bool
		element uint16
		index   ddi.DDI
		value   int32
	}
	var seen []tapped
	d.SetTap(func(write bool, element uint16, index ddi.DDI, value int32) {
		seen = append(seen, tapped{write, element, index, value})
	})

	d.RequestValue(2, ddi.ActualWorkingWidth)
	d.CommandValue(3, ddi.SetpointVolumePerAreaApplicationRate, 99000)

	require.Len(t, seen, 2)
	assert.Equal(t, tapped{false, 2, ddi.ActualWorkingWidth, 12000}, seen[0])
	assert.Equal(t, tapped{true, 3, ddi.SetpointVolumePerAreaApplicationRate, 99000}, seen[1])
}
