package implement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSectionControlSimulator(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		sim, err := NewSectionControlSimulator(16)
		require.NoError(t, err)

		assert.Equal(t, 16, sim.NumberOfSections())
		assert.True(t, sim.IsAutoMode())
		assert.True(t, sim.SetpointWorkState())
		assert.Equal(t, DefaultTargetRate, sim.TargetRate())
		assert.Equal(t, 0, sim.ActualSectionsOn())
	})

	t.Run("rejects out of range counts", func(t *testing.T) {
		for _, count := range []int{0, -1, MaxSections + 1} {
			_, err := NewSectionControlSimulator(count)
			assert.ErrorIs(t, err, ErrSectionCount)
		}
	})

	t.Run("accepts bounds", func(t *testing.T) {
		for _, count := range []int{1, MaxSections} {
			sim, err := NewSectionControlSimulator(count)
			require.NoError(t, err)
			assert.Equal(t, count, sim.NumberOfSections())
		}
	})
}

func TestSimulator_AutoModeFollowsSetpoints(t *testing.T) {
	sim, err := NewSectionControlSimulator(8)
	require.NoError(t, err)

	// All sections commanded on.
	sim.ApplySetpointCondensedWorkState(0x5555)
	assert.Equal(t, 8, sim.ActualSectionsOn())
	assert.Equal(t, int32(1), sim.ActualWorkState())

	// Switches are ignored while automatic.
	sim.SetSectionSwitchState(0, true)
	sim.ApplySetpointCondensedWorkState(0)
	assert.Equal(t, 0, sim.ActualSectionsOn())
	assert.Equal(t, int32(0), sim.ActualWorkState())
}

func TestSimulator_ManualModeFollowsSwitches(t *testing.T) {
	sim, err := NewSectionControlSimulator(8)
	require.NoError(t, err)

	sim.SetAutoMode(false)
	assert.Equal(t, int32(0), sim.SectionControlState())

	// Setpoints are ignored while manual.
	sim.ApplySetpointCondensedWorkState(0x5555)
	assert.Equal(t, 0, sim.ActualSectionsOn())

	// Switch changes surface immediately, no further writes needed.
	sim.SetSectionSwitchState(2, true)
	assert.True(t, sim.SectionActualState(2))
	assert.Equal(t, 1, sim.ActualSectionsOn())
	assert.Equal(t, int32(1), sim.ActualWorkState())

	sim.SetSectionSwitchState(2, false)
	assert.Equal(t, int32(0), sim.ActualWorkState())
}

func TestSimulator_RateGating(t *testing.T) {
	sim, err := NewSectionControlSimulator(4)
	require.NoError(t, err)

	sim.SetTargetRate(250000)
	assert.Equal(t, uint32(0), sim.ActualRate())

	sim.ApplySetpointCondensedWorkState(0b01)
	assert.Equal(t, uint32(250000), sim.ActualRate())

	// The rate is gated, not scaled per section.
	sim.ApplySetpointCondensedWorkState(0b0101)
	assert.Equal(t, uint32(250000), sim.ActualRate())

	sim.ApplySetpointCondensedWorkState(0)
	assert.Equal(t, uint32(0), sim.ActualRate())
}

func TestSimulator_CondensedViews(t *testing.T) {
	sim, err := NewSectionControlSimulator(4)
	require.NoError(t, err)

	sim.ApplySetpointCondensedWorkState(0b01_00_01)

	// Setpoint view reflects the commanded pattern, actual view matches
	// it while automatic.
	want := uint32(0b01_00_01) | 0xFFFFFF00
	assert.Equal(t, want, sim.SetpointCondensedWorkState())
	assert.Equal(t, want, sim.ActualCondensedWorkState())

	// In manual mode the actual view tracks the switches instead.
	sim.SetAutoMode(false)
	sim.SetSectionSwitchState(3, true)
	assert.Equal(t, uint32(0b01_000000)|0xFFFFFF00, sim.ActualCondensedWorkState())
	assert.Equal(t, want, sim.SetpointCondensedWorkState())
}

func TestSimulator_OutOfRangeSectionAccess(t *testing.T) {
	sim, err := NewSectionControlSimulator(2)
	require.NoError(t, err)

	assert.False(t, sim.SectionActualState(-1))
	assert.False(t, sim.SectionActualState(2))
	assert.False(t, sim.SectionSetpointState(5))
	assert.False(t, sim.SectionSwitchState(5))

	// Ignored, not panicking.
	sim.SetSectionSwitchState(-1, true)
	sim.SetSectionSwitchState(99, true)
	assert.Equal(t, 0, sim.ActualSectionsOn())
}

func TestSimulator_SwitchStatesReturnsCopy(t *testing.T) {
	sim, err := NewSectionControlSimulator(3)
	require.NoError(t, err)

	sim.SetSectionSwitchState(1, true)
	states := sim.SwitchStates()
	assert.Equal(t, []bool{false, true, false}, states)

	states[0] = true
	assert.False(t, sim.SectionSwitchState(0))
}
