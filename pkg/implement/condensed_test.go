package implement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeCondensedWorkState(t *testing.T) {
	tests := []struct {
		name   string
		states []bool
		want   uint32
	}{
		{
			name:   "no sections all not installed",
			states: nil,
			want:   0xFFFFFFFF,
		},
		{
			name:   "one section off",
			states: []bool{false},
			// 15 not-installed pairs above one off pair
			want: 0xFFFFFFFC,
		},
		{
			name:   "one section on",
			states: []bool{true},
			want:   0xFFFFFFFD,
		},
		{
			name:   "four sections alternating",
			states: []bool{true, false, true, false},
			// sections 0 and 2 on, 1 and 3 off, rest not installed
			want: 0xFFFFFF11,
		},
		{
			name: "sixteen sections all on",
			states: []bool{
				true, true, true, true, true, true, true, true,
				true, true, true, true, true, true, true, true,
			},
			want: 0x55555555,
		},
		{
			name: "states beyond sixteen ignored",
			states: append(make([]bool, 16), true, true),
			want:   0x00000000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeCondensedWorkState(tt.states))
		})
	}
}

func TestDecodeCondensedWorkState(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		states := []bool{true, false, false, true, true, false, true, false}
		word := EncodeCondensedWorkState(states)
		assert.Equal(t, states, DecodeCondensedWorkState(word, len(states)))
	})

	t.Run("only the on code maps to true", func(t *testing.T) {
		// Section codes: 0=off, 1=on, 2=reserved error, 3=not installed.
		word := uint32(0b11_10_01_00)
		got := DecodeCondensedWorkState(word, 4)
		assert.Equal(t, []bool{false, true, false, false}, got)
	})

	t.Run("bits beyond section count ignored", func(t *testing.T) {
		word := uint32(0x55555555)
		got := DecodeCondensedWorkState(word, 3)
		assert.Equal(t, []bool{true, true, true}, got)
	})

	t.Run("section count capped at sixteen", func(t *testing.T) {
		got := DecodeCondensedWorkState(0x55555555, 64)
		assert.Len(t, got, SectionsPerCondensedWord)
	})

	t.Run("negative section count yields empty", func(t *testing.T) {
		assert.Empty(t, DecodeCondensedWorkState(0x55555555, -1))
	})
}
