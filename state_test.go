package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateMachine_SpinnerCycle(t *testing.T) {
	m := NewStateMachine(true)
	var seen []string
	m.Observe(func(from, to LoadingState) { seen = append(seen, from.String()+"->"+to.String()) })

	m.Reset()
	m.Begin()
	assert.Equal(t, StateLoading, m.State())
	m.Succeed()
	assert.Equal(t, StateLoaded, m.State())

	// Next click: back to Initial before loading again.
	m.Reset()
	m.Begin()
	m.Succeed()

	assert.Equal(t, []string{
		"initial->loading",
		"loading->loaded",
		"loaded->initial",
		"initial->loading",
		"loading->loaded",
	}, seen)
}

func TestStateMachine_NoSpinnerStaysInitial(t *testing.T) {
	m := NewStateMachine(false)
	calls := 0
	m.Observe(func(LoadingState, LoadingState) { calls++ })

	m.Begin()
	m.Succeed()
	m.Fail()
	m.Reset()

	assert.Equal(t, StateInitial, m.State())
	assert.Zero(t, calls)
}

func TestStateMachine_FailRevertsFromAnyState(t *testing.T) {
	m := NewStateMachine(true)
	m.Begin()
	m.Fail()
	assert.Equal(t, StateInitial, m.State())

	m.Begin()
	m.Succeed()
	m.Fail()
	assert.Equal(t, StateInitial, m.State())
}

func TestStateMachine_SucceedOnlyFromLoading(t *testing.T) {
	m := NewStateMachine(true)
	m.Succeed()
	assert.Equal(t, StateInitial, m.State())
}

func TestStateMachine_Disabled(t *testing.T) {
	tests := []struct {
		state LoadingState
		mode  DisplayMode
		want  bool
	}{
		{StateInitial, DisplayEdit, false},
		{StateInitial, DisplayView, true},
		{StateInitial, DisplayDisabled, true},
		{StateLoading, DisplayEdit, true},
		{StateLoaded, DisplayEdit, false},
		{StateLoaded, DisplayView, true},
	}
	for _, tt := range tests {
		m := &StateMachine{state: tt.state}
		assert.Equal(t, tt.want, m.Disabled(tt.mode), "%s/%s", tt.state, tt.mode)
	}
}

func TestStateMachine_Icon(t *testing.T) {
	m := NewStateMachine(true)
	assert.Equal(t, "AttachRegular", m.Icon(IconRegular, ""))
	assert.Equal(t, "DocumentFilled", m.Icon(IconFilled, "Document"))

	m.Begin()
	assert.Equal(t, "Spinner", m.Icon(IconFilled, "Document"))
	m.Succeed()
	assert.Equal(t, "CheckmarkFilled", m.Icon(IconRegular, "Document"))
}

func TestStateMachine_SpinnerOffMidCycleStillCompletes(t *testing.T) {
	m := NewStateMachine(true)
	m.Begin()
	m.SetSpinner(false)
	m.Succeed()
	assert.Equal(t, StateLoaded, m.State())
	assert.False(t, m.Disabled(DisplayEdit))

	// The next cycle follows the new policy.
	m.Reset()
	m.Begin()
	assert.Equal(t, StateInitial, m.State())
}
