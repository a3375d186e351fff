package main

// LoadingState drives the button's icon and disabled affordance.
type LoadingState int

const (
	StateInitial LoadingState = iota
	StateLoading
	StateLoaded
)

func (s LoadingState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "initial"
	}
}

// StateMachine tracks the lifecycle of one acquisition cycle. Loading and
// Loaded are only ever entered when the spinner is enabled; without it the
// machine stays Initial. It is not safe for concurrent use: the widget only
// touches it from its event loop.
type StateMachine struct {
	state    LoadingState
	spinner  bool
	observer func(from, to LoadingState)
}

func NewStateMachine(showSpinner bool) *StateMachine {
	return &StateMachine{spinner: showSpinner}
}

func (m *StateMachine) State() LoadingState { return m.state }

// SetSpinner changes the spinner policy for the next cycle. A cycle already
// in Loading still completes through Succeed or Fail.
func (m *StateMachine) SetSpinner(on bool) { m.spinner = on }

// Observe registers fn to be called on every actual transition.
func (m *StateMachine) Observe(fn func(from, to LoadingState)) { m.observer = fn }

// Reset forces Initial; a button click starts a fresh cycle even when the
// previous one never reached Loaded.
func (m *StateMachine) Reset() { m.set(StateInitial) }

// Begin enters Loading before any asynchronous work starts.
func (m *StateMachine) Begin() {
	if m.spinner {
		m.set(StateLoading)
	}
}

// Succeed is called once the batch has been emitted. Only Begin enters
// Loading, so the spinner was on when this cycle started.
func (m *StateMachine) Succeed() {
	if m.state == StateLoading {
		m.set(StateLoaded)
	}
}

// Fail reverts to Initial from any state.
func (m *StateMachine) Fail() { m.set(StateInitial) }

// Disabled reports whether the trigger is disabled: always while loading,
// otherwise when the display mode is View or Disabled.
func (m *StateMachine) Disabled(mode DisplayMode) bool {
	if m.state == StateLoading {
		return true
	}
	return mode == DisplayView || mode == DisplayDisabled
}

// Icon names the icon the button shows in the current state.
func (m *StateMachine) Icon(style IconStyle, icon string) string {
	switch m.state {
	case StateLoading:
		return "Spinner"
	case StateLoaded:
		return "CheckmarkFilled"
	}
	if icon == "" {
		icon = "Attach"
	}
	if style == IconFilled {
		return icon + "Filled"
	}
	return icon + "Regular"
}

func (m *StateMachine) set(to LoadingState) {
	from := m.state
	if from == to {
		return
	}
	m.state = to
	if m.observer != nil {
		m.observer(from, to)
	}
}
