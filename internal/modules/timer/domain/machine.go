package domain

import "flowmodoro/internal/platform/tally"

// Mode is the kind of interval the machine is timing.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeBreak Mode = "break"
)

// Actions recorded with a finished interval. Complete marks a break that
// ran out on its own.
const (
	ActionStop     = "stop"
	ActionSkip     = "skip"
	ActionComplete = "complete"
)

// Durations are the break lengths in effect for the next break.
type Durations struct {
	ShortBreakSeconds    int
	LongBreakSeconds     int
	FlowsBeforeLongBreak int
}

// DurationsFromMinutes converts the user-facing minute settings.
func DurationsFromMinutes(shortBreak, longBreak, flowsBeforeLong int) Durations {
	return Durations{
		ShortBreakSeconds:    shortBreak * 60,
		LongBreakSeconds:     longBreak * 60,
		FlowsBeforeLongBreak: flowsBeforeLong,
	}
}

// Interval is a finished focus or break interval.
type Interval struct {
	Seconds int
	Kind    string
	Action  string
}

// State is a snapshot of the machine. RemainingBreakSeconds and
// BreakSeconds are only meaningful in ModeBreak.
type State struct {
	Mode                  Mode
	Running               bool
	ElapsedFocusSeconds   int
	RemainingBreakSeconds int
	BreakSeconds          int
	BreakKind             string
	FlowCount             int
	Durations             Durations
}

// Machine is the focus/break state machine. Every interval that ends
// through StopOrSkip or natural break expiry yields exactly one Interval;
// Reset yields none. It is not safe for concurrent use.
type Machine struct {
	mode         Mode
	running      bool
	elapsed      int
	remaining    int
	breakSeconds int
	breakKind    string
	flowCount    int
	durations    Durations
}

// NewMachine starts paused in focus with zero elapsed time. flowCount is
// the number of focus intervals already completed today.
func NewMachine(durations Durations, flowCount int) *Machine {
	if flowCount < 0 {
		flowCount = 0
	}
	return &Machine{mode: ModeFocus, flowCount: flowCount, durations: durations}
}

// Start resumes the current interval. It is a no-op when running.
func (m *Machine) Start() { m.running = true }

// Pause freezes the current interval. It is a no-op when paused.
func (m *Machine) Pause() { m.running = false }

// SetDurations replaces the settings used when the next break begins. A
// break already in progress keeps its length.
func (m *Machine) SetDurations(d Durations) { m.durations = d }

// Tick advances time by exactly one second while running. It returns the
// finished break when the countdown reaches zero.
func (m *Machine) Tick() (Interval, bool) {
	if !m.running {
		return Interval{}, false
	}
	if m.mode == ModeFocus {
		m.elapsed++
		return Interval{}, false
	}
	m.remaining--
	if m.remaining > 0 {
		return Interval{}, false
	}
	finished := Interval{Seconds: m.breakSeconds, Kind: m.breakKind, Action: ActionComplete}
	m.enterFocus()
	return finished, true
}

// Reset discards the time of the current interval without recording it.
func (m *Machine) Reset() {
	if m.mode == ModeFocus {
		m.elapsed = 0
		return
	}
	m.remaining = m.breakSeconds
}

// StopOrSkip ends the current interval early. Unknown actions count as stop.
func (m *Machine) StopOrSkip(action string) Interval {
	if action != ActionSkip {
		action = ActionStop
	}
	if m.mode == ModeFocus {
		finished := Interval{Seconds: m.elapsed, Kind: tally.KindFlow, Action: action}
		m.flowCount++
		m.enterBreak()
		return finished
	}
	spent := m.breakSeconds - m.remaining
	if spent < 0 {
		spent = 0
	}
	finished := Interval{Seconds: spent, Kind: m.breakKind, Action: action}
	m.enterFocus()
	return finished
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return State{
		Mode:                  m.mode,
		Running:               m.running,
		ElapsedFocusSeconds:   m.elapsed,
		RemainingBreakSeconds: m.remaining,
		BreakSeconds:          m.breakSeconds,
		BreakKind:             m.breakKind,
		FlowCount:             m.flowCount,
		Durations:             m.durations,
	}
}

func (m *Machine) enterBreak() {
	every := m.durations.FlowsBeforeLongBreak
	if every < 1 {
		every = 1
	}
	if m.flowCount%every == 0 {
		m.breakKind = tally.KindBigBreak
		m.breakSeconds = m.durations.LongBreakSeconds
	} else {
		m.breakKind = tally.KindBreak
		m.breakSeconds = m.durations.ShortBreakSeconds
	}
	m.remaining = m.breakSeconds
	m.mode = ModeBreak
	m.running = true
}

func (m *Machine) enterFocus() {
	m.mode = ModeFocus
	m.elapsed = 0
	m.remaining = 0
	m.running = true
}
