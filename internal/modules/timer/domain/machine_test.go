package domain_test

import (
	"testing"

	"flowmodoro/internal/modules/timer/domain"
)

func durations() domain.Durations {
	return domain.DurationsFromMinutes(5, 15, 4)
}

func TestInitialStateIsPausedFocus(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(durations(), 0)
	s := m.State()
	if s.Mode != domain.ModeFocus || s.Running || s.ElapsedFocusSeconds != 0 {
		t.Fatalf("unexpected initial state %+v", s)
	}
	if _, done := m.Tick(); done || m.State().ElapsedFocusSeconds != 0 {
		t.Fatalf("paused machine must ignore ticks")
	}
}

func TestTickMovesExactlyOneSecond(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(durations(), 0)
	m.Start()
	m.Start()
	for i := 1; i <= 90; i++ {
		m.Tick()
		if got := m.State().ElapsedFocusSeconds; got != i {
			t.Fatalf("after %d ticks elapsed=%d", i, got)
		}
	}
	m.StopOrSkip(domain.ActionStop)
	start := m.State().RemainingBreakSeconds
	for i := 1; i <= 10; i++ {
		m.Tick()
		if got := m.State().RemainingBreakSeconds; got != start-i {
			t.Fatalf("after %d break ticks remaining=%d", i, got)
		}
	}
}

func TestStopFromFocusEmitsFlowAndStartsBreak(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(durations(), 0)
	m.Start()
	for i := 0; i < 42; i++ {
		m.Tick()
	}
	got := m.StopOrSkip(domain.ActionSkip)
	want := domain.Interval{Seconds: 42, Kind: "flow", Action: "skip"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	s := m.State()
	if s.Mode != domain.ModeBreak || !s.Running || s.BreakKind != "break" || s.RemainingBreakSeconds != 300 || s.FlowCount != 1 {
		t.Fatalf("unexpected state after stop %+v", s)
	}
}

func TestEveryNthFlowRoutesToBigBreak(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(domain.DurationsFromMinutes(5, 15, 3), 0)
	for n := 1; n <= 7; n++ {
		m.StopOrSkip(domain.ActionStop)
		s := m.State()
		if s.FlowCount != n {
			t.Fatalf("expected flow count %d, got %d", n, s.FlowCount)
		}
		wantKind := "break"
		if n%3 == 0 {
			wantKind = "big_break"
		}
		if s.BreakKind != wantKind {
			t.Fatalf("flow %d: expected %s, got %s", n, wantKind, s.BreakKind)
		}
		m.StopOrSkip(domain.ActionSkip)
	}
}

func TestFlowCountFromStartupCarriesIntoBreakChoice(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(durations(), 3)
	m.StopOrSkip(domain.ActionStop)
	if s := m.State(); s.BreakKind != "big_break" || s.RemainingBreakSeconds != 900 {
		t.Fatalf("fourth flow of the day must start a big break, got %+v", s)
	}
}

func TestNaturalBreakExpiryRecordsFullLength(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(domain.DurationsFromMinutes(1, 2, 4), 0)
	m.StopOrSkip(domain.ActionStop)
	var (
		finished domain.Interval
		done     bool
		ticks    int
	)
	for !done {
		finished, done = m.Tick()
		ticks++
		if ticks > 61 {
			t.Fatalf("break did not expire")
		}
	}
	if ticks != 60 {
		t.Fatalf("expected expiry on tick 60, got %d", ticks)
	}
	want := domain.Interval{Seconds: 60, Kind: "break", Action: "complete"}
	if finished != want {
		t.Fatalf("expected %+v, got %+v", want, finished)
	}
	if s := m.State(); s.Mode != domain.ModeFocus || !s.Running || s.ElapsedFocusSeconds != 0 {
		t.Fatalf("expected running focus after expiry, got %+v", s)
	}
}

func TestStopFromBreakRecordsTimeSpent(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(durations(), 0)
	m.StopOrSkip(domain.ActionStop)
	for i := 0; i < 70; i++ {
		m.Tick()
	}
	got := m.StopOrSkip(domain.ActionStop)
	if got.Seconds != 70 || got.Kind != "break" || got.Action != "stop" {
		t.Fatalf("unexpected break record %+v", got)
	}
	if s := m.State(); s.Mode != domain.ModeFocus || !s.Running {
		t.Fatalf("expected running focus, got %+v", s)
	}
}

func TestResetNeverEmitsAndKeepsRunningState(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(durations(), 0)
	m.Start()
	m.Tick()
	m.Tick()
	m.Reset()
	if s := m.State(); s.ElapsedFocusSeconds != 0 || !s.Running {
		t.Fatalf("focus reset must zero elapsed and keep running, got %+v", s)
	}
	m.StopOrSkip(domain.ActionStop)
	m.Pause()
	m.Start()
	m.Tick()
	m.Pause()
	m.Reset()
	if s := m.State(); s.RemainingBreakSeconds != 300 || s.Running {
		t.Fatalf("break reset must restore length and keep paused, got %+v", s)
	}
	if got := m.StopOrSkip(domain.ActionStop); got.Seconds != 0 {
		t.Fatalf("reset break must record zero spent seconds, got %+v", got)
	}
}

func TestSettingsChangeAppliesToNextBreak(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(durations(), 0)
	m.StopOrSkip(domain.ActionStop)
	m.SetDurations(domain.DurationsFromMinutes(10, 30, 4))
	for i := 0; i < 5; i++ {
		m.Tick()
	}
	m.Reset()
	if got := m.State().RemainingBreakSeconds; got != 300 {
		t.Fatalf("running break must keep its length, got %d", got)
	}
	if got := m.StopOrSkip(domain.ActionSkip); got.Seconds != 0 {
		t.Fatalf("unexpected spent seconds %+v", got)
	}
	m.StopOrSkip(domain.ActionStop)
	if got := m.State().RemainingBreakSeconds; got != 600 {
		t.Fatalf("next break must use the new length, got %d", got)
	}
}

func TestUnknownActionCountsAsStop(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(durations(), 0)
	if got := m.StopOrSkip("abandon"); got.Action != "stop" {
		t.Fatalf("expected stop, got %q", got.Action)
	}
}
