package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	sessiondto "flowmodoro/internal/modules/session/dto"
	settingsdto "flowmodoro/internal/modules/settings/dto"
	timerdto "flowmodoro/internal/modules/timer/dto"
	"flowmodoro/internal/ui/components"
)

type stubTimer struct {
	state   timerdto.StateOutput
	toggles int
}

func (s *stubTimer) State() timerdto.StateOutput { return s.state }
func (s *stubTimer) Toggle() timerdto.StateOutput {
	s.toggles++
	s.state.Running = !s.state.Running
	return s.state
}
func (s *stubTimer) Tick() timerdto.StateOutput  { return s.state }
func (s *stubTimer) Reset() timerdto.StateOutput { return s.state }
func (s *stubTimer) Stop() timerdto.StateOutput {
	s.state = timerdto.StateOutput{Mode: "break", BreakKind: "break", RemainingBreakSeconds: 300, BreakSeconds: 300}
	return s.state
}
func (s *stubTimer) Skip() timerdto.StateOutput { return s.Stop() }
func (s *stubTimer) NextOutcome(ctx context.Context) (timerdto.Outcome, error) {
	<-ctx.Done()
	return timerdto.Outcome{}, ctx.Err()
}

type stubSession struct{}

func (stubSession) Day(_ context.Context, day string) (sessiondto.DayOutput, error) {
	return sessiondto.DayOutput{Day: day}, nil
}
func (stubSession) Pending(context.Context) ([]sessiondto.SessionOutput, error) { return nil, nil }
func (stubSession) Sync(context.Context) (sessiondto.SyncOutput, error) {
	return sessiondto.SyncOutput{}, nil
}

type stubSettings struct{ saved []int }

func (s *stubSettings) Show(context.Context) (settingsdto.SettingsOutput, error) {
	return settingsdto.SettingsOutput{ShortBreakMinutes: 5, LongBreakMinutes: 15, FlowsBeforeLongBreak: 4}, nil
}
func (s *stubSettings) Set(_ context.Context, short, long, every int) (settingsdto.SettingsOutput, error) {
	s.saved = []int{short, long, every}
	return settingsdto.SettingsOutput{ShortBreakMinutes: short, LongBreakMinutes: long, FlowsBeforeLongBreak: every}, nil
}

func newTestModel() (Model, *stubTimer, *stubSettings) {
	timer := &stubTimer{state: timerdto.StateOutput{Mode: "focus"}}
	settings := &stubSettings{}
	return NewModel(timer, stubSession{}, settings, time.UTC, nil), timer, settings
}

func TestPaletteTimerCommandSwitchesToTimerTab(t *testing.T) {
	t.Parallel()
	m, timer, _ := newTestModel()
	m.activeTab = tabSettings

	next, _ := m.Update(components.PaletteSubmitMsg{Input: "timer:start"})
	got := next.(Model)
	if got.activeTab != tabTimer {
		t.Fatalf("active tab = %d, want timer", got.activeTab)
	}
	if timer.toggles != 1 || !got.timerView.State().Running {
		t.Fatalf("timer was not started: toggles=%d", timer.toggles)
	}

	next, _ = got.Update(components.PaletteSubmitMsg{Input: "timer:start"})
	if timer.toggles != 1 {
		t.Fatalf("start on a running timer toggled it again")
	}
	_ = next
}

func TestPaletteSettingsSetRunsSave(t *testing.T) {
	t.Parallel()
	m, _, settings := newTestModel()

	next, cmd := m.Update(components.PaletteSubmitMsg{Input: "settings:set 3 20 2"})
	if cmd == nil {
		t.Fatalf("expected a save command")
	}
	msg := cmd()
	next, _ = next.(Model).Update(msg)
	if len(settings.saved) != 3 || settings.saved[0] != 3 || settings.saved[1] != 20 || settings.saved[2] != 2 {
		t.Fatalf("saved = %v", settings.saved)
	}
	if got := next.(Model); got.status != "settings saved" {
		t.Fatalf("status = %q", got.status)
	}
}

func TestPaletteRejectsBadInput(t *testing.T) {
	t.Parallel()
	m, _, settings := newTestModel()

	for _, input := range []string{"settings:set 3 0 2", "settings:set 3", "day:show 2024-13-40", "bogus"} {
		next, cmd := m.Update(components.PaletteSubmitMsg{Input: input})
		if cmd != nil {
			t.Fatalf("%q: unexpected command", input)
		}
		if got := next.(Model); got.status == "ready" {
			t.Fatalf("%q: status not updated", input)
		}
	}
	if settings.saved != nil {
		t.Fatalf("invalid input reached the store: %v", settings.saved)
	}
}

func TestTimerKeysOnlyReachActiveTab(t *testing.T) {
	t.Parallel()
	m, timer, _ := newTestModel()
	m.activeTab = tabTracking

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if timer.toggles != 0 {
		t.Fatalf("timer key handled on tracking tab")
	}
	got := next.(Model)
	got.activeTab = tabTimer
	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if timer.toggles != 1 {
		t.Fatalf("toggles = %d, want 1", timer.toggles)
	}
	got = next.(Model)
	got.width = 100
	if !strings.Contains(got.renderStatusBar(), "focus 00 : 00") {
		t.Fatalf("status bar missing clock: %q", got.renderStatusBar())
	}
}
