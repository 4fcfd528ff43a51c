package timer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "flowmodoro/internal/modules/timer/dto"
	"flowmodoro/internal/platform/format"
	"flowmodoro/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TimerPort interface {
	State() timerdto.StateOutput
	Toggle() timerdto.StateOutput
	Tick() timerdto.StateOutput
	Reset() timerdto.StateOutput
	Stop() timerdto.StateOutput
	Skip() timerdto.StateOutput
	NextOutcome(ctx context.Context) (timerdto.Outcome, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

// OutcomeMsg reports a persisted (or failed) interval. The app model uses it
// to refresh the tracking tab.
type OutcomeMsg struct {
	Outcome timerdto.Outcome
	Err     error
}

type bellMsg struct{}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   TimerPort
	bell   io.Writer
	state  timerdto.StateOutput
	last   string
	width  int
	height int
}

// New builds the timer tab. bell receives the terminal bell when a break
// begins; nil disables it.
func New(port TimerPort, bell io.Writer) Model {
	return Model{port: port, bell: bell, state: port.State()}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitOutcomeCmd())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		before := m.state
		m.state = m.port.Tick()
		return m, tea.Batch(tickCmd(), m.bellOnBreak(before))

	case OutcomeMsg:
		if msg.Err != nil {
			return m, nil
		}
		o := msg.Outcome
		label := fmt.Sprintf("%s %s (%s)", o.Kind, format.Duration(o.Seconds), o.Action)
		switch {
		case o.Err != nil:
			m.last = theme.Warn.Render("not saved: " + label)
		case o.Status == "buffered":
			m.last = theme.Hot.Render("saved offline: " + label)
		default:
			m.last = theme.Ok.Render("saved: " + label)
		}
		return m, m.waitOutcomeCmd()

	case bellMsg:
		return m, nil
	}
	return m, nil
}

// HandleKey applies a timer key binding. It reports whether the key was
// consumed.
func (m Model) HandleKey(key string) (Model, tea.Cmd, bool) {
	before := m.state
	switch key {
	case " ", "p":
		m.state = m.port.Toggle()
	case "r":
		m.state = m.port.Reset()
	case "s":
		m.state = m.port.Stop()
	case "k":
		m.state = m.port.Skip()
	default:
		return m, nil, false
	}
	return m, m.bellOnBreak(before), true
}

// Apply runs a named action from the command palette.
func (m Model) Apply(action string) (Model, tea.Cmd, bool) {
	keys := map[string]string{"toggle": " ", "reset": "r", "stop": "s", "skip": "k"}
	switch action {
	case "start":
		if m.state.Running {
			return m, nil, true
		}
		return m.HandleKey(" ")
	case "pause":
		if !m.state.Running {
			return m, nil, true
		}
		return m.HandleKey(" ")
	}
	key, ok := keys[action]
	if !ok {
		return m, nil, false
	}
	return m.HandleKey(key)
}

func (m Model) State() timerdto.StateOutput { return m.state }

func (m Model) View() string {
	s := m.state
	kind := "flow"
	heading := "Focus"
	if s.Mode == "break" {
		kind = s.BreakKind
		heading = "Break"
		if kind == "big_break" {
			heading = "Big break"
		}
	}
	status := "paused"
	if s.Running {
		status = "running"
	}

	var sb strings.Builder
	sb.WriteString(theme.Kind(kind).Render(heading) + "  " + theme.Muted.Render(status) + "\n\n")
	sb.WriteString(theme.Kind(kind).Render(format.Clock(s.DisplaySeconds)) + "\n\n")
	if s.Mode == "break" && s.BreakSeconds > 0 {
		sb.WriteString(progressBar(s.BreakSeconds-s.RemainingBreakSeconds, s.BreakSeconds, 30) + "\n\n")
	}
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("flows today: %d", s.FlowCount)) + "\n")
	if m.last != "" {
		sb.WriteString(m.last + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("space: start/pause  r: reset  s: stop  k: skip"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		theme.Pane.Render(sb.String()))
}

// ─── private ─────────────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) waitOutcomeCmd() tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.port.NextOutcome(context.Background())
		return OutcomeMsg{Outcome: outcome, Err: err}
	}
}

func (m Model) bellOnBreak(before timerdto.StateOutput) tea.Cmd {
	if m.bell == nil || before.Mode == "break" || m.state.Mode != "break" {
		return nil
	}
	w := m.bell
	return func() tea.Msg {
		_, _ = io.WriteString(w, "\a")
		return bellMsg{}
	}
}

func progressBar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	if done < 0 {
		done = 0
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	return theme.Ok.Render(strings.Repeat("█", filled)) + theme.Muted.Render(strings.Repeat("░", width-filled))
}
