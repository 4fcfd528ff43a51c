package settings

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	settingsdto "flowmodoro/internal/modules/settings/dto"
	"flowmodoro/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SettingsPort interface {
	Show(ctx context.Context) (settingsdto.SettingsOutput, error)
	Set(ctx context.Context, shortBreak, longBreak, flowsBeforeLong int) (settingsdto.SettingsOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Settings settingsdto.SettingsOutput
	Err      error
}

type SavedMsg struct {
	Settings settingsdto.SettingsOutput
	Err      error
}

// ─── model ───────────────────────────────────────────────────────────────────

var labels = []string{"Short break (min)", "Long break (min)", "Flows before long break"}

type Model struct {
	port   SettingsPort
	inputs []textinput.Model
	focus  int
	status string
	width  int
	height int
}

func New(port SettingsPort) Model {
	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 4
		ti.Width = 6
		ti.Validate = digitsOnly
		inputs[i] = ti
	}
	return Model{port: port, inputs: inputs}
}

func (m Model) Init() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		s, err := port.Show(context.Background())
		return LoadedMsg{Settings: s, Err: err}
	}
}

// Active reports whether a field has focus. While it does the app model
// sends every key here.
func (m Model) Active() bool {
	for _, in := range m.inputs {
		if in.Focused() {
			return true
		}
	}
	return false
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.status = theme.Warn.Render(msg.Err.Error())
			return m, nil
		}
		m.fill(msg.Settings)
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.status = theme.Warn.Render("not saved: " + msg.Err.Error())
			return m, nil
		}
		m.fill(msg.Settings)
		m.blur()
		m.status = theme.Ok.Render("saved, applies to the next break")
		return m, nil

	case tea.KeyMsg:
		if !m.Active() {
			if msg.String() == "e" || msg.String() == "enter" {
				m.focus = 0
				m.status = ""
				return m, m.inputs[0].Focus()
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.blur()
			m.status = theme.Muted.Render("edit cancelled")
			return m, m.Init()
		case "tab", "down":
			return m, m.move(1)
		case "shift+tab", "up":
			return m, m.move(-1)
		case "enter":
			if m.focus < len(m.inputs)-1 {
				return m, m.move(1)
			}
			return m, m.saveCmd()
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Timer settings") + "\n\n")
	for i, in := range m.inputs {
		label := lipgloss.NewStyle().Width(26).Render(labels[i])
		if in.Focused() {
			label = theme.Hot.Width(26).Render(labels[i])
		}
		sb.WriteString(label + in.View() + "\n")
	}
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(m.status + "\n\n")
	}
	if m.Active() {
		sb.WriteString(theme.Muted.Render("tab: next field  enter: save  esc: cancel"))
	} else {
		sb.WriteString(theme.Muted.Render("e: edit"))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Pane.Render(sb.String()))
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) fill(s settingsdto.SettingsOutput) {
	values := []int{s.ShortBreakMinutes, s.LongBreakMinutes, s.FlowsBeforeLongBreak}
	for i, v := range values {
		m.inputs[i].SetValue(strconv.Itoa(v))
	}
}

func (m *Model) blur() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) move(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m Model) saveCmd() tea.Cmd {
	values := make([]int, len(m.inputs))
	for i, in := range m.inputs {
		v, err := strconv.Atoi(strings.TrimSpace(in.Value()))
		if err != nil || v < 1 {
			label := labels[i]
			return func() tea.Msg {
				return SavedMsg{Err: errInvalid(label)}
			}
		}
		values[i] = v
	}
	return m.SetCmd(values[0], values[1], values[2])
}

// SetCmd saves the given values without going through the form.
func (m Model) SetCmd(shortBreak, longBreak, flowsBeforeLong int) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		s, err := port.Set(context.Background(), shortBreak, longBreak, flowsBeforeLong)
		return SavedMsg{Settings: s, Err: err}
	}
}

type errInvalid string

func (e errInvalid) Error() string { return string(e) + " must be a positive number" }

func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return errInvalid("value")
		}
	}
	return nil
}
