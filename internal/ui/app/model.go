package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "flowmodoro/internal/modules/session/dto"
	settingsdto "flowmodoro/internal/modules/settings/dto"
	"flowmodoro/internal/platform/format"
	"flowmodoro/internal/platform/localday"
	"flowmodoro/internal/ui/components"
	"flowmodoro/internal/ui/theme"
	settingsview "flowmodoro/internal/ui/views/settings"
	timerview "flowmodoro/internal/ui/views/timer"
	trackingview "flowmodoro/internal/ui/views/tracking"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Day(ctx context.Context, day string) (sessiondto.DayOutput, error)
	Pending(ctx context.Context) ([]sessiondto.SessionOutput, error)
	Sync(ctx context.Context) (sessiondto.SyncOutput, error)
}

type settingsPort interface {
	Show(ctx context.Context) (settingsdto.SettingsOutput, error)
	Set(ctx context.Context, shortBreak, longBreak, flowsBeforeLong int) (settingsdto.SettingsOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabTracking
	tabSettings
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Tracking", "Settings"}

// hints must stay in sync with the switch in executePalette.
var paletteHints = []string{
	"timer:start",
	"timer:pause",
	"timer:reset",
	"timer:stop",
	"timer:skip",
	"day:show [YYYY-MM-DD]",
	"sync:now",
	"settings:set <short> <long> <flows>",
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Toggle  key.Binding
	Reset   key.Binding
	Stop    key.Binding
	Skip    key.Binding
	Day     key.Binding
	Sync    key.Binding
	Edit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "start/pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset interval")),
		Stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop interval")),
		Skip:    key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "skip interval")),
		Day:     key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "previous/next day")),
		Sync:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sync now")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit settings")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Stop, k.Skip},
		{k.Day, k.Sync, k.Edit},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette. The timer tab keeps ticking while other tabs are
// shown.
type Model struct {
	timerView    timerview.Model
	trackingView trackingview.Model
	settingsView settingsview.Model

	loc       *time.Location
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(timer timerview.TimerPort, session sessionPort, settings settingsPort, loc *time.Location, bell io.Writer) Model {
	return Model{
		timerView:    timerview.New(timer, bell),
		trackingView: trackingview.New(sessionPortBridge{p: session}, time.Now, loc),
		settingsView: settingsview.New(settingsPortBridge{p: settings}),
		loc:          loc,
		activeTab:    tabTimer,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(paletteHints),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.trackingView.Init(),
		m.settingsView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case timerview.OutcomeMsg:
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err == nil {
			if msg.Outcome.Err != nil {
				m.status = "session not saved: " + msg.Outcome.Err.Error()
			}
			cmds = append(cmds, m.trackingView.LoadDay(m.trackingView.CurrentDay()))
		}
		return m, tea.Batch(cmds...)

	case trackingview.DayLoadedMsg, trackingview.SyncedMsg:
		var cmd tea.Cmd
		m.trackingView, cmd = m.trackingView.Update(msg)
		return m, cmd

	case settingsview.LoadedMsg, settingsview.SavedMsg:
		var cmd tea.Cmd
		m.settingsView, cmd = m.settingsView.Update(msg)
		if saved, ok := msg.(settingsview.SavedMsg); ok && saved.Err == nil {
			m.status = "settings saved"
		}
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabSettings && m.settingsView.Active() {
			var cmd tea.Cmd
			m.settingsView, cmd = m.settingsView.Update(msg)
			return m, cmd
		}
		if m.activeTab == tabTracking && m.trackingView.Filtering() {
			var cmd tea.Cmd
			m.trackingView, cmd = m.trackingView.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}

		var cmd tea.Cmd
		handled := false
		switch m.activeTab {
		case tabTimer:
			m.timerView, cmd, handled = m.timerView.HandleKey(msg.String())
		case tabTracking:
			m.trackingView, cmd, handled = m.trackingView.HandleKey(msg.String())
		}
		if handled {
			return m, cmd
		}
		switch m.activeTab {
		case tabTracking:
			m.trackingView, cmd = m.trackingView.Update(msg)
		case tabSettings:
			m.settingsView, cmd = m.settingsView.Update(msg)
		}
		return m, cmd
	}

	// Everything else (ticks, spinner frames, bell) goes to every tab.
	var cmd tea.Cmd
	m.timerView, cmd = m.timerView.Update(msg)
	cmds = append(cmds, cmd)
	m.trackingView, cmd = m.trackingView.Update(msg)
	cmds = append(cmds, cmd)
	m.settingsView, cmd = m.settingsView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabTracking:
		return m.trackingView.View()
	case tabSettings:
		return m.settingsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	bar := "flowmodoro  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	state := m.timerView.State()
	face := fmt.Sprintf("%s %s", state.Mode, format.Clock(state.DisplaySeconds))
	if state.Running {
		face = theme.Hot.Render("● " + face)
	} else {
		face = theme.Muted.Render("○ " + face)
	}
	left := face + "  " + m.status
	if p := m.trackingView.Pending(); p > 0 {
		left += theme.Hot.Render(fmt.Sprintf("  %d pending", p))
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch {
	case strings.HasPrefix(parts[0], "timer:"):
		action := strings.TrimPrefix(parts[0], "timer:")
		var (
			cmd tea.Cmd
			ok  bool
		)
		m.timerView, cmd, ok = m.timerView.Apply(action)
		if !ok {
			m.status = "unknown command: " + parts[0]
			return m, nil
		}
		m.activeTab = tabTimer
		m.status = "timer " + action
		return m, cmd

	case parts[0] == "day:show":
		day := localday.Of(time.Now(), m.loc)
		if len(parts) > 1 {
			day = parts[1]
		}
		if !localday.Valid(day) {
			m.status = "usage: day:show [YYYY-MM-DD]"
			return m, nil
		}
		m.activeTab = tabTracking
		return m, m.trackingView.LoadDay(day)

	case parts[0] == "sync:now":
		m.activeTab = tabTracking
		m.status = "syncing…"
		return m, m.trackingView.SyncCmd()

	case parts[0] == "settings:set":
		if len(parts) != 4 {
			m.status = "usage: settings:set <short> <long> <flows>"
			return m, nil
		}
		var values [3]int
		for i := range values {
			if _, err := fmt.Sscanf(parts[i+1], "%d", &values[i]); err != nil || values[i] < 1 {
				m.status = "settings must be positive numbers"
				return m, nil
			}
		}
		m.activeTab = tabSettings
		return m, m.settingsView.SetCmd(values[0], values[1], values[2])
	}
	m.status = "unknown command: " + parts[0]
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.trackingView, _ = m.trackingView.Update(sz)
	m.settingsView, _ = m.settingsView.Update(sz)
}


// ─── port bridges ─────────────────────────────────────────────────────────────

type sessionPortBridge struct{ p sessionPort }

func (b sessionPortBridge) Day(ctx context.Context, day string) (sessiondto.DayOutput, error) {
	return b.p.Day(ctx, day)
}
func (b sessionPortBridge) Pending(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	return b.p.Pending(ctx)
}
func (b sessionPortBridge) Sync(ctx context.Context) (sessiondto.SyncOutput, error) {
	return b.p.Sync(ctx)
}

type settingsPortBridge struct{ p settingsPort }

func (b settingsPortBridge) Show(ctx context.Context) (settingsdto.SettingsOutput, error) {
	return b.p.Show(ctx)
}
func (b settingsPortBridge) Set(ctx context.Context, shortBreak, longBreak, flowsBeforeLong int) (settingsdto.SettingsOutput, error) {
	return b.p.Set(ctx, shortBreak, longBreak, flowsBeforeLong)
}
