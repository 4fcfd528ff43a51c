package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	sessiondto "flowmodoro/internal/modules/session/dto"
	"flowmodoro/internal/platform/format"
	"flowmodoro/internal/platform/localday"
	"flowmodoro/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TrackingPort interface {
	Day(ctx context.Context, day string) (sessiondto.DayOutput, error)
	Pending(ctx context.Context) ([]sessiondto.SessionOutput, error)
	Sync(ctx context.Context) (sessiondto.SyncOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type DayLoadedMsg struct {
	Day     sessiondto.DayOutput
	Pending int
	Err     error
}

type SyncedMsg struct {
	Report sessiondto.SyncOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session sessiondto.SessionOutput
	now     time.Time
}

func (i sessionItem) Title() string {
	return fmt.Sprintf("%s  %s", i.session.Kind, format.Duration(i.session.Seconds))
}

func (i sessionItem) Description() string {
	parts := []string{}
	if ts, err := time.Parse(time.RFC3339, i.session.Timestamp); err == nil {
		parts = append(parts, humanize.RelTime(ts, i.now, "ago", "from now"))
	}
	if i.session.Action != "" {
		parts = append(parts, i.session.Action)
	}
	if !i.session.Confirmed {
		parts = append(parts, "pending sync")
	}
	return strings.Join(parts, " · ")
}

func (i sessionItem) FilterValue() string { return i.session.Kind + " " + i.session.Action }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    TrackingPort
	now     func() time.Time
	loc     *time.Location
	day     string
	data    sessiondto.DayOutput
	pending int
	list    list.Model
	spinner spinner.Model
	loading bool
	status  string
	width   int
	height  int
}

func New(port TrackingPort, now func() time.Time, loc *time.Location) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	if now == nil {
		now = time.Now
	}
	return Model{
		port:    port,
		now:     now,
		loc:     loc,
		day:     localday.Of(now(), loc),
		list:    l,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.LoadDay(m.day), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width*5/10, m.height)

	case DayLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.status = theme.Warn.Render(msg.Err.Error())
			return m, nil
		}
		m.data = msg.Day
		m.day = msg.Day.Day
		m.pending = msg.Pending
		now := m.now()
		items := make([]list.Item, 0, len(msg.Day.Sessions))
		for _, s := range msg.Day.Sessions {
			items = append(items, sessionItem{session: s, now: now})
		}
		m.list.Title = "Sessions " + m.day
		cmds = append(cmds, m.list.SetItems(items))

	case SyncedMsg:
		if msg.Err != nil {
			m.status = theme.Warn.Render("sync failed: " + msg.Err.Error())
			return m, nil
		}
		r := msg.Report
		if r.Skipped {
			m.status = theme.Muted.Render("sync already running")
		} else {
			m.status = fmt.Sprintf("synced %d/%d (%d failed)", r.Confirmed, r.Attempted, r.Failed)
		}
		return m, m.LoadDay(m.day)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// HandleKey moves between days and triggers a sync. It reports whether the
// key was consumed.
func (m Model) HandleKey(key string) (Model, tea.Cmd, bool) {
	switch key {
	case "h", "left":
		return m, m.shift(-1), true
	case "l", "right":
		return m, m.shift(1), true
	case "t":
		return m, m.LoadDay(localday.Of(m.now(), m.loc)), true
	case "S":
		m.status = "syncing…"
		return m, m.SyncCmd(), true
	}
	return m, nil, false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Pending() int { return m.pending }

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading day…")
	}
	listW := m.width * 5 / 10
	summaryW := m.width - listW

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(m.day) + "\n\n")
	for _, t := range m.data.Totals {
		label := fmt.Sprintf("%-10s", t.Kind)
		sb.WriteString(theme.Kind(t.Kind).Render(label) + fmt.Sprintf(" %-8s %s\n", format.Duration(t.TotalSeconds), theme.Muted.Render(fmt.Sprintf("%d sessions", len(t.Sessions)))))
	}
	sb.WriteString("\n")
	if m.pending > 0 {
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("%d pending sync", m.pending)) + "\n")
	} else {
		sb.WriteString(theme.Ok.Render("all sessions synced") + "\n")
	}
	if m.status != "" {
		sb.WriteString(m.status + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("h/l: day  t: today  S: sync now"))

	summary := theme.Pane.Width(summaryW - 2).Height(m.height - 2).Render(sb.String())
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, summary)
}

// LoadDay fetches day totals and the pending count.
func (m Model) LoadDay(day string) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		ctx := context.Background()
		out, err := port.Day(ctx, day)
		if err != nil {
			return DayLoadedMsg{Err: err}
		}
		pending, err := port.Pending(ctx)
		if err != nil {
			return DayLoadedMsg{Day: out, Err: err}
		}
		return DayLoadedMsg{Day: out, Pending: len(pending)}
	}
}

func (m Model) SyncCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		report, err := port.Sync(context.Background())
		return SyncedMsg{Report: report, Err: err}
	}
}

func (m Model) CurrentDay() string { return m.day }

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) shift(n int) tea.Cmd {
	day, err := localday.Shift(m.day, n)
	if err != nil {
		return nil
	}
	return m.LoadDay(day)
}
