package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "mdt8/internal/modules/tracker/dto"
	"mdt8/internal/platform/clock"
	"mdt8/internal/platform/duration"
	"mdt8/internal/ui/theme"
)

const (
	tickInterval    = time.Second
	refreshInterval = 30 * time.Second
	barWidth        = 30
)

type trackerPort interface {
	Status(ctx context.Context) (trackerdto.Result, error)
	Start(ctx context.Context) (trackerdto.Result, error)
	Stop(ctx context.Context) (trackerdto.Result, error)
	Cancel(ctx context.Context) (trackerdto.Result, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type resultMsg struct {
	seq    int
	result trackerdto.Result
	err    error
}

type tickMsg time.Time

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Start  key.Binding
	Stop   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Start:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Stop:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Cancel: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Cancel, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is a live view of today's tally. Between refreshes the running
// session is extrapolated from the last result. At most one tracker call is
// in flight; keys and refreshes arriving meanwhile are dropped.
type Model struct {
	tracker   trackerPort
	clock     clock.Clock
	keys      keyMap
	help      help.Model
	result    trackerdto.Result
	loaded    bool
	fetchedAt time.Time
	now       time.Time
	status    string
	width     int
	seq       int
	pending   bool
}

func NewModel(tracker trackerPort, clk clock.Clock) Model {
	now := clk.Now()
	return Model{
		tracker: tracker,
		clock:   clk,
		keys:    defaultKeys(),
		help:    help.New(),
		now:     now,
		status:  "loading",
		seq:     1,
		pending: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.call(m.seq, m.tracker.Status), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) call(seq int, fn func(context.Context) (trackerdto.Result, error)) tea.Cmd {
	return func() tea.Msg {
		result, err := fn(context.Background())
		return resultMsg{seq: seq, result: result, err: err}
	}
}

// request issues fn unless another call is still outstanding.
func (m Model) request(fn func(context.Context) (trackerdto.Result, error)) (Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	m.seq++
	m.pending = true
	return m, m.call(m.seq, fn)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tickMsg:
		m.now = m.clock.Now()
		if m.loaded && m.now.Sub(m.fetchedAt) >= refreshInterval {
			next, refresh := m.request(m.tracker.Status)
			return next, tea.Batch(refresh, tick())
		}
		return m, tick()

	case resultMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.pending = false
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		m.result = msg.result
		m.loaded = true
		m.fetchedAt = m.clock.Now()
		m.now = m.fetchedAt
		m.status = describe(msg.result)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			return m.request(m.tracker.Start)
		case key.Matches(msg, m.keys.Stop):
			return m.request(m.tracker.Stop)
		case key.Matches(msg, m.keys.Cancel):
			return m.request(m.tracker.Cancel)
		}
	}
	return m, nil
}

func describe(result trackerdto.Result) string {
	if result.OpErr != nil {
		return fmt.Sprintf("could not %s session: %s", result.Command.Kind, result.OpErr)
	}
	switch result.Command.Kind {
	case trackerdto.CommandStart:
		return "started timer, breathe deeply and relax"
	case trackerdto.CommandStop:
		return "stopped timer"
	case trackerdto.CommandCancel:
		return "cancelled ongoing session"
	}
	if result.RolledDay != nil {
		return "new day, " + duration.Format(result.RolledDay.Completed) + " recorded yesterday"
	}
	return "ready"
}

// ─── view ────────────────────────────────────────────────────────────────────

// Elapsed is the running session length as of the last tick.
func (m Model) Elapsed() time.Duration {
	if !m.result.InSession {
		return 0
	}
	since := m.now.Sub(m.fetchedAt)
	if since < 0 {
		since = 0
	}
	return m.result.SessionElapsed + since
}

// Today is the committed total plus the running session.
func (m Model) Today() time.Duration {
	return m.result.CompletedToday + m.Elapsed()
}

func (m Model) View() string {
	if !m.loaded {
		return theme.Muted.Render(m.status) + "\n"
	}
	lines := []string{
		theme.Title.Render("mdt8 · mindfulness"),
		"",
		"Goal    " + duration.Format(m.result.Goal),
		"Today   " + duration.Format(m.Today()),
	}
	pane := theme.Pane
	if m.result.InSession {
		pane = theme.PaneActive
		lines = append(lines, "Session "+theme.Hot.Render(duration.Clock(m.Elapsed())))
	} else {
		lines = append(lines, "Session "+theme.Muted.Render("idle"))
	}
	lines = append(lines, "", m.renderBar())

	status := theme.Muted.Render(m.status)
	if m.result.OpErr != nil {
		status = theme.Fail.Render(m.status)
	}
	body := pane.Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, body, status, m.help.View(m.keys))
}

func (m Model) renderBar() string {
	ratio := 1.0
	if m.result.Goal > 0 {
		ratio = float64(m.Today()) / float64(m.result.Goal)
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * barWidth)
	bar := theme.BarFilled.Render(strings.Repeat("█", filled)) + theme.BarEmpty.Render(strings.Repeat("░", barWidth-filled))
	label := fmt.Sprintf(" %3.0f%%", ratio*100)
	if ratio >= 1 {
		label = theme.Done.Render(" goal reached")
	}
	return bar + label
}
