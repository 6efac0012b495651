package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aharlow/nowbar/internal/engine"
	"github.com/aharlow/nowbar/internal/playback"
)

const (
	prompt       = "❯ "
	introCommand = "nowbar watch"
	minBarWidth  = 10
	maxBarWidth  = 50
)

// Model represents the widget application state.
//
// The model owns no network or timer state beyond the frame tick; the poller
// publishes into store from its own goroutine and restart re-arms it after a
// session idles out.
type Model struct {
	store   *engine.Store
	restart func()
	typing  bool
	intro   *Typist
	typist  *Typist
	bar     progress.Model
	help    help.Model
	keys    keyMap
	now     time.Time
	width   int
}

// NewModel creates a widget model reading snapshots from store.
//
// restart begins a new polling session when the user refreshes an idle
// widget; typing enables the typewriter reveal.
func NewModel(store *engine.Store, restart func(), typing bool) *Model {
	m := &Model{
		store:   store,
		restart: restart,
		typing:  typing,
		bar:     progress.New(progress.WithDefaultGradient()),
		help:    help.New(),
		keys:    newKeyMap(),
		now:     time.Now(),
	}
	if typing {
		m.intro = NewTypist(introCommand, m.now)
	}
	return m
}

// Init starts the frame tick.
func (m *Model) Init() tea.Cmd {
	return nextFrame()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.refresh):
			if m.restart != nil && m.store.Snapshot().State == engine.StateIdle {
				m.restart()
			}
			return m, nil
		}
		return m, nil

	case Msg:
		if msg.kind == MsgFrame {
			m.now = msg.data.(time.Time)
			m.syncTypist()
			return m, nextFrame()
		}
	}

	return m, nil
}

// syncTypist restarts the reveal whenever the status line changes. The old
// line keeps typing until the snapshot actually carries a new message, so
// intermediate poll results never cut a reveal short.
func (m *Model) syncTypist() {
	if !m.typing || !m.intro.Done(m.now) {
		return
	}

	snap := m.store.Snapshot()
	if !snap.HasStatus {
		return
	}
	if m.typist == nil || m.typist.Text() != snap.Status.Message {
		m.typist = NewTypist(snap.Status.Message, m.now)
	}
}

// View renders the widget from the latest snapshot.
func (m *Model) View() string {
	if m.typing && !m.intro.Done(m.now) {
		return fmt.Sprintf("%s%s%s\n", styles.dim.Render(prompt), m.intro.Visible(m.now), cursor())
	}

	snap := m.store.Snapshot()

	if !snap.HasStatus {
		if snap.IsOffline() {
			return m.frame(styles.err.Render("Widget offline"), m.offlineLine(snap))
		}
		return m.frame(styles.dim.Render("Connecting..."), "")
	}

	body := m.statusLine(snap)

	if snap.Status.IsPlaying && snap.Status.Track != nil {
		body += "\n\n" + m.progressView(snap)
	}

	if snap.IsOffline() {
		body += "\n\n" + m.offlineLine(snap)
	}

	return m.frame(body, "")
}

// statusLine renders the message, through the typewriter when enabled.
func (m *Model) statusLine(snap engine.Snapshot) string {
	line := snap.Status.Message
	trailing := ""
	if m.typing && m.typist != nil {
		line = m.typist.Visible(m.now)
		if !m.typist.Done(m.now) {
			trailing = cursor()
		}
	}

	if snap.Status.IsPlaying {
		return styles.ok.Render(line) + trailing
	}
	return styles.dim.Render(line) + trailing
}

// progressView renders the animated bar with a position clock. Position comes
// from the snapshot's extrapolation clock, so the bar moves every frame even
// though polls are many seconds apart.
func (m *Model) progressView(snap engine.Snapshot) string {
	progressMs := snap.ProgressMs(m.now)
	durationMs := snap.Status.DurationMs
	if snap.Clock != nil {
		durationMs = snap.Clock.DurationMs()
	}

	percent := playback.Percent(progressMs, durationMs) / 100
	clock := playback.FormatClockPair(progressMs, durationMs)

	return fmt.Sprintf("%s  %s", m.bar.ViewAs(percent), styles.help.Render(clock))
}

func (m *Model) offlineLine(snap engine.Snapshot) string {
	line := fmt.Sprintf("offline, %d failed polls", snap.ConsecutiveFailures)
	if snap.LastError != nil {
		line = fmt.Sprintf("%s (%v)", line, snap.LastError)
	}
	return styles.warn.Render(line)
}

// frame wraps the body with the session footer and contextual help.
func (m *Model) frame(body, extra string) string {
	snap := m.store.Snapshot()

	helpKeys := []key.Binding{m.keys.quit}
	if snap.State == engine.StateIdle && m.restart != nil {
		helpKeys = []key.Binding{m.keys.refresh, m.keys.quit}
	}
	helpView := m.help.ShortHelpView(helpKeys)

	if extra != "" {
		body = fmt.Sprintf("%s\n\n%s", body, extra)
	}
	return fmt.Sprintf("%s\n\n%s\n", body, helpView)
}

func cursor() string {
	return styles.dim.Render("▌")
}

func barWidth(width int) int {
	w := width - 12
	if w < minBarWidth {
		w = minBarWidth
	}
	if w > maxBarWidth {
		w = maxBarWidth
	}
	return w
}
