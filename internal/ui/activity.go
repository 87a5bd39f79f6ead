package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/librarian/internal/logtail"
)

// activityLevels is the cycle of minimum levels for the activity log.
var activityLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

type activityState struct {
	entries  []logtail.Entry
	viewport viewport.Model
	follow   bool
	minLevel string
	err      error
}

func newActivityState() activityState {
	return activityState{viewport: viewport.New(80, 10), follow: true, minLevel: "INFO"}
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

func (m Model) loadActivityCmd() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, LogBufferLimit)
		return activityMsg{entries: entries, err: err}
	}
}

func (m Model) handleActivity(msg activityMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Only report the first failure; the tick keeps retrying while following.
		if m.activity.err == nil {
			m.fail("Failed to read activity log", msg.err)
		}
		m.activity.err = msg.err
		return m, nil
	}
	m.activity.err = nil
	m.activity.entries = msg.entries
	m.activity.refreshViewport(m.theme)
	return m, nil
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.activity.follow = !m.activity.follow
		if m.activity.follow {
			m.activity.viewport.GotoBottom()
			return m, m.loadActivityCmd()
		}
	case key.Matches(msg, m.keys.CycleFilter):
		m.activity.minLevel = nextLevel(m.activity.minLevel)
		m.activity.refreshViewport(m.theme)
	case key.Matches(msg, m.keys.Down):
		m.activity.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.activity.follow = false
		m.activity.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.activity.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.activity.follow = false
		m.activity.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.Top):
		m.activity.follow = false
		m.activity.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.activity.viewport.GotoBottom()
	}
	return m, nil
}

func nextLevel(current string) string {
	for i, l := range activityLevels {
		if l == current {
			return activityLevels[(i+1)%len(activityLevels)]
		}
	}
	return activityLevels[0]
}

// refreshViewport re-renders the filtered entries. While following, the
// view stays pinned to the newest line.
func (s *activityState) refreshViewport(theme Theme) {
	s.viewport.SetContent(renderLogEntries(theme, logtail.Filter(s.entries, s.minLevel)))
	if s.follow {
		s.viewport.GotoBottom()
	}
}

func renderLogEntries(theme Theme, entries []logtail.Entry) string {
	styles := theme.Styles().WithBackground(theme.FocusBg)
	if len(entries) == 0 {
		return styles.FaintText.Render("No log entries yet")
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		var b strings.Builder
		if !e.Time.IsZero() {
			b.WriteString(styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
			b.WriteString(styles.Text.Render(" "))
		}
		if e.Level != "" {
			levelStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(theme.colorFor(e.Level))).
				Background(lipgloss.Color(theme.FocusBg)).
				Bold(e.Level == "ERROR")
			b.WriteString(levelStyle.Render(padRight(e.Level, 5)))
			b.WriteString(styles.Text.Render(" "))
		}
		b.WriteString(styles.Text.Render(e.Message))
		if attrs := e.AttrString(); attrs != "" {
			b.WriteString(styles.MutedText.Render("  " + attrs))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderActivity() string {
	width, height := m.width, m.contentHeight()
	title := "Activity · " + truncateMiddle(m.logPath, max(width/2, 20)) + " · ≥ " + m.activity.minLevel
	if m.logPath == "" {
		return m.emptyState("No log file configured", width, height)
	}
	if m.activity.follow {
		title += " · following"
	}
	return m.renderTitledBox(title, m.activity.viewport.View(), width, height, true)
}
