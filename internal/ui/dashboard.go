package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/five82/librarian/internal/library"
)

type dashboardState struct {
	loading bool
	loaded  bool
	stats   library.Statistics
	recent  []library.Activity
	popular []library.PopularBook
	updated time.Time
}

type dashboardMsg struct {
	stats   library.Statistics
	recent  []library.Activity
	popular []library.PopularBook
	err     error
}

// loadDashboardCmd fetches statistics, recent activity and popular books
// concurrently. Any failure fails the whole load so the screen never mixes
// fresh and stale panels.
func (m Model) loadDashboardCmd() tea.Cmd {
	client, ctx := m.client, m.ctx
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		var msg dashboardMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			stats, err := client.FetchStatistics(gctx)
			msg.stats = stats
			return err
		})
		g.Go(func() error {
			recent, err := client.FetchRecentActivity(gctx)
			msg.recent = recent
			return err
		})
		g.Go(func() error {
			popular, err := client.FetchPopularBooks(gctx)
			msg.popular = popular
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

func (m Model) handleDashboard(msg dashboardMsg) (tea.Model, tea.Cmd) {
	m.dashboard.loading = false
	if msg.err != nil {
		m.fail("Failed to load dashboard data", msg.err)
		return m, nil
	}
	m.dashboard.loaded = true
	m.dashboard.stats = msg.stats
	m.dashboard.recent = msg.recent
	m.dashboard.popular = msg.popular
	m.dashboard.updated = m.clock()
	return m, nil
}

func (m Model) renderDashboard() string {
	width, height := m.width, m.contentHeight()
	if !m.dashboard.loaded {
		if m.dashboard.loading {
			return m.emptyState("Loading dashboard...", width, height)
		}
		return m.emptyState("Dashboard unavailable. Press R to retry.", width, height)
	}

	s := m.dashboard.stats
	cards := m.statRow(width,
		[3]string{"Total books", humanize.Comma(int64(s.TotalBooks)), m.theme.Accent},
		[3]string{"Active members", humanize.Comma(int64(s.ActiveMembers)), m.theme.Info},
		[3]string{"Books borrowed", humanize.Comma(int64(s.BooksBorrowed)), m.theme.Warning},
		[3]string{"Overdue books", humanize.Comma(int64(s.OverdueBooks)), m.theme.Danger},
	)

	gauges := m.renderTitledBox("Circulation", m.dashboardGauges(width-2), width, 4, false)

	remaining := max(height-lipgloss.Height(cards)-lipgloss.Height(gauges), 4)
	var panes string
	if width >= LayoutSplitWidth {
		left := width / 2
		panes = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderTitledBox("Recent Activity", m.recentActivityLines(left-2), left, remaining, true),
			m.renderTitledBox("Popular Books", m.popularBookLines(width-left-2), width-left, remaining, false),
		)
	} else {
		top := remaining / 2
		panes = lipgloss.JoinVertical(lipgloss.Left,
			m.renderTitledBox("Recent Activity", m.recentActivityLines(width-2), width, top, true),
			m.renderTitledBox("Popular Books", m.popularBookLines(width-2), width, remaining-top, false),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards, gauges, panes)
}

func (m Model) dashboardGauges(width int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	s := m.dashboard.stats

	barWidth := max(width-34, 10)
	gauge := func(label string, pct int, color string) string {
		return bg.Render(padRight(label, 20), styles.MutedText) +
			bg.Bar(float64(pct), 100, barWidth, color, m.theme.Faint) +
			bg.Render(fmt.Sprintf(" %3d%%", pct), styles.Text)
	}
	return gauge("Utilization", s.UtilizationRate(), m.theme.Accent) + "\n" +
		gauge("On-time returns", s.OnTimeReturnRate(), m.theme.Success)
}

func (m Model) recentActivityLines(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	if len(m.dashboard.recent) == 0 {
		return bg.Render("No recent activity", styles.FaintText)
	}

	now := m.clock()
	lines := make([]string, 0, len(m.dashboard.recent))
	for _, a := range m.dashboard.recent {
		status := strings.ToLower(strings.TrimSpace(a.Status))
		badge := styles.StatusStyle(status).Render(padRight(titleCase(status), 8))
		when := relativeTime(a.ParsedTime(), now)
		text := fmt.Sprintf("%s %s %s", a.UserName, activityVerb(status), a.BookTitle)
		avail := max(width-lipgloss.Width(badge)-lipgloss.Width(when)-3, 8)
		lines = append(lines,
			badge+bg.Space()+
				bg.Render(padRight(truncate(text, avail), avail), styles.Text)+bg.Space()+
				bg.Render(when, styles.FaintText))
	}
	return strings.Join(lines, "\n")
}

func activityVerb(status string) string {
	switch status {
	case "returned":
		return "returned"
	case "overdue":
		return "is overdue on"
	default:
		return "borrowed"
	}
}

func (m Model) popularBookLines(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	if len(m.dashboard.popular) == 0 {
		return bg.Render("No borrowing history yet", styles.FaintText)
	}

	lines := make([]string, 0, len(m.dashboard.popular))
	for i, p := range m.dashboard.popular {
		rank := bg.Render(fmt.Sprintf("%2d.", i+1), styles.AccentText)
		meta := fmt.Sprintf("%d %s  ★ %.1f", p.Borrows, plural(p.Borrows, "borrow", "borrows"), p.Rating)
		avail := max(width-lipgloss.Width(meta)-6, 8)
		lines = append(lines,
			rank+bg.Space()+
				bg.Render(padRight(truncate(p.Title, avail), avail), styles.Text)+bg.Space()+
				bg.Render(meta, styles.WarningText))
	}
	return strings.Join(lines, "\n")
}
