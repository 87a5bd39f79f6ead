package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/librarian/internal/borrowing"
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

// notice is a transient one-line message shown in the header.
type notice struct {
	text  string
	kind  noticeKind
	until time.Time
}

func (n notice) expired(now time.Time) bool {
	return n.text != "" && !now.Before(n.until)
}

func (m *Model) notify(kind noticeKind, text string) {
	m.notice = notice{text: text, kind: kind, until: m.clock().Add(NoticeDuration)}
}

// fail shows a generic failure notice and logs the cause. Screens keep the
// data they already had.
func (m *Model) fail(text string, err error) {
	m.logger.Warn(strings.ToLower(text), "view", m.currentView.String(), "error", err)
	m.notify(noticeError, text)
}

// renderHeader renders the title bar: logo, view tabs, and either the
// current notice or the connection state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("librarian", styles.Logo)}

	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := v.String()
		if compact {
			label = label[:3]
		}
		label = fmt.Sprintf("%d %s", i+1, label)
		if v == m.currentView {
			tabs = append(tabs, bg.Render(label, styles.AccentText.Bold(true).Underline(true)))
		} else {
			tabs = append(tabs, bg.Render(label, styles.MutedText))
		}
	}
	parts = append(parts, bg.Join(tabs, " "))

	if m.busy() {
		parts = append(parts, bg.Render(m.spinner.View(), styles.WarningText))
	}

	if m.notice.text != "" {
		style := styles.InfoText
		switch m.notice.kind {
		case noticeSuccess:
			style = styles.SuccessText
		case noticeError:
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(m.notice.text, style))
	} else if status := m.connectionStatus(styles, bg); status != "" {
		parts = append(parts, status)
	}

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(bg.Join(parts, "  ") + sep)
}

// connectionStatus reflects the last borrowing refresh, the one snapshot
// the console keeps.
func (m Model) connectionStatus(styles Styles, bg BgStyle) string {
	if m.borrowing == nil {
		return ""
	}
	view := m.borrowing.View(borrowing.TabAll)
	switch {
	case view.Offline:
		return bg.Render("● OFFLINE", styles.DangerText)
	case view.LastError != nil && !view.Loaded:
		return bg.Render("● Backend unreachable", styles.DangerText)
	case view.Loaded:
		return bg.Render("● Online", styles.SuccessText) + bg.Space() +
			bg.Render("updated "+relativeTime(view.LastUpdated, m.clock()), styles.FaintText)
	default:
		return bg.Render("Connecting...", styles.WarningText.Bold(true))
	}
}

// renderCommandBar renders the per-view key hints, or the search prompt
// while it is open.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.search.active {
		label := bg.Render("Search "+m.search.target.String()+":", styles.AccentText) + bg.Space()
		hint := bg.Spaces(2) + bg.Render("Enter: Apply  Esc: Cancel", styles.FaintText)
		return styles.Header.Width(m.width).MaxWidth(m.width).Render(label + m.search.input.View() + hint)
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewBooks:
		commands = []cmd{
			{"/", "Search"},
			{"a", "Add"},
			{"u", "Edit"},
			{"x", "Delete"},
			{"+/-", "Copies"},
			{"c", m.books.categoryLabel()},
		}
	case ViewMembers:
		commands = []cmd{
			{"/", "Search"},
			{"a", "Add"},
			{"u", "Edit"},
			{"x", "Delete"},
			{"enter", "History"},
		}
	case ViewBorrowing:
		commands = []cmd{
			{"f", titleCase(m.borrow.tab.String())},
			{"s", "Source"},
			{"/", "Search"},
			{"n", "New"},
			{"r", "Return"},
		}
	case ViewAssistant:
		commands = []cmd{
			{"i", "Compose"},
			{"p", "Suggest"},
			{"j/k", "Scroll"},
		}
	case ViewActivity:
		followLabel := "Pause"
		if !m.activity.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"f", "Level " + m.activity.minLevel},
			{"j/k", "Scroll"},
		}
	default:
		commands = []cmd{
			{"1-7", "Views"},
		}
	}
	commands = append(commands, cmd{"R", "Reload"}, cmd{"?", "More"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// statCard renders a small titled number block used by the dashboard and
// borrowing views.
func (m Model) statCard(label, value, color string, width int) string {
	bg := NewBgStyle(m.theme.Surface)
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)

	inner := max(width-2, 4)
	lines := []string{
		bg.FillLine(bg.Space()+bg.Render(truncate(label, inner), styles.MutedText), width),
		bg.FillLine(bg.Space()+bg.Render(truncate(value, inner), valueStyle), width),
	}
	return strings.Join(lines, "\n")
}

// statRow lays out cards side by side across width.
func (m Model) statRow(width int, cards ...[3]string) string {
	if len(cards) == 0 {
		return ""
	}
	gap := 1
	cardWidth := max((width-gap*(len(cards)-1))/len(cards), 8)
	rendered := make([]string, 0, len(cards)*2)
	spacer := NewBgStyle(m.theme.Background).Spaces(gap)
	for i, c := range cards {
		rendered = append(rendered, m.statCard(c[0], c[1], c[2], cardWidth))
		if i < len(cards)-1 {
			rendered = append(rendered, spacer+"\n"+spacer)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
