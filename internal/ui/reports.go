package ui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/five82/librarian/internal/borrowing"
	"github.com/five82/librarian/internal/library"
)

// maxChartBars caps the rows of a single chart.
const maxChartBars = 8

type reportsState struct {
	loading bool
	loaded  bool
	popular []library.PopularBook
	overdue []library.BorrowRecord
	books   []library.Book
	updated time.Time
}

type reportsMsg struct {
	popular []library.PopularBook
	overdue []library.BorrowRecord
	books   []library.Book
	err     error
}

type barItem struct {
	label string
	value int
	color string
}

func (m Model) loadReportsCmd() tea.Cmd {
	client, ctx := m.client, m.ctx
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		var msg reportsMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			popular, err := client.FetchPopularBooks(gctx)
			msg.popular = popular
			return err
		})
		g.Go(func() error {
			overdue, err := client.ListOverdueBorrows(gctx)
			msg.overdue = overdue
			return err
		})
		g.Go(func() error {
			books, err := client.ListBooks(gctx)
			msg.books = books
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

func (m Model) handleReports(msg reportsMsg) (tea.Model, tea.Cmd) {
	m.reports.loading = false
	if msg.err != nil {
		m.fail("Failed to load report data", msg.err)
		return m, nil
	}
	m.reports.loaded = true
	m.reports.popular = msg.popular
	m.reports.overdue = msg.overdue
	m.reports.books = msg.books
	m.reports.updated = m.clock()
	return m, nil
}

// ageingBuckets groups overdue records by how late they are.
func ageingBuckets(records []library.BorrowRecord, now time.Time) []barItem {
	buckets := []barItem{
		{label: "1-7 days"},
		{label: "8-14 days"},
		{label: "15-30 days"},
		{label: "31+ days"},
	}
	for _, r := range records {
		days := borrowing.DaysOverdue(r.ParsedDueDate(), now)
		switch {
		case days <= 7:
			buckets[0].value++
		case days <= 14:
			buckets[1].value++
		case days <= 30:
			buckets[2].value++
		default:
			buckets[3].value++
		}
	}
	return buckets
}

// categoryCounts counts books per category, largest first.
func categoryCounts(books []library.Book) []barItem {
	counts := make(map[string]int)
	for _, b := range books {
		counts[b.Category()]++
	}
	items := make([]barItem, 0, len(counts))
	for label, n := range counts {
		items = append(items, barItem{label: label, value: n})
	}
	slices.SortFunc(items, func(a, b barItem) int {
		if c := cmp.Compare(b.value, a.value); c != 0 {
			return c
		}
		return strings.Compare(a.label, b.label)
	})
	return items
}

func (m Model) renderReports() string {
	width, height := m.width, m.contentHeight()
	if !m.reports.loaded {
		if m.reports.loading {
			return m.emptyState("Loading reports...", width, height)
		}
		return m.emptyState("Reports unavailable. Press R to retry.", width, height)
	}

	popular := make([]barItem, 0, len(m.reports.popular))
	for _, p := range m.reports.popular {
		popular = append(popular, barItem{label: p.Title, value: p.Borrows, color: m.theme.Accent})
	}

	var mix []barItem
	if m.borrowing != nil {
		counts := m.borrowing.View(borrowing.TabAll).Summary.Tabs
		for _, t := range []borrowing.Tab{borrowing.TabBorrowed, borrowing.TabOverdue, borrowing.TabReturned} {
			mix = append(mix, barItem{label: titleCase(t.String()), value: counts.Count(t), color: m.theme.colorFor(t.String())})
		}
	}

	ageing := ageingBuckets(m.reports.overdue, m.clock())
	for i := range ageing {
		ageing[i].color = m.theme.Danger
	}
	categories := categoryCounts(m.reports.books)
	for i := range categories {
		categories[i].color = m.theme.Info
	}

	charts := []struct {
		title string
		items []barItem
	}{
		{"Most Borrowed Books", popular},
		{"Borrow Status Mix", mix},
		{fmt.Sprintf("Overdue Ageing · %d late", len(m.reports.overdue)), ageing},
		{"Catalog by Category", categories},
	}

	if width >= LayoutSplitWidth {
		half := width / 2
		rowHeight := height / 2
		box := func(i, w, h int) string {
			return m.renderTitledBox(charts[i].title, m.barChart(charts[i].items, w-2), w, h, i == 0)
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, box(0, half, rowHeight), box(1, width-half, rowHeight)),
			lipgloss.JoinHorizontal(lipgloss.Top, box(2, half, height-rowHeight), box(3, width-half, height-rowHeight)),
		)
	}

	boxHeight := max(height/len(charts), 4)
	boxes := make([]string, 0, len(charts))
	for i, c := range charts {
		boxes = append(boxes, m.renderTitledBox(c.title, m.barChart(c.items, width-2), width, boxHeight, i == 0))
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

// barChart renders one labelled horizontal bar per item, scaled to the
// largest value.
func (m Model) barChart(items []barItem, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	if len(items) == 0 {
		return bg.Render("No data", styles.FaintText)
	}
	if len(items) > maxChartBars {
		items = items[:maxChartBars]
	}

	peak := 0
	for _, it := range items {
		peak = max(peak, it.value)
	}
	labelW := min(max(width/3, 10), 28)
	valueW := 6
	barW := max(width-labelW-valueW-2, 4)

	lines := make([]string, 0, len(items))
	for _, it := range items {
		color := it.color
		if color == "" {
			color = m.theme.Accent
		}
		lines = append(lines,
			bg.Render(padRight(truncate(it.label, labelW), labelW), styles.MutedText)+bg.Space()+
				bg.Bar(float64(it.value), float64(peak), barW, color, m.theme.Faint)+
				bg.Render(fmt.Sprintf("%*d", valueW, it.value), styles.Text))
	}
	return strings.Join(lines, "\n")
}
