package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/librarian/internal/borrowing"
	"github.com/five82/librarian/internal/library"
	"github.com/five82/librarian/internal/state"
)

// defaultLoanPeriod prefills the due date of the new borrowing form.
const defaultLoanPeriod = 14 * 24 * time.Hour

type borrowState struct {
	tab     borrowing.Tab
	query   borrowing.Query
	cursor  int
	pending bool
}

type borrowingMsg struct {
	action string // refresh, create or return
	record library.BorrowRecord
	err    error
}

// borrowForm holds the raw text of the new borrowing dialog.
type borrowForm struct {
	BookID  string `label:"Book ID" validate:"required,number"`
	UserID  string `label:"Member ID" validate:"required,number"`
	DueDate string `label:"Due date" validate:"required,datetime=2006-01-02"`
}

func (f borrowForm) request() (library.BorrowRequest, error) {
	if err := validate.Struct(f); err != nil {
		return library.BorrowRequest{}, err
	}
	bookID, err := strconv.ParseInt(f.BookID, 10, 64)
	if err != nil || bookID <= 0 {
		return library.BorrowRequest{}, errors.New("Book ID must be a positive number")
	}
	userID, err := strconv.ParseInt(f.UserID, 10, 64)
	if err != nil || userID <= 0 {
		return library.BorrowRequest{}, errors.New("Member ID must be a positive number")
	}
	due, _ := time.ParseInLocation(library.DateLayout, f.DueDate, time.Local)
	return library.NewBorrowRequest(bookID, userID, due), nil
}

func (m Model) refreshBorrowingCmd() tea.Cmd {
	vm, ctx, q := m.borrowing, m.ctx, m.borrow.query
	if vm == nil {
		return nil
	}
	return func() tea.Msg {
		return borrowingMsg{action: "refresh", err: vm.Refresh(ctx, q)}
	}
}

func (m Model) returnBorrowCmd(id int64) tea.Cmd {
	vm, ctx, q := m.borrowing, m.ctx, m.borrow.query
	return func() tea.Msg {
		rec, err := vm.Return(ctx, id, q)
		return borrowingMsg{action: "return", record: rec, err: err}
	}
}

func (m Model) handleBorrowing(msg borrowingMsg) (tea.Model, tea.Cmd) {
	// A stale refresh means a newer one is still in flight.
	if errors.Is(msg.err, state.ErrStale) {
		return m, nil
	}
	m.borrow.pending = false

	var refreshErr *borrowing.RefreshError
	if errors.As(msg.err, &refreshErr) {
		m.notify(noticeSuccess, fmt.Sprintf("Borrowing #%d %s", msg.record.ID, mutationVerb(msg.action)))
		m.fail("Failed to load borrowing data", refreshErr.Err)
		m.clampBorrowCursor()
		return m, nil
	}
	if msg.err != nil {
		switch msg.action {
		case "create":
			m.fail("Failed to create borrowing", msg.err)
		case "return":
			m.fail("Failed to return book", msg.err)
		default:
			m.fail("Failed to load borrowing data", msg.err)
		}
		return m, nil
	}
	if msg.action == "create" || msg.action == "return" {
		m.notify(noticeSuccess, fmt.Sprintf("Borrowing #%d %s", msg.record.ID, mutationVerb(msg.action)))
	}
	m.clampBorrowCursor()
	return m, nil
}

func mutationVerb(action string) string {
	if action == "return" {
		return "returned"
	}
	return "created"
}

func (m *Model) clampBorrowCursor() {
	n := len(m.borrowRows())
	m.borrow.cursor = max(min(m.borrow.cursor, n-1), 0)
}

func (m Model) borrowRows() []borrowing.Row {
	if m.borrowing == nil {
		return nil
	}
	return m.borrowing.View(m.borrow.tab).Rows
}

func (m Model) applyBorrowSearch(keyword string) (tea.Model, tea.Cmd) {
	m.borrow.query = m.borrow.query.WithKeyword(keyword)
	m.borrow.cursor = 0
	m.borrow.pending = true
	return m, m.refreshBorrowingCmd()
}

func (m Model) handleBorrowingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.borrowing == nil {
		return m, nil
	}
	rows := m.borrowRows()
	if idx, ok := m.moveCursor(msg, m.borrow.cursor, len(rows)); ok {
		m.borrow.cursor = idx
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.CycleFilter):
		m.borrow.tab = m.borrow.tab.Next()
		m.borrow.cursor = 0
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.CycleSource):
		m.borrow.query = m.borrow.query.NextSource()
		m.borrow.cursor = 0
		m.borrow.pending = true
		return m, m.refreshBorrowingCmd()

	case key.Matches(msg, m.keys.Search):
		return m, m.startSearch(m.borrow.query.Keyword)

	case key.Matches(msg, m.keys.NewBorrow):
		m.modal = m.borrowFormModal()
		return m, nil

	case key.Matches(msg, m.keys.ReturnBook):
		if m.borrow.cursor >= len(rows) {
			return m, nil
		}
		row := rows[m.borrow.cursor]
		if row.Status == borrowing.StatusReturned {
			m.notify(noticeInfo, fmt.Sprintf("%q was already returned", row.Title))
			return m, nil
		}
		m.modal = newConfirmModal("Return Book",
			fmt.Sprintf("Mark %q (borrowing #%d) as returned?", row.Title, row.Record.ID),
			tea.Sequence(func() tea.Msg { return borrowPendingMsg{} }, m.returnBorrowCmd(row.Record.ID)))
		return m, nil
	}
	return m, nil
}

// borrowPendingMsg marks a confirmed mutation as in flight.
type borrowPendingMsg struct{}

func (m Model) borrowFormModal() Modal {
	vm, ctx, q := m.borrowing, m.ctx, m.borrow.query
	due := m.borrowing.Now().Add(defaultLoanPeriod).Format(library.DateLayout)
	submit := func(v []string) (tea.Cmd, error) {
		req, err := borrowForm{BookID: v[0], UserID: v[1], DueDate: v[2]}.request()
		if err != nil {
			return nil, err
		}
		return tea.Sequence(
			func() tea.Msg { return borrowPendingMsg{} },
			func() tea.Msg {
				rec, err := vm.Create(ctx, req, q)
				return borrowingMsg{action: "create", record: rec, err: err}
			},
		), nil
	}
	return newFormModal("New Borrowing", submit,
		textField("Book ID", "", "required"),
		textField("Member ID", "", "required"),
		textField("Due date", due, "YYYY-MM-DD"),
	)
}

func (m Model) renderBorrowing() string {
	width, height := m.width, m.contentHeight()
	if m.borrowing == nil {
		return m.emptyState("Borrowing is not configured", width, height)
	}
	view := m.borrowing.View(m.borrow.tab)
	if !view.Loaded {
		if view.LastError != nil {
			return m.emptyState("Failed to load borrowing data. Press R to retry.", width, height)
		}
		return m.emptyState("Loading borrowing records...", width, height)
	}

	fine := "—"
	if view.HasFine {
		fine = formatMoney(view.TotalFine)
	}
	cards := m.statRow(width,
		[3]string{"Active loans", strconv.Itoa(view.Summary.ActiveCount), m.theme.Info},
		[3]string{"Overdue", strconv.Itoa(view.Summary.OverdueCount), m.theme.Danger},
		[3]string{"Returned today", strconv.Itoa(view.Summary.ReturnedTodayCount), m.theme.Success},
		[3]string{"Total fines", fine, m.theme.Warning},
	)

	tabBar := m.borrowTabBar(view, width)
	listHeight := max(height-lipgloss.Height(cards)-lipgloss.Height(tabBar), 4)
	title := fmt.Sprintf("Borrowings · %s · %d %s", view.Query, len(view.Rows), plural(len(view.Rows), "record", "records"))
	table := m.renderTitledBox(title, m.borrowTable(view.Rows, width-2, listHeight-2), width, listHeight, true)

	return lipgloss.JoinVertical(lipgloss.Left, cards, tabBar, table)
}

func (m Model) borrowTabBar(view borrowing.View, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	parts := make([]string, 0, len(borrowing.Tabs()))
	for _, t := range borrowing.Tabs() {
		label := fmt.Sprintf(" %s (%d) ", titleCase(t.String()), view.Summary.Tabs.Count(t))
		if t == m.borrow.tab {
			parts = append(parts, styles.Selected.Bold(true).Render(label))
		} else {
			parts = append(parts, bg.Render(label, styles.MutedText))
		}
	}
	right := ""
	if !view.LastUpdated.IsZero() {
		right = bg.Render("updated "+relativeTime(view.LastUpdated, m.clock()), styles.FaintText)
	}
	left := bg.Join(parts, " ")
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return bg.FillLine(left+bg.Spaces(gap)+right, width)
}

func (m Model) borrowTable(rows []borrowing.Row, width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	if len(rows) == 0 {
		return bg.Render("No borrowing records", styles.FaintText)
	}

	const idW, memberW, dateW, statusW, lateW = 6, 8, 11, 10, 12
	titleW := max(width-idW-memberW-dateW*2-statusW-lateW-6, 8)

	lines := []string{bg.Render(
		padRight("ID", idW)+" "+padRight("Book", titleW)+" "+padRight("Member", memberW)+" "+
			padRight("Borrowed", dateW)+" "+padRight("Due", dateW)+" "+padRight("Status", statusW)+" "+"Late/Fine",
		styles.FaintText.Bold(true))}

	start, end := visibleWindow(len(rows), m.borrow.cursor, max(height-1, 1))
	for i := start; i < end; i++ {
		row := rows[i]
		r := row.Record
		prefix := padRight(strconv.FormatInt(r.ID, 10), idW) + " " +
			padRight(truncate(row.Title, titleW), titleW) + " " +
			padRight("#"+strconv.FormatInt(r.UserID, 10), memberW) + " " +
			padRight(formatDate(r.ParsedBorrowDate()), dateW) + " " +
			padRight(formatDate(r.ParsedDueDate()), dateW) + " "
		status := padRight(titleCase(string(row.Status)), statusW-2)
		late := lateColumn(row)

		if i == m.borrow.cursor {
			lines = append(lines, styles.Selected.Width(width).Render(prefix+padRight(status, statusW)+" "+late))
			continue
		}
		badge := styles.StatusStyle(string(row.Status)).Render(status)
		lateStyle := styles.MutedText
		if row.Status == borrowing.StatusOverdue {
			lateStyle = styles.DangerText
		}
		lines = append(lines, bg.Render(prefix, styles.Text)+badge+bg.Space()+bg.Render(late, lateStyle))
	}
	return strings.Join(lines, "\n")
}

// lateColumn shows days overdue for late loans and any fine the backend
// has recorded.
func lateColumn(row borrowing.Row) string {
	var parts []string
	if row.Status == borrowing.StatusOverdue {
		parts = append(parts, fmt.Sprintf("%dd", row.DaysOverdue))
	}
	if row.Record.FineAmount.IsPositive() {
		parts = append(parts, formatMoney(row.Record.FineAmount))
	}
	return strings.Join(parts, " ")
}
