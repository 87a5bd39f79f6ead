package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/librarian/internal/borrowing"
	"github.com/five82/librarian/internal/library"
)

type membersState struct {
	loading bool
	loaded  bool
	list    []library.Member
	query   string // name filter; empty lists everyone
	cursor  int

	// Borrow history of the member last opened with enter.
	historyLoading bool
	historyFor     library.Member
	history        []library.BorrowRecord
	historyLoaded  bool
}

func (s membersState) visible(pageSize int) []library.Member {
	if len(s.list) > pageSize {
		return s.list[:pageSize]
	}
	return s.list
}

type membersMsg struct {
	members []library.Member
	query   string
	err     error
}

type memberSavedMsg struct {
	action  string
	member  library.Member
	deleted int64
	err     error
}

type historyMsg struct {
	member  library.Member
	records []library.BorrowRecord
	err     error
}

var errPasswordRequired = errors.New("Password is required")

// memberForm mirrors the member dialog. Password is only collected when
// registering a member.
type memberForm struct {
	Email     string `label:"Email" validate:"required,email"`
	Password  string `label:"Password"`
	FirstName string `label:"First name" validate:"required"`
	LastName  string `label:"Last name" validate:"required"`
	Phone     string `label:"Phone"`
	Role      string `label:"Role" validate:"required,oneof=ADMIN MEMBER LIBRARIAN"`
}

func (f memberForm) request(creating bool) (library.MemberRequest, error) {
	if err := validate.Struct(f); err != nil {
		return library.MemberRequest{}, err
	}
	if creating {
		if err := validate.Var(f.Password, "required"); err != nil {
			return library.MemberRequest{}, errPasswordRequired
		}
	}
	req := library.MemberRequest{
		Email:       f.Email,
		Password:    f.Password,
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		PhoneNumber: f.Phone,
		Role:        library.Role(f.Role),
	}
	if err := validate.Struct(req); err != nil {
		return library.MemberRequest{}, err
	}
	return req, nil
}

// loadMembersCmd lists members, filtered by name when query is set.
func (m Model) loadMembersCmd(query string) tea.Cmd {
	client, ctx := m.client, m.ctx
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		var (
			members []library.Member
			err     error
		)
		if query == "" {
			members, err = client.ListMembers(ctx)
		} else {
			members, err = client.SearchMembers(ctx, query)
		}
		return membersMsg{members: members, query: query, err: err}
	}
}

func (m Model) handleMembers(msg membersMsg) (tea.Model, tea.Cmd) {
	m.members.loading = false
	if msg.err != nil {
		m.fail("Failed to load members", msg.err)
		return m, nil
	}
	if msg.query != m.members.query {
		return m, nil
	}
	m.members.loaded = true
	m.members.list = msg.members
	m.members.cursor = min(m.members.cursor, max(len(m.members.visible(m.pageSize))-1, 0))
	return m, nil
}

func (m Model) handleMemberSaved(msg memberSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.fail("Failed to "+msg.action+" member", msg.err)
		return m, nil
	}
	if msg.action == "delete" {
		m.notify(noticeSuccess, fmt.Sprintf("Member #%d deleted", msg.deleted))
		if m.members.historyFor.ID == msg.deleted {
			m.members.historyLoaded = false
			m.members.history = nil
		}
	} else {
		m.notify(noticeSuccess, fmt.Sprintf("Member %s saved", msg.member.FullName()))
	}
	m.members.loading = true
	return m, m.loadMembersCmd(m.members.query)
}

func (m Model) handleHistory(msg historyMsg) (tea.Model, tea.Cmd) {
	m.members.historyLoading = false
	if msg.err != nil {
		m.fail("Failed to load borrow history", msg.err)
		return m, nil
	}
	m.members.historyFor = msg.member
	m.members.history = msg.records
	m.members.historyLoaded = true
	return m, nil
}

func (m Model) applyMemberSearch(query string) (tea.Model, tea.Cmd) {
	m.members.query = query
	m.members.cursor = 0
	m.members.loading = true
	return m, m.loadMembersCmd(query)
}

func (m Model) selectedMember() (library.Member, bool) {
	members := m.members.visible(m.pageSize)
	if m.members.cursor < 0 || m.members.cursor >= len(members) {
		return library.Member{}, false
	}
	return members[m.members.cursor], true
}

func (m Model) handleMembersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if idx, ok := m.moveCursor(msg, m.members.cursor, len(m.members.visible(m.pageSize))); ok {
		m.members.cursor = idx
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.startSearch(m.members.query)

	case key.Matches(msg, m.keys.Add):
		m.modal = m.memberFormModal("Add Member", nil)

	case key.Matches(msg, m.keys.Edit):
		if member, ok := m.selectedMember(); ok {
			m.modal = m.memberFormModal(fmt.Sprintf("Edit Member #%d", member.ID), &member)
		}

	case key.Matches(msg, m.keys.Delete):
		if member, ok := m.selectedMember(); ok {
			m.modal = newConfirmModal("Delete Member",
				fmt.Sprintf("Delete %s <%s>?", member.FullName(), member.Email),
				m.deleteMemberCmd(member.ID))
		}

	case key.Matches(msg, m.keys.Confirm):
		if member, ok := m.selectedMember(); ok && m.client != nil {
			m.members.historyLoading = true
			client, ctx := m.client, m.ctx
			return m, func() tea.Msg {
				records, err := client.ListUserBorrows(ctx, member.ID)
				return historyMsg{member: member, records: records, err: err}
			}
		}
	}
	return m, nil
}

func (m Model) memberFormModal(title string, member *library.Member) Modal {
	creating := member == nil
	var cur library.MemberRequest
	var id int64
	if !creating {
		cur = library.RequestFromMember(*member)
		id = member.ID
	}
	roles := make([]string, 0, len(library.Roles()))
	for _, r := range library.Roles() {
		roles = append(roles, string(r))
	}

	client, ctx := m.client, m.ctx
	submit := func(v []string) (tea.Cmd, error) {
		req, err := memberForm{
			Email: v[0], Password: v[1], FirstName: v[2], LastName: v[3], Phone: v[4], Role: v[5],
		}.request(creating)
		if err != nil {
			return nil, err
		}
		return func() tea.Msg {
			if creating {
				saved, err := client.AddMember(ctx, req)
				return memberSavedMsg{action: "add", member: saved, err: err}
			}
			saved, err := client.UpdateMember(ctx, id, req)
			return memberSavedMsg{action: "update", member: saved, err: err}
		}, nil
	}

	password := secretField("Password", "required")
	if !creating {
		password = secretField("Password", "leave blank to keep")
	}
	return newFormModal(title, submit,
		textField("Email", cur.Email, "name@example.com"),
		password,
		textField("First name", cur.FirstName, ""),
		textField("Last name", cur.LastName, ""),
		textField("Phone", cur.PhoneNumber, ""),
		choiceField("Role", string(cur.Role), roles),
	)
}

func (m Model) deleteMemberCmd(id int64) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		return memberSavedMsg{action: "delete", deleted: id, err: client.DeleteMember(ctx, id)}
	}
}

func (m Model) renderMembers() string {
	width, height := m.width, m.contentHeight()
	if !m.members.loaded {
		if m.members.loading {
			return m.emptyState("Loading members...", width, height)
		}
		return m.emptyState("Members unavailable. Press R to retry.", width, height)
	}

	members := m.members.visible(m.pageSize)
	title := fmt.Sprintf("Members · %d of %d", len(members), len(m.members.list))
	if m.members.query != "" {
		title = fmt.Sprintf("Members named %q · %d of %d", m.members.query, len(members), len(m.members.list))
	}

	if width >= LayoutSplitWidth {
		listWidth := width / 2
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderTitledBox(title, m.memberTable(members, listWidth-2, height-2), listWidth, height, true),
			m.renderTitledBox(m.historyTitle(), m.historyLines(width-listWidth-2), width-listWidth, height, false),
		)
	}
	listHeight := height * 3 / 5
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitledBox(title, m.memberTable(members, width-2, listHeight-2), width, listHeight, true),
		m.renderTitledBox(m.historyTitle(), m.historyLines(width-2), width, height-listHeight, false),
	)
}

func (m Model) memberTable(members []library.Member, width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	if len(members) == 0 {
		return bg.Render("No members found", styles.FaintText)
	}

	const idW, roleW, joinedW = 6, 11, 11
	nameW := max((width-idW-roleW-joinedW-4)/2, 8)
	emailW := max(width-idW-roleW-joinedW-nameW-4, 8)

	lines := []string{bg.Render(padRight("ID", idW)+" "+padRight("Name", nameW)+" "+
		padRight("Email", emailW)+" "+padRight("Role", roleW)+" "+"Joined", styles.FaintText.Bold(true))}

	start, end := visibleWindow(len(members), m.members.cursor, max(height-1, 1))
	for i := start; i < end; i++ {
		mem := members[i]
		row := padRight(strconv.FormatInt(mem.ID, 10), idW) + " " +
			padRight(truncate(mem.FullName(), nameW), nameW) + " " +
			padRight(truncate(mem.Email, emailW), emailW) + " "
		role := padRight(titleCase(string(mem.Role)), roleW)
		joined := formatDate(mem.ParsedCreatedAt())
		if i == m.members.cursor {
			lines = append(lines, styles.Selected.Width(width).Render(row+role+" "+joined))
			continue
		}
		roleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.colorFor(string(mem.Role))))
		lines = append(lines, bg.Render(row, styles.Text)+bg.Render(role, roleStyle)+bg.Space()+bg.Render(joined, styles.MutedText))
	}
	return strings.Join(lines, "\n")
}

func (m Model) historyTitle() string {
	if !m.members.historyLoaded {
		return "Borrow History"
	}
	return "Borrow History · " + m.members.historyFor.FullName()
}

func (m Model) historyLines(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	switch {
	case m.members.historyLoading:
		return bg.Render("Loading history...", styles.FaintText)
	case !m.members.historyLoaded:
		return bg.Render("Press enter on a member to load their borrowings", styles.FaintText)
	case len(m.members.history) == 0:
		return bg.Render("No borrowings on record", styles.FaintText)
	}

	now := m.clock()
	if m.borrowing != nil {
		now = m.borrowing.Now()
	}
	lines := make([]string, 0, len(m.members.history))
	for _, r := range m.members.history {
		row := borrowing.NewRow(r, now)
		badge := styles.StatusStyle(string(row.Status)).Render(padRight(titleCase(string(row.Status)), 8))
		due := "due " + formatDate(r.ParsedDueDate())
		avail := max(width-lipgloss.Width(badge)-len(due)-3, 8)
		lines = append(lines, badge+bg.Space()+
			bg.Render(padRight(truncate(row.Title, avail), avail), styles.Text)+bg.Space()+
			bg.Render(due, styles.MutedText))
	}
	return strings.Join(lines, "\n")
}
