package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/librarian/internal/library"
)

type booksState struct {
	loading  bool
	loaded   bool
	all      []library.Book
	query    string // server search keyword; empty lists the catalog
	category string // empty shows every category
	cursor   int
}

// filtered applies the category filter to the fetched books.
func (s booksState) filtered() []library.Book {
	if s.category == "" {
		return s.all
	}
	out := make([]library.Book, 0, len(s.all))
	for _, b := range s.all {
		if b.Category() == s.category {
			out = append(out, b)
		}
	}
	return out
}

// visible is the page of books on screen.
func (s booksState) visible(pageSize int) []library.Book {
	books := s.filtered()
	if len(books) > pageSize {
		books = books[:pageSize]
	}
	return books
}

func (s booksState) categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range s.all {
		c := b.Category()
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

func (s *booksState) cycleCategory() {
	cats := s.categories()
	if len(cats) == 0 {
		s.category = ""
		return
	}
	idx := slices.Index(cats, s.category)
	switch {
	case s.category == "":
		s.category = cats[0]
	case idx < 0, idx == len(cats)-1:
		s.category = ""
	default:
		s.category = cats[idx+1]
	}
	s.cursor = 0
}

func (s booksState) categoryLabel() string {
	if s.category == "" {
		return "All categories"
	}
	return s.category
}

type booksMsg struct {
	books []library.Book
	query string
	err   error
}

type bookSavedMsg struct {
	action  string
	book    library.Book
	deleted int64
	err     error
}

// bookForm holds the raw text of the add/edit dialog.
type bookForm struct {
	Title         string `label:"Title" validate:"required"`
	Author        string `label:"Author" validate:"required"`
	ISBN          string `label:"ISBN" validate:"required"`
	Publisher     string `label:"Publisher"`
	PublishedDate string `label:"Published" validate:"omitempty,datetime=2006-01-02"`
	PageCount     string `label:"Pages" validate:"omitempty,number"`
	TotalCopies   string `label:"Copies" validate:"omitempty,number"`
	Genres        string `label:"Genres"`
	Language      string `label:"Language"`
	Description   string `label:"Description"`
}

func (f bookForm) request() (library.BookRequest, error) {
	if err := validate.Struct(f); err != nil {
		return library.BookRequest{}, err
	}
	req := library.BookRequest{
		Title:         f.Title,
		Author:        f.Author,
		ISBN:          f.ISBN,
		Publisher:     f.Publisher,
		PublishedDate: f.PublishedDate,
		Genres:        f.Genres,
		Language:      f.Language,
		Description:   f.Description,
	}
	req.PageCount, _ = atoiOrZero(f.PageCount)
	req.TotalCopies, _ = atoiOrZero(f.TotalCopies)
	if err := validate.Struct(req); err != nil {
		return library.BookRequest{}, err
	}
	return req, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (m Model) loadBooksCmd(query string) tea.Cmd {
	client, ctx := m.client, m.ctx
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		var (
			books []library.Book
			err   error
		)
		if query == "" {
			books, err = client.ListBooks(ctx)
		} else {
			books, err = client.SearchBooks(ctx, query)
		}
		return booksMsg{books: books, query: query, err: err}
	}
}

func (m Model) handleBooks(msg booksMsg) (tea.Model, tea.Cmd) {
	m.books.loading = false
	if msg.err != nil {
		m.fail("Failed to load books", msg.err)
		return m, nil
	}
	if msg.query != m.books.query {
		return m, nil
	}
	m.books.loaded = true
	m.books.all = msg.books
	if !slices.Contains(m.books.categories(), m.books.category) {
		m.books.category = ""
	}
	m.books.cursor = min(m.books.cursor, max(len(m.books.visible(m.pageSize))-1, 0))
	return m, nil
}

func (m Model) handleBookSaved(msg bookSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.fail("Failed to "+msg.action+" book", msg.err)
		return m, nil
	}
	switch msg.action {
	case "delete":
		m.notify(noticeSuccess, fmt.Sprintf("Book #%d deleted", msg.deleted))
	case "adjust":
		m.notify(noticeSuccess, fmt.Sprintf("%q now has %d %s", msg.book.Title,
			msg.book.TotalCopies, plural(msg.book.TotalCopies, "copy", "copies")))
	default:
		m.notify(noticeSuccess, fmt.Sprintf("Book %q saved", msg.book.Title))
	}
	m.books.loading = true
	return m, m.loadBooksCmd(m.books.query)
}

func (m Model) applyBookSearch(query string) (tea.Model, tea.Cmd) {
	m.books.query = query
	m.books.cursor = 0
	m.books.loading = true
	return m, m.loadBooksCmd(query)
}

func (m Model) selectedBook() (library.Book, bool) {
	books := m.books.visible(m.pageSize)
	if m.books.cursor < 0 || m.books.cursor >= len(books) {
		return library.Book{}, false
	}
	return books[m.books.cursor], true
}

func (m Model) handleBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if idx, ok := m.moveCursor(msg, m.books.cursor, len(m.books.visible(m.pageSize))); ok {
		m.books.cursor = idx
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.startSearch(m.books.query)

	case key.Matches(msg, m.keys.Category):
		m.books.cycleCategory()
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.modal = m.bookFormModal("Add Book", nil)
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if book, ok := m.selectedBook(); ok {
			m.modal = m.bookFormModal(fmt.Sprintf("Edit Book #%d", book.ID), &book)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if book, ok := m.selectedBook(); ok {
			m.modal = newConfirmModal("Delete Book",
				fmt.Sprintf("Delete %q by %s?", book.Title, book.Author),
				m.deleteBookCmd(book.ID))
		}
		return m, nil

	case key.Matches(msg, m.keys.Increment):
		if book, ok := m.selectedBook(); ok {
			return m, m.adjustCopiesCmd(book.ID, 1)
		}

	case key.Matches(msg, m.keys.Decrement):
		if book, ok := m.selectedBook(); ok {
			if book.AvailableCopies <= 0 {
				m.notify(noticeError, "No available copy to remove")
				return m, nil
			}
			return m, m.adjustCopiesCmd(book.ID, -1)
		}
	}
	return m, nil
}

// bookFormModal builds the add dialog, or the edit dialog when book is set.
func (m Model) bookFormModal(title string, book *library.Book) Modal {
	var cur library.BookRequest
	var id int64
	if book != nil {
		cur = library.RequestFromBook(*book)
		id = book.ID
	}
	num := func(n int) string {
		if book == nil {
			return ""
		}
		return strconv.Itoa(n)
	}
	client, ctx := m.client, m.ctx
	submit := func(v []string) (tea.Cmd, error) {
		req, err := bookForm{
			Title: v[0], Author: v[1], ISBN: v[2], Publisher: v[3], PublishedDate: v[4],
			PageCount: v[5], TotalCopies: v[6], Genres: v[7], Language: v[8], Description: v[9],
		}.request()
		if err != nil {
			return nil, err
		}
		return func() tea.Msg {
			if book == nil {
				saved, err := client.AddBook(ctx, req)
				return bookSavedMsg{action: "add", book: saved, err: err}
			}
			saved, err := client.UpdateBook(ctx, id, req)
			return bookSavedMsg{action: "update", book: saved, err: err}
		}, nil
	}
	return newFormModal(title, submit,
		textField("Title", cur.Title, "required"),
		textField("Author", cur.Author, "required"),
		textField("ISBN", cur.ISBN, "required"),
		textField("Publisher", cur.Publisher, ""),
		textField("Published", cur.PublishedDate, "YYYY-MM-DD"),
		textField("Pages", num(cur.PageCount), "0"),
		textField("Copies", num(cur.TotalCopies), "0"),
		textField("Genres", cur.Genres, "Fiction, Classic"),
		textField("Language", cur.Language, "English"),
		textField("Description", cur.Description, ""),
	)
}

func (m Model) deleteBookCmd(id int64) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		return bookSavedMsg{action: "delete", deleted: id, err: client.DeleteBook(ctx, id)}
	}
}

func (m Model) adjustCopiesCmd(id int64, delta int) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		book, err := client.AdjustBookCopies(ctx, id, delta)
		return bookSavedMsg{action: "adjust", book: book, err: err}
	}
}

func (m Model) renderBooks() string {
	width, height := m.width, m.contentHeight()
	if !m.books.loaded {
		if m.books.loading {
			return m.emptyState("Loading books...", width, height)
		}
		return m.emptyState("Books unavailable. Press R to retry.", width, height)
	}

	books := m.books.visible(m.pageSize)
	title := fmt.Sprintf("Books · %s · %d of %d", m.books.categoryLabel(), len(books), len(m.books.filtered()))
	if m.books.query != "" {
		title = fmt.Sprintf("Books matching %q · %d of %d", m.books.query, len(books), len(m.books.filtered()))
	}

	if width >= LayoutSplitWidth {
		listWidth := width * 3 / 5
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderTitledBox(title, m.bookTable(books, listWidth-2, height-2), listWidth, height, true),
			m.renderTitledBox("Details", m.bookDetail(width-listWidth-2), width-listWidth, height, false),
		)
	}
	return m.renderTitledBox(title, m.bookTable(books, width-2, height-2), width, height, true)
}

func (m Model) bookTable(books []library.Book, width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	if len(books) == 0 {
		return bg.Render("No books found", styles.FaintText)
	}

	const idW, copiesW, catW = 6, 9, 14
	titleW := max((width-idW-copiesW-catW-4)*3/5, 8)
	authorW := max(width-idW-copiesW-catW-titleW-4, 6)

	header := bg.Render(padRight("ID", idW)+" "+padRight("Title", titleW)+" "+
		padRight("Author", authorW)+" "+padRight("Category", catW)+" "+"Copies", styles.FaintText.Bold(true))

	lines := []string{header}
	start, end := visibleWindow(len(books), m.books.cursor, max(height-1, 1))
	for i := start; i < end; i++ {
		b := books[i]
		copies := fmt.Sprintf("%d/%d", b.AvailableCopies, b.TotalCopies)
		row := padRight(strconv.FormatInt(b.ID, 10), idW) + " " +
			padRight(truncate(b.Title, titleW), titleW) + " " +
			padRight(truncate(b.Author, authorW), authorW) + " " +
			padRight(truncate(b.Category(), catW), catW) + " "
		if i == m.books.cursor {
			lines = append(lines, styles.Selected.Width(width).Render(row+copies))
			continue
		}
		availability := "available"
		if !b.Available() {
			availability = "unavailable"
		}
		copyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.colorFor(availability)))
		lines = append(lines, bg.Render(row, styles.Text)+bg.Render(copies, copyStyle))
	}
	return strings.Join(lines, "\n")
}

func (m Model) bookDetail(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	book, ok := m.selectedBook()
	if !ok {
		return bg.Render("Select a book", styles.FaintText)
	}

	field := func(label, value string) string {
		if value == "" {
			value = "—"
		}
		return bg.Render(padRight(label, 12), styles.MutedText) + bg.Render(truncate(value, max(width-13, 4)), styles.Text)
	}
	year := ""
	if y := book.PublishYear(); y > 0 {
		year = strconv.Itoa(y)
	}
	lines := []string{
		bg.Render(truncate(book.Title, width), styles.Text.Bold(true)),
		bg.Render(truncate("by "+book.Author, width), styles.AccentText),
		"",
		field("ISBN", book.ISBN),
		field("Publisher", book.Publisher),
		field("Published", year),
		field("Pages", strconv.Itoa(book.PageCount)),
		field("Language", book.Language),
		field("Genres", book.Genres),
		field("Copies", fmt.Sprintf("%d available of %d", book.AvailableCopies, book.TotalCopies)),
		"",
	}
	lines = append(lines, wrapText(book.Description, width, bg, styles.FaintText)...)
	return strings.Join(lines, "\n")
}

// wrapText word-wraps plain text into styled lines.
func wrapText(text string, width int, bg BgStyle, style lipgloss.Style) []string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && cur.Len()+1+len([]rune(w)) > width {
			lines = append(lines, bg.Render(cur.String(), style))
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, bg.Render(cur.String(), style))
	}
	return lines
}

// moveCursor applies list navigation keys to cursor over n rows.
func (m Model) moveCursor(msg tea.KeyMsg, cursor, n int) (int, bool) {
	if n == 0 {
		return 0, false
	}
	half := max(m.contentHeight()/2, 1)
	switch {
	case key.Matches(msg, m.keys.Down):
		return min(cursor+1, n-1), true
	case key.Matches(msg, m.keys.Up):
		return max(cursor-1, 0), true
	case key.Matches(msg, m.keys.Top):
		return 0, true
	case key.Matches(msg, m.keys.Bottom):
		return n - 1, true
	case key.Matches(msg, m.keys.HalfPageDown):
		return min(cursor+half, n-1), true
	case key.Matches(msg, m.keys.HalfPageUp):
		return max(cursor-half, 0), true
	}
	return cursor, false
}
