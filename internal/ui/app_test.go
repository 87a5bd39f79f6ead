package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/five82/librarian/internal/borrowing"
	"github.com/five82/librarian/internal/library"
	"github.com/five82/librarian/internal/prefs"
	"github.com/five82/librarian/internal/state"
)

var errBackendDown = errors.New("backend down")

// fakeBackend serves canned data for every screen. Commands run
// synchronously in tests, so no locking is needed.
type fakeBackend struct {
	calls []string

	books   []library.Book
	members []library.Member
	borrows []library.BorrowRecord
	stats   library.Statistics
	recent  []library.Activity
	popular []library.PopularBook
	reply   library.ChatReply
	fine    decimal.Decimal

	err     error // returned by every call when set
	listErr error // returned by ListBorrows only
}

var (
	_ Backend               = (*fakeBackend)(nil)
	_ library.BorrowGateway = (*fakeBackend)(nil)
)

func (f *fakeBackend) call(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeBackend) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeBackend) ListBooks(context.Context) ([]library.Book, error) {
	return f.books, f.call("books.list")
}

func (f *fakeBackend) SearchBooks(_ context.Context, keyword string) ([]library.Book, error) {
	if err := f.call("books.search:" + keyword); err != nil {
		return nil, err
	}
	var out []library.Book
	for _, b := range f.books {
		if strings.Contains(strings.ToLower(b.Title), strings.ToLower(keyword)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBackend) AddBook(_ context.Context, req library.BookRequest) (library.Book, error) {
	return library.Book{ID: 100, Title: req.Title}, f.call("books.add")
}

func (f *fakeBackend) UpdateBook(_ context.Context, id int64, req library.BookRequest) (library.Book, error) {
	return library.Book{ID: id, Title: req.Title}, f.call("books.update")
}

func (f *fakeBackend) DeleteBook(context.Context, int64) error {
	return f.call("books.delete")
}

func (f *fakeBackend) AdjustBookCopies(_ context.Context, id int64, delta int) (library.Book, error) {
	return library.Book{ID: id, TotalCopies: 3 + delta}, f.call("books.copies")
}

func (f *fakeBackend) ListMembers(context.Context) ([]library.Member, error) {
	return f.members, f.call("members.list")
}

func (f *fakeBackend) SearchMembers(_ context.Context, name string) ([]library.Member, error) {
	return library.FilterMembers(f.members, name), f.call("members.search:" + name)
}

func (f *fakeBackend) AddMember(_ context.Context, req library.MemberRequest) (library.Member, error) {
	return library.Member{ID: 7, FirstName: req.FirstName, LastName: req.LastName}, f.call("members.add")
}

func (f *fakeBackend) UpdateMember(_ context.Context, id int64, req library.MemberRequest) (library.Member, error) {
	return library.Member{ID: id, FirstName: req.FirstName}, f.call("members.update")
}

func (f *fakeBackend) DeleteMember(context.Context, int64) error {
	return f.call("members.delete")
}

func (f *fakeBackend) ListUserBorrows(_ context.Context, userID int64) ([]library.BorrowRecord, error) {
	var out []library.BorrowRecord
	for _, r := range f.borrows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, f.call("borrows.user")
}

func (f *fakeBackend) ListOverdueBorrows(context.Context) ([]library.BorrowRecord, error) {
	return f.borrows, f.call("borrows.overdue")
}

func (f *fakeBackend) FetchStatistics(context.Context) (library.Statistics, error) {
	return f.stats, f.call("dashboard.statistic")
}

func (f *fakeBackend) FetchRecentActivity(context.Context) ([]library.Activity, error) {
	return f.recent, f.call("dashboard.recent")
}

func (f *fakeBackend) FetchPopularBooks(context.Context) ([]library.PopularBook, error) {
	return f.popular, f.call("dashboard.popular")
}

func (f *fakeBackend) SendChat(_ context.Context, message string) (library.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return library.ChatReply{}, library.ErrInvalidChatMessage
	}
	return f.reply, f.call("chat")
}

func (f *fakeBackend) CreateBorrow(_ context.Context, req library.BorrowRequest) (library.BorrowRecord, error) {
	return library.BorrowRecord{ID: 50, BookID: req.BookID, UserID: req.UserID, DueDate: req.DueDate}, f.call("borrows.create")
}

func (f *fakeBackend) ReturnBorrow(_ context.Context, id int64) (library.BorrowRecord, error) {
	return library.BorrowRecord{ID: id}, f.call("borrows.return")
}

func (f *fakeBackend) ListBorrows(context.Context) ([]library.BorrowRecord, error) {
	if err := f.call("borrows.list"); err != nil {
		return nil, err
	}
	return f.borrows, f.listErr
}

func (f *fakeBackend) ListBorrowsByStatus(_ context.Context, status string) ([]library.BorrowRecord, error) {
	return f.borrows, f.call("borrows.status:" + status)
}

func (f *fakeBackend) SearchBorrows(_ context.Context, keyword string) ([]library.BorrowRecord, error) {
	return f.borrows, f.call("borrows.search:" + keyword)
}

func (f *fakeBackend) TotalFine(context.Context) (decimal.Decimal, error) {
	return f.fine, f.call("borrows.fine")
}

var testNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)

func strPtr(s string) *string { return &s }

func sampleBackend() *fakeBackend {
	return &fakeBackend{
		books: []library.Book{
			{ID: 1, Title: "Dune", Author: "Frank Herbert", Genres: "Science Fiction, Classic", TotalCopies: 3, AvailableCopies: 1},
			{ID: 2, Title: "Emma", Author: "Jane Austen", Genres: "Romance", TotalCopies: 2, AvailableCopies: 0},
			{ID: 3, Title: "Neuromancer", Author: "William Gibson", Genres: "Science Fiction", TotalCopies: 1, AvailableCopies: 1},
		},
		members: []library.Member{
			{ID: 10, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: library.RoleAdmin},
			{ID: 11, FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", Role: library.RoleMember},
		},
		borrows: []library.BorrowRecord{
			{ID: 1, BookID: 1, UserID: 10, BookTitle: "Dune: Deluxe Edition", BorrowDate: "2024-01-01", DueDate: "2024-01-10", Status: "BORROWED"},
			{ID: 2, BookID: 2, UserID: 11, BookTitle: "Emma", BorrowDate: "2024-01-05", DueDate: "2024-01-20", Status: "BORROWED"},
			{ID: 3, BookID: 3, UserID: 10, BookTitle: "Neuromancer", BorrowDate: "2023-12-01", DueDate: "2023-12-15", ReturnDate: strPtr("2024-01-15T09:00:00"), Status: "RETURNED"},
		},
		stats:   library.Statistics{TotalBooks: 120, ActiveMembers: 40, BooksBorrowed: 30, OverdueBooks: 6},
		recent:  []library.Activity{{BorrowID: 1, Status: "BORROWED", UserName: "Ada Lovelace", BookTitle: "Dune", Time: "2024-01-15T09:30:00"}},
		popular: []library.PopularBook{{Title: "Dune", Borrows: 12, Rating: 4.5}},
		fine:    decimal.RequireFromString("12.5"),
	}
}

// newTestModel builds a sized model over fake with a fixed clock and a
// temporary prefs file.
func newTestModel(t *testing.T, fake *fakeBackend) Model {
	t.Helper()
	clock := func() time.Time { return testNow }
	vm := borrowing.New(fake, &state.Store{}, borrowing.WithClock(clock))
	m := New(Options{
		Client:    fake,
		Borrowing: vm,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		LogPath:   filepath.Join(t.TempDir(), "librarian.log"),
		PageSize:  10,
	})
	m.clock = clock
	// Blinking cursors emit timed commands; keep them static so key
	// presses resolve synchronously.
	m.search.input.Cursor.SetMode(cursor.CursorStatic)
	m.assistant.input.Cursor.SetMode(cursor.CursorStatic)
	return update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and runs the resulting command once, feeding its message
// back into the model.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(keyMsg(k))
	m = next.(Model)
	return run(t, m, cmd)
}

func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg.(type) {
	case nil, tea.BatchMsg:
		return m
	}
	return update(t, m, msg)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestSwitchView_LoadsBooksOnce(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)

	m = press(t, m, "2")
	if m.currentView != ViewBooks {
		t.Fatalf("currentView = %v, want Books", m.currentView)
	}
	if !m.books.loaded || len(m.books.all) != 3 {
		t.Fatalf("books not loaded: loaded=%v n=%d", m.books.loaded, len(m.books.all))
	}

	m = press(t, m, "1")
	_, cmd := m.Update(keyMsg("2"))
	if cmd != nil {
		t.Fatal("revisiting books should not refetch")
	}
}

func TestTabCyclesViews(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	for _, want := range []View{ViewBooks, ViewMembers, ViewBorrowing, ViewAssistant, ViewReports, ViewActivity, ViewDashboard} {
		m = press(t, m, "tab")
		if m.currentView != want {
			t.Fatalf("currentView = %v, want %v", m.currentView, want)
		}
	}
}

func TestBooksFailure_KeepsPreviousData(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	m = press(t, m, "2")

	m = update(t, m, booksMsg{err: errBackendDown})
	if len(m.books.all) != 3 {
		t.Fatalf("books dropped after failure: %d", len(m.books.all))
	}
	if m.notice.kind != noticeError || m.notice.text != "Failed to load books" {
		t.Fatalf("notice = %+v", m.notice)
	}
}

func TestBookSearch_UsesServerSearch(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	m = press(t, m, "2")

	m = press(t, m, "/")
	if !m.search.active {
		t.Fatal("search prompt not opened")
	}
	m = press(t, m, "dune")
	m = press(t, m, "enter")

	if !fake.called("books.search:dune") {
		t.Fatalf("calls = %v, want books.search:dune", fake.calls)
	}
	if m.books.query != "dune" || len(m.books.all) != 1 {
		t.Fatalf("query=%q books=%d", m.books.query, len(m.books.all))
	}

	// Clearing the search lists the catalog again.
	m = press(t, m, "/")
	m.search.input.SetValue("")
	m = press(t, m, "enter")
	if m.books.query != "" || len(m.books.all) != 3 {
		t.Fatalf("after clear: query=%q books=%d", m.books.query, len(m.books.all))
	}
}

func TestBooks_StaleSearchResultIgnored(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	m = press(t, m, "2")
	m.books.query = "emma"

	m = update(t, m, booksMsg{query: "dune", books: []library.Book{{ID: 9}}})
	if len(m.books.all) != 3 {
		t.Fatalf("stale result applied: %d books", len(m.books.all))
	}
}

func TestBooksCategoryCycle(t *testing.T) {
	s := booksState{all: sampleBackend().books}
	var seen []string
	for range 4 {
		s.cycleCategory()
		seen = append(seen, s.categoryLabel())
	}
	want := []string{"Romance", "Science Fiction", "All categories", "Romance"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("category cycle = %v, want %v", seen, want)
		}
	}

	s.category = "Science Fiction"
	if got := len(s.filtered()); got != 2 {
		t.Fatalf("filtered = %d, want 2", got)
	}
}

func TestBooksVisible_LimitedToPageSize(t *testing.T) {
	books := make([]library.Book, 25)
	s := booksState{all: books}
	if got := len(s.visible(10)); got != 10 {
		t.Fatalf("visible = %d, want 10", got)
	}
}

func TestDecrementCopies_RefusesWhenNoneAvailable(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	m = press(t, m, "2")
	m = press(t, m, "down") // Emma, 0 available

	m = press(t, m, "-")
	if fake.called("books.copies") {
		t.Fatal("copies adjusted with none available")
	}
	if m.notice.kind != noticeError {
		t.Fatalf("notice = %+v", m.notice)
	}

	m = press(t, m, "+")
	if !fake.called("books.copies") {
		t.Fatal("increment did not call the backend")
	}
}

func TestDeleteBook_AsksForConfirmation(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	m = press(t, m, "2")

	m = press(t, m, "x")
	if m.modal == nil {
		t.Fatal("delete should open a confirmation")
	}
	if fake.called("books.delete") {
		t.Fatal("deleted before confirmation")
	}

	m = press(t, m, "y")
	if m.modal != nil {
		t.Fatal("modal still open")
	}
	if !fake.called("books.delete") {
		t.Fatal("confirmation did not delete")
	}
	if m.notice.kind != noticeSuccess {
		t.Fatalf("notice = %+v", m.notice)
	}
}

func TestMembers_SearchAndHistory(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	m = press(t, m, "3")
	if len(m.members.list) != 2 {
		t.Fatalf("members = %d", len(m.members.list))
	}

	m = press(t, m, "/")
	m = press(t, m, "tur")
	m = press(t, m, "enter")
	if len(m.members.list) != 1 || m.members.list[0].LastName != "Turing" {
		t.Fatalf("search result = %+v", m.members.list)
	}

	m = press(t, m, "enter")
	if !m.members.historyLoaded || m.members.historyFor.ID != 11 {
		t.Fatalf("history not loaded for Turing: %+v", m.members.historyFor)
	}
	if len(m.members.history) != 1 {
		t.Fatalf("history = %d records, want 1", len(m.members.history))
	}
}

func TestBorrowing_TabCycleSavesPrefs(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	m = press(t, m, "4")
	m = press(t, m, "f")
	if m.borrow.tab != borrowing.TabBorrowed {
		t.Fatalf("tab = %v, want borrowed", m.borrow.tab)
	}

	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.BorrowingTab != "borrowed" {
		t.Fatalf("saved tab = %q, want borrowed", p.BorrowingTab)
	}
}

func TestBorrowing_SourceCycleRefetches(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	m = press(t, m, "4")

	m = press(t, m, "s")
	if !fake.called("borrows.overdue") {
		t.Fatalf("calls = %v, want overdue source", fake.calls)
	}
	if got := m.borrowing.View(borrowing.TabAll).Query; got != "overdue (server)" {
		t.Fatalf("query = %q", got)
	}
}

func TestBorrowing_SearchUsesKeyword(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	m = press(t, m, "4")
	m = press(t, m, "/")
	m = press(t, m, "emma")
	m = press(t, m, "enter")

	if !fake.called("borrows.search:emma") {
		t.Fatalf("calls = %v", fake.calls)
	}
	if !m.borrow.query.Searching() {
		t.Fatal("query not searching")
	}
}

func TestBorrowing_FailureShowsGenericNotice(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	m = update(t, m, borrowingMsg{action: "refresh", err: errBackendDown})
	if m.notice.text != "Failed to load borrowing data" {
		t.Fatalf("notice = %q", m.notice.text)
	}
}

func TestBorrowing_StaleRefreshIsSilent(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	m.borrow.pending = true
	m = update(t, m, borrowingMsg{action: "refresh", err: state.ErrStale})
	if m.notice.text != "" {
		t.Fatalf("stale refresh raised notice %q", m.notice.text)
	}
	if !m.borrow.pending {
		t.Fatal("stale refresh cleared the busy marker while a newer refresh runs")
	}

	m = update(t, m, borrowingMsg{action: "refresh"})
	if m.borrow.pending {
		t.Fatal("current refresh did not clear the busy marker")
	}
}

func TestBorrowing_FailedReloadAfterMutationShowsFailure(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	if err := m.borrowing.Refresh(context.Background(), borrowing.Query{}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	fake.listErr = errBackendDown

	for _, action := range []string{"create", "return"} {
		var (
			rec library.BorrowRecord
			err error
		)
		if action == "create" {
			req := library.NewBorrowRequest(1, 10, testNow.Add(14*24*time.Hour))
			rec, err = m.borrowing.Create(context.Background(), req, borrowing.Query{})
		} else {
			rec, err = m.borrowing.Return(context.Background(), 2, borrowing.Query{})
		}
		if err == nil {
			t.Fatalf("%s: expected the reload failure to be reported", action)
		}

		m.notice = notice{}
		m.borrow.pending = true
		m = update(t, m, borrowingMsg{action: action, record: rec, err: err})
		if m.notice.kind != noticeError || m.notice.text != "Failed to load borrowing data" {
			t.Fatalf("%s: notice = %+v", action, m.notice)
		}
		if m.borrow.pending {
			t.Fatalf("%s: busy marker still set", action)
		}
	}

	// Rows from the last good refresh stay on screen.
	if got := len(m.borrowing.View(borrowing.TabAll).Rows); got != 3 {
		t.Fatalf("rows = %d, want 3", got)
	}
}

func TestBorrowing_ReturnRejectsReturnedRecord(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	if err := m.borrowing.Refresh(context.Background(), borrowing.Query{}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	m = press(t, m, "4")
	m.borrow.tab = borrowing.TabReturned

	m = press(t, m, "r")
	if m.modal != nil {
		t.Fatal("return dialog opened for a returned record")
	}
	if m.notice.kind != noticeInfo {
		t.Fatalf("notice = %+v", m.notice)
	}
}

func TestBorrowing_RenderShowsDerivedState(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	if err := m.borrowing.Refresh(context.Background(), borrowing.Query{}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	m = press(t, m, "4")

	out := m.View()
	for _, want := range []string{"Overdue", "$12.50", "Dune", "6d"} {
		if !strings.Contains(out, want) {
			t.Fatalf("borrowing view missing %q", want)
		}
	}
	if strings.Contains(out, "Deluxe") {
		t.Fatal("display title should drop the subtitle")
	}
}

func TestNoticeExpiresOnTick(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	m.notify(noticeSuccess, "Book saved")

	m = update(t, m, tickMsg(testNow.Add(time.Second)))
	if m.notice.text == "" {
		t.Fatal("notice cleared too early")
	}
	m = update(t, m, tickMsg(testNow.Add(NoticeDuration)))
	if m.notice.text != "" {
		t.Fatalf("notice = %q, want cleared", m.notice.text)
	}
}

func TestThemeCyclePersists(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	m = press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q", m.theme.Name)
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q", p.Theme)
	}
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	m = press(t, m, "?")
	if !m.showHelp {
		t.Fatal("help not shown")
	}
	m = press(t, m, "x")
	if m.showHelp {
		t.Fatal("help still shown")
	}
}

func TestDashboard_LoadsAllPanels(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	m = run(t, m, m.loadDashboardCmd())

	if !m.dashboard.loaded || m.dashboard.stats.TotalBooks != 120 {
		t.Fatalf("dashboard = %+v", m.dashboard)
	}
	out := m.View()
	for _, want := range []string{"120", "Lovelace", "25%", "80%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard view missing %q", want)
		}
	}
}

func TestDashboard_FailureNotice(t *testing.T) {
	fake := sampleBackend()
	fake.err = errBackendDown
	m := newTestModel(t, fake)
	m = run(t, m, m.loadDashboardCmd())
	if m.dashboard.loaded {
		t.Fatal("dashboard marked loaded after failure")
	}
	if m.notice.text != "Failed to load dashboard data" {
		t.Fatalf("notice = %q", m.notice.text)
	}
}

func TestAssistant_SendAndReply(t *testing.T) {
	fake := sampleBackend()
	fake.reply = library.ChatReply{Message: "Found 1 book", Data: []byte(`[{"title":"Dune","author":"Frank Herbert"}]`)}
	m := newTestModel(t, fake)
	m = press(t, m, "5")
	if !m.assistant.showSuggestions() {
		t.Fatal("suggestions should show before the first exchange")
	}

	m = press(t, m, "p")
	if got := m.assistant.input.Value(); got != suggestedPrompts[0] {
		t.Fatalf("input = %q", got)
	}
	m = press(t, m, "enter")

	if !fake.called("chat") {
		t.Fatal("chat not sent")
	}
	msgs := m.assistant.messages
	if len(msgs) != 3 || !msgs[1].user || msgs[2].user {
		t.Fatalf("messages = %+v", msgs)
	}
	if msgs[1].id == msgs[2].id || msgs[2].id == "" {
		t.Fatal("message ids should be unique")
	}
	if msgs[2].text != "Found 1 book" || msgs[2].data == nil {
		t.Fatalf("reply = %+v", msgs[2])
	}
}

func TestAssistant_FailureBecomesBotMessage(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	m = update(t, m, chatReplyMsg{id: "x", err: errBackendDown})
	last := m.assistant.messages[len(m.assistant.messages)-1]
	if last.user || !last.failed || !strings.Contains(last.text, "backend down") {
		t.Fatalf("last message = %+v", last)
	}
}

func TestAssistant_GlobalKeysTypedWhileComposing(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	m = press(t, m, "5")
	m = press(t, m, "i")
	m = press(t, m, "2")
	if m.currentView != ViewAssistant {
		t.Fatal("digit switched views while composing")
	}
	if m.assistant.input.Value() != "2" {
		t.Fatalf("input = %q", m.assistant.input.Value())
	}
	m = press(t, m, "esc")
	m = press(t, m, "2")
	if m.currentView != ViewBooks {
		t.Fatal("digit should switch views after esc")
	}
}

func TestReports_Load(t *testing.T) {
	fake := sampleBackend()
	m := newTestModel(t, fake)
	m = press(t, m, "6")
	if !m.reports.loaded {
		t.Fatal("reports not loaded")
	}
	for _, c := range []string{"dashboard.popular", "borrows.overdue", "books.list"} {
		if !fake.called(c) {
			t.Fatalf("reports did not call %s: %v", c, fake.calls)
		}
	}
	if out := m.View(); !strings.Contains(out, "Ageing") {
		t.Fatal("reports view missing ageing chart")
	}
}

func TestAgeingBuckets(t *testing.T) {
	recs := []library.BorrowRecord{
		{DueDate: "2024-01-14"}, // 1 day
		{DueDate: "2024-01-08"}, // 8 days
		{DueDate: "2023-12-31"}, // 16 days
		{DueDate: "2023-11-01"},
	}
	got := ageingBuckets(recs, testNow)
	for i, want := range []int{1, 1, 1, 1} {
		if got[i].value != want {
			t.Fatalf("bucket %s = %d, want %d", got[i].label, got[i].value, want)
		}
	}
}

func TestCategoryCounts_SortedByCount(t *testing.T) {
	got := categoryCounts(sampleBackend().books)
	if len(got) != 2 || got[0].label != "Science Fiction" || got[0].value != 2 {
		t.Fatalf("categoryCounts = %+v", got)
	}
}

func TestEveryViewRenders(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	for _, k := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		m = press(t, m, k)
		if out := m.View(); out == "" {
			t.Fatalf("view %s rendered empty", m.currentView)
		}
	}
}
