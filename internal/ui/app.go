package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/librarian/internal/borrowing"
	"github.com/five82/librarian/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewBooks
	ViewMembers
	ViewBorrowing
	ViewAssistant
	ViewReports
	ViewActivity
)

var viewOrder = []View{
	ViewDashboard, ViewBooks, ViewMembers, ViewBorrowing,
	ViewAssistant, ViewReports, ViewActivity,
}

func (v View) String() string {
	switch v {
	case ViewBooks:
		return "Books"
	case ViewMembers:
		return "Members"
	case ViewBorrowing:
		return "Borrowing"
	case ViewAssistant:
		return "Assistant"
	case ViewReports:
		return "Reports"
	case ViewActivity:
		return "Activity"
	default:
		return "Dashboard"
	}
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Client       Backend
	Borrowing    *borrowing.ViewModel
	Logger       *slog.Logger
	LogPath      string
	PageSize     int
	ThemeName    string
	BorrowingTab borrowing.Tab
	PrefsPath    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    Backend
	borrowing *borrowing.ViewModel
	logger    *slog.Logger
	logPath   string
	pageSize  int
	prefsPath string
	keys      keyMap
	clock     func() time.Time

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal
	notice      notice
	spinner     spinner.Model
	search      searchState

	// Per-view state
	dashboard dashboardState
	books     booksState
	members   membersState
	borrow    borrowState
	assistant assistantState
	reports   reportsState
	activity  activityState
}

// searchState is the shared "/" prompt shown in the command bar.
type searchState struct {
	active bool
	target View
	input  textinput.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	in := textinput.New()
	in.Prompt = "/"
	in.CharLimit = 100

	return Model{
		ctx:         ctx,
		client:      opts.Client,
		borrowing:   opts.Borrowing,
		logger:      logger,
		logPath:     opts.LogPath,
		pageSize:    pageSize,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		clock:       time.Now,
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewDashboard,
		spinner:     sp,
		search:      searchState{input: in},
		dashboard:   dashboardState{loading: true},
		borrow:      borrowState{tab: opts.BorrowingTab},
		assistant:   newAssistantState(),
		activity:    newActivityState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(DefaultUIInterval),
		m.spinner.Tick,
		m.loadDashboardCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dashboardMsg:
		return m.handleDashboard(msg)
	case booksMsg:
		return m.handleBooks(msg)
	case bookSavedMsg:
		return m.handleBookSaved(msg)
	case membersMsg:
		return m.handleMembers(msg)
	case memberSavedMsg:
		return m.handleMemberSaved(msg)
	case historyMsg:
		return m.handleHistory(msg)
	case borrowPendingMsg:
		m.borrow.pending = true
		return m, nil
	case borrowingMsg:
		return m.handleBorrowing(msg)
	case chatReplyMsg:
		return m.handleChatReply(msg)
	case reportsMsg:
		return m.handleReports(msg)
	case activityMsg:
		return m.handleActivity(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey routes keyboard input: overlays first, then text inputs, then
// global keys, then the current view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.search.active {
		return m.handleSearchKey(msg)
	}

	if m.currentView == ViewAssistant && m.assistant.input.Focused() {
		return m.handleComposeKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.resizeViewports()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.stepView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.stepView(-1))

	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadView()
	}

	for i, b := range []key.Binding{
		m.keys.ViewDashboard, m.keys.ViewBooks, m.keys.ViewMembers, m.keys.ViewBorrowing,
		m.keys.ViewAssistant, m.keys.ViewReports, m.keys.ViewActivity,
	} {
		if key.Matches(msg, b) {
			return m.switchView(viewOrder[i])
		}
	}

	switch m.currentView {
	case ViewBooks:
		return m.handleBooksKey(msg)
	case ViewMembers:
		return m.handleMembersKey(msg)
	case ViewBorrowing:
		return m.handleBorrowingKey(msg)
	case ViewAssistant:
		return m.handleAssistantKey(msg)
	case ViewActivity:
		return m.handleActivityKey(msg)
	}
	return m, nil
}

func (m Model) stepView(step int) View {
	n := len(viewOrder)
	return viewOrder[((int(m.currentView)+step)%n+n)%n]
}

// switchView activates v and loads its data the first time it is shown.
// Borrowing loads only while it has no snapshot yet. Activity re-reads the
// log file on every visit.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	switch v {
	case ViewBooks:
		if !m.books.loaded && !m.books.loading {
			m.books.loading = true
			return m, m.loadBooksCmd(m.books.query)
		}
	case ViewMembers:
		if !m.members.loaded && !m.members.loading {
			m.members.loading = true
			return m, m.loadMembersCmd(m.members.query)
		}
	case ViewBorrowing:
		if m.borrowing != nil && !m.borrow.pending && !m.borrowing.View(m.borrow.tab).Loaded {
			m.borrow.pending = true
			return m, m.refreshBorrowingCmd()
		}
	case ViewReports:
		if !m.reports.loaded && !m.reports.loading {
			m.reports.loading = true
			return m, m.loadReportsCmd()
		}
	case ViewActivity:
		return m, m.loadActivityCmd()
	}
	return m, nil
}

// reloadView refetches the current view's data on demand.
func (m *Model) reloadView() tea.Cmd {
	switch m.currentView {
	case ViewDashboard:
		m.dashboard.loading = true
		return m.loadDashboardCmd()
	case ViewBooks:
		m.books.loading = true
		return m.loadBooksCmd(m.books.query)
	case ViewMembers:
		m.members.loading = true
		return m.loadMembersCmd(m.members.query)
	case ViewBorrowing:
		m.borrow.pending = m.borrowing != nil
		return m.refreshBorrowingCmd()
	case ViewReports:
		m.reports.loading = true
		return m.loadReportsCmd()
	case ViewActivity:
		return m.loadActivityCmd()
	}
	return nil
}

// startSearch opens the command-bar prompt for the current view.
func (m *Model) startSearch(initial string) tea.Cmd {
	m.search.active = true
	m.search.target = m.currentView
	m.search.input.SetValue(initial)
	m.search.input.CursorEnd()
	return m.search.input.Focus()
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.search.active = false
		m.search.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		query := strings.TrimSpace(m.search.input.Value())
		m.search.active = false
		m.search.input.Blur()
		switch m.search.target {
		case ViewBooks:
			return m.applyBookSearch(query)
		case ViewMembers:
			return m.applyMemberSearch(query)
		case ViewBorrowing:
			return m.applyBorrowSearch(query)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

// handleTick re-derives time-dependent display state. It never fetches
// backend data; only the activity view re-reads the local log file.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.notice.expired(now) {
		m.notice = notice{}
	}
	cmds := []tea.Cmd{tickCmd(DefaultUIInterval)}
	if m.currentView == ViewActivity && m.activity.follow {
		cmds = append(cmds, m.loadActivityCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, BorrowingTab: m.borrow.tab.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

func (m *Model) resizeViewports() {
	w, h := max(m.width-4, 10), max(m.contentHeight()-5, 3)
	m.assistant.viewport.Width = w
	m.assistant.viewport.Height = h
	m.assistant.refreshViewport(m.theme, w)
	m.activity.viewport.Width = w
	m.activity.viewport.Height = max(m.contentHeight()-2, 3)
	m.activity.refreshViewport(m.theme)
}

// busy reports whether any view is waiting on the backend.
func (m Model) busy() bool {
	return m.dashboard.loading || m.books.loading || m.members.loading ||
		m.borrow.pending || m.assistant.pending || m.reports.loading ||
		m.members.historyLoading
}

// renderMain renders header, command bar and the current view.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		Height(m.contentHeight()).
		Render(m.renderContent()))
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBooks:
		return m.renderBooks()
	case ViewMembers:
		return m.renderMembers()
	case ViewBorrowing:
		return m.renderBorrowing()
	case ViewAssistant:
		return m.renderAssistant()
	case ViewReports:
		return m.renderReports()
	case ViewActivity:
		return m.renderActivity()
	default:
		return m.renderDashboard()
	}
}

// Messages

type tickMsg time.Time

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
