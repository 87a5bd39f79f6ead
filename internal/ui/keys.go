package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Reload     key.Binding

	// View switching
	ViewDashboard key.Binding
	ViewBooks     key.Binding
	ViewMembers   key.Binding
	ViewBorrowing key.Binding
	ViewAssistant key.Binding
	ViewReports   key.Binding
	ViewActivity  key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// List actions
	Search      key.Binding
	Add         key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Increment   key.Binding
	Decrement   key.Binding
	CycleFilter key.Binding
	Category    key.Binding

	// Borrowing actions
	CycleSource key.Binding
	NewBorrow   key.Binding
	ReturnBook  key.Binding

	// Activity actions
	ToggleFollow key.Binding

	// Assistant actions
	Compose   key.Binding
	Suggested key.Binding

	// Search/input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reload view"),
		),

		ViewDashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "Dashboard")),
		ViewBooks:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "Books")),
		ViewMembers:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "Members")),
		ViewBorrowing: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "Borrowing")),
		ViewAssistant: key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "Assistant")),
		ViewReports:   key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "Reports")),
		ViewActivity:  key.NewBinding(key.WithKeys("7"), key.WithHelp("7", "Activity")),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Add copy"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Remove copy"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle filter"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cycle category"),
		),

		CycleSource: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle source"),
		),
		NewBorrow: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New borrowing"),
		),
		ReturnBook: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Return book"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),

		Compose: key.NewBinding(
			key.WithKeys("i", "/"),
			key.WithHelp("i", "Compose"),
		),
		Suggested: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Suggested prompt"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewDashboard, k.ViewBooks, k.ViewMembers, k.ViewBorrowing, k.ViewAssistant, k.ViewReports, k.ViewActivity},
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp},
		{k.Search, k.Add, k.Edit, k.Delete, k.Increment, k.Decrement, k.Category},
		{k.CycleFilter, k.CycleSource, k.NewBorrow, k.ReturnBook},
		{k.Compose, k.Suggested, k.ToggleFollow},
		{k.Reload, k.CycleTheme, k.Help, k.Quit},
	}
}
