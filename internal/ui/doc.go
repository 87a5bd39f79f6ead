// Package ui implements the librarian terminal console on Bubble Tea.
//
// Model is the root tea.Model. It owns one state struct per view
// (dashboard, books, members, borrowing, assistant, reports, activity) and
// routes keys in a fixed order: help overlay, modal dialog, the "/" search
// prompt, the assistant's compose box, global keys, then the current view.
//
// Backend calls run as tea.Cmds and come back as messages carrying either
// data or an error. Failures raise a short notice in the header and leave
// the data already on screen untouched. Borrow records are read through
// borrowing.ViewModel, whose snapshot is re-derived against the clock on
// every render; the one-second tick never fetches backend data.
//
// Forms validate their input with go-playground/validator before any
// request is issued.
package ui
