package borrowing

import (
	"math"
	"strings"
	"time"

	"github.com/five82/librarian/internal/library"
)

// Status is the display lifecycle of a borrow record, derived from its
// dates rather than taken from the backend's raw status.
type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

// DeriveStatus classifies r at instant now. A recorded return always wins;
// an outstanding record past its due date is overdue; anything else is on
// loan. Records whose due date cannot be parsed are never overdue.
func DeriveStatus(r library.BorrowRecord, now time.Time) Status {
	if r.Returned() {
		return StatusReturned
	}
	if due := r.ParsedDueDate(); !due.IsZero() && now.After(due) {
		return StatusOverdue
	}
	// BORROWED and ACTIVE are the documented raw values; unrecognised
	// ones are shown as active loans too.
	return StatusBorrowed
}

// KnownRawStatus reports whether raw is part of the backend vocabulary the
// console recognises.
func KnownRawStatus(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BORROWED", "ACTIVE", "RETURNED", "OVERDUE":
		return true
	}
	return false
}

// DaysOverdue counts started days past due, clamped at zero. Three hours
// past the due instant is already one day overdue.
func DaysOverdue(due, now time.Time) int {
	if due.IsZero() || !now.After(due) {
		return 0
	}
	return int(math.Ceil(now.Sub(due).Hours() / 24))
}

// DisplayTitle drops any subtitle after the first colon.
func DisplayTitle(bookTitle string) string {
	title, _, _ := strings.Cut(bookTitle, ":")
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	return "Unknown Book"
}

// Row is a record prepared for display.
type Row struct {
	Record      library.BorrowRecord
	Title       string
	Status      Status
	DaysOverdue int
}

// NewRow derives the display fields of r at instant now.
func NewRow(r library.BorrowRecord, now time.Time) Row {
	row := Row{
		Record: r,
		Title:  DisplayTitle(r.BookTitle),
		Status: DeriveStatus(r, now),
	}
	if row.Status == StatusOverdue {
		row.DaysOverdue = DaysOverdue(r.ParsedDueDate(), now)
	}
	return row
}

// Rows filters records to tab and prepares them for display, keeping the
// backend order.
func Rows(records []library.BorrowRecord, tab Tab, now time.Time) []Row {
	out := make([]Row, 0, len(records))
	for _, r := range records {
		row := NewRow(r, now)
		if tab.Matches(row.Status) {
			out = append(out, row)
		}
	}
	return out
}
