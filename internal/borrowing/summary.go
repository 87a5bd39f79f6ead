package borrowing

import (
	"time"

	"github.com/five82/librarian/internal/library"
)

// Summary aggregates the borrowing stat cards. The total fine is not part of
// it; it comes from the backend as-is.
type Summary struct {
	ActiveCount        int
	OverdueCount       int
	ReturnedTodayCount int
	Tabs               TabCounts
}

// Summarize computes the summary over the full record list in one pass.
func Summarize(records []library.BorrowRecord, now time.Time) Summary {
	var s Summary
	for _, r := range records {
		status := DeriveStatus(r, now)
		s.Tabs.add(status)
		switch status {
		case StatusBorrowed:
			s.ActiveCount++
		case StatusOverdue:
			s.ActiveCount++
			s.OverdueCount++
		case StatusReturned:
			if sameDay(r.ParsedReturnDate(), now) {
				s.ReturnedTodayCount++
			}
		}
	}
	return s
}

// sameDay compares calendar dates in now's location.
func sameDay(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
