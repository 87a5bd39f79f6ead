package borrowing

import (
	"strings"
	"time"

	"github.com/five82/librarian/internal/library"
)

// Tab selects a subset of records by derived status.
type Tab int

const (
	TabAll Tab = iota
	TabBorrowed
	TabOverdue
	TabReturned
)

// Tabs lists the tabs in display order.
func Tabs() []Tab {
	return []Tab{TabAll, TabBorrowed, TabOverdue, TabReturned}
}

func (t Tab) String() string {
	switch t {
	case TabBorrowed:
		return "borrowed"
	case TabOverdue:
		return "overdue"
	case TabReturned:
		return "returned"
	default:
		return "all"
	}
}

// ParseTab maps a tab name back to a Tab. Unknown names yield TabAll and false.
func ParseTab(name string) (Tab, bool) {
	for _, t := range Tabs() {
		if strings.EqualFold(strings.TrimSpace(name), t.String()) {
			return t, true
		}
	}
	return TabAll, false
}

// Next cycles to the following tab.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % len(Tabs()))
}

// Matches reports whether a record of status s belongs on tab t.
func (t Tab) Matches(s Status) bool {
	switch t {
	case TabBorrowed:
		return s == StatusBorrowed
	case TabOverdue:
		return s == StatusOverdue
	case TabReturned:
		return s == StatusReturned
	default:
		return true
	}
}

// Filter returns the records shown on tab at instant now.
func Filter(records []library.BorrowRecord, tab Tab, now time.Time) []library.BorrowRecord {
	if tab == TabAll {
		return records
	}
	out := make([]library.BorrowRecord, 0, len(records))
	for _, r := range records {
		if tab.Matches(DeriveStatus(r, now)) {
			out = append(out, r)
		}
	}
	return out
}

// TabCounts holds per-tab record counts over a full list.
type TabCounts struct {
	All      int
	Borrowed int
	Overdue  int
	Returned int
}

// Count returns the count for tab t.
func (c TabCounts) Count(t Tab) int {
	switch t {
	case TabBorrowed:
		return c.Borrowed
	case TabOverdue:
		return c.Overdue
	case TabReturned:
		return c.Returned
	default:
		return c.All
	}
}

// CountTabs counts records per tab. Counts are taken over the whole list so
// they do not depend on the tab being viewed.
func CountTabs(records []library.BorrowRecord, now time.Time) TabCounts {
	var c TabCounts
	for _, r := range records {
		c.add(DeriveStatus(r, now))
	}
	return c
}

func (c *TabCounts) add(s Status) {
	c.All++
	switch s {
	case StatusBorrowed:
		c.Borrowed++
	case StatusOverdue:
		c.Overdue++
	case StatusReturned:
		c.Returned++
	}
}
