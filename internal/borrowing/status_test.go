package borrowing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/librarian/internal/library"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func strPtr(s string) *string { return &s }

func TestDeriveStatus_OverdueLoan(t *testing.T) {
	r := library.BorrowRecord{DueDate: "2024-01-10", Status: "BORROWED"}
	now := day(2024, 1, 15)

	assert.Equal(t, StatusOverdue, DeriveStatus(r, now))
	assert.Equal(t, 5, DaysOverdue(r.ParsedDueDate(), now))
}

func TestDeriveStatus_LateReturnStaysReturned(t *testing.T) {
	r := library.BorrowRecord{DueDate: "2024-01-10", ReturnDate: strPtr("2024-01-20"), Status: "RETURNED"}
	assert.Equal(t, StatusReturned, DeriveStatus(r, day(2024, 1, 25)))
}

func TestDeriveStatus_ActiveBeforeDue(t *testing.T) {
	r := library.BorrowRecord{DueDate: "2024-01-20", Status: "ACTIVE"}
	now := day(2024, 1, 15)

	assert.Equal(t, StatusBorrowed, DeriveStatus(r, now))
	assert.Zero(t, DaysOverdue(r.ParsedDueDate(), now))
}

func TestSummarize_EmptyList(t *testing.T) {
	s := Summarize(nil, day(2024, 1, 15))
	assert.Zero(t, s.ActiveCount)
	assert.Zero(t, s.OverdueCount)
	assert.Zero(t, s.ReturnedTodayCount)
	assert.Empty(t, Filter(nil, TabAll, day(2024, 1, 15)))
	assert.Empty(t, Rows(nil, TabAll, day(2024, 1, 15)))
}

func TestDeriveStatus_ReturnedWinsRegardlessOfRawStatus(t *testing.T) {
	now := day(2024, 6, 1)
	for _, raw := range []string{"BORROWED", "ACTIVE", "OVERDUE", "weird", ""} {
		r := library.BorrowRecord{DueDate: "2020-01-01", ReturnDate: strPtr("2020-02-01"), Status: raw}
		assert.Equal(t, StatusReturned, DeriveStatus(r, now), raw)
	}
}

func TestDeriveStatus_NullReturnFollowsClock(t *testing.T) {
	due := "2024-03-10"
	dueAt := day(2024, 3, 10)
	for _, raw := range []string{"BORROWED", "active", "RETURNED", "LOST"} {
		r := library.BorrowRecord{DueDate: due, Status: raw}
		assert.Equal(t, StatusBorrowed, DeriveStatus(r, dueAt), "at due instant, raw %q", raw)
		assert.Equal(t, StatusBorrowed, DeriveStatus(r, dueAt.Add(-time.Hour)), "before due, raw %q", raw)
		assert.Equal(t, StatusOverdue, DeriveStatus(r, dueAt.Add(time.Second)), "after due, raw %q", raw)
	}
}

func TestDeriveStatus_UnparseableDueIsNeverOverdue(t *testing.T) {
	r := library.BorrowRecord{DueDate: "soon", Status: "BORROWED"}
	assert.Equal(t, StatusBorrowed, DeriveStatus(r, day(2099, 1, 1)))
}

func TestDaysOverdue_CeilAndClamp(t *testing.T) {
	due := day(2024, 1, 10)

	assert.Zero(t, DaysOverdue(due, due.Add(-48*time.Hour)))
	assert.Zero(t, DaysOverdue(due, due))
	assert.Equal(t, 1, DaysOverdue(due, due.Add(3*time.Hour)))
	assert.Equal(t, 1, DaysOverdue(due, due.Add(24*time.Hour)))
	assert.Equal(t, 2, DaysOverdue(due, due.Add(25*time.Hour)))
	assert.Zero(t, DaysOverdue(time.Time{}, due))
}

func TestDaysOverdue_Monotonic(t *testing.T) {
	due := day(2024, 1, 10)
	prev := 0
	for h := -72; h <= 24*30; h += 5 {
		got := DaysOverdue(due, due.Add(time.Duration(h)*time.Hour))
		require.GreaterOrEqual(t, got, prev, "hour offset %d", h)
		prev = got
	}
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Dune", DisplayTitle("Dune: Deluxe Edition"))
	assert.Equal(t, "A", DisplayTitle("A:B:C"))
	assert.Equal(t, "Emma", DisplayTitle("Emma"))
	assert.Equal(t, "Unknown Book", DisplayTitle(""))
	assert.Equal(t, "Unknown Book", DisplayTitle(" : subtitle only"))
}

func TestKnownRawStatus(t *testing.T) {
	assert.True(t, KnownRawStatus(" active "))
	assert.False(t, KnownRawStatus("LOST"))
}

func TestNewRow(t *testing.T) {
	r := library.BorrowRecord{BookTitle: "Dune: Deluxe", DueDate: "2024-01-10"}
	row := NewRow(r, day(2024, 1, 13))
	assert.Equal(t, "Dune", row.Title)
	assert.Equal(t, StatusOverdue, row.Status)
	assert.Equal(t, 3, row.DaysOverdue)
}
