package ui

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"Dune", 10, "Dune"},
		{"The Left Hand of Darkness", 10, "The Lef..."},
		{"Dune", 2, "Du"},
		{"Dune", 0, ""},
		{"  Emma  ", 10, "Emma"},
	}
	for _, c := range cases {
		if got := truncate(c.in, c.limit); got != c.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", c.in, c.limit, got, c.want)
		}
	}
}

func TestTruncateMiddle_KeepsBothEnds(t *testing.T) {
	got := truncateMiddle("/home/librarian/.local/state/librarian/librarian.log", 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("len = %d, want 20 (%q)", len([]rune(got)), got)
	}
	if got[:6] != "/home/" {
		t.Fatalf("prefix lost: %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"OVERDUE":      "Overdue",
		"needs_review": "Needs Review",
		"borrowed":     "Borrowed",
		"  ":           "",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Fatalf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := formatMoney(decimal.RequireFromString("12.5")); got != "$12.50" {
		t.Fatalf("formatMoney = %q", got)
	}
	if got := formatMoney(decimal.Zero); got != "$0.00" {
		t.Fatalf("formatMoney(0) = %q", got)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	if got := relativeTime(now.Add(-3*time.Minute), now); got != "3 minutes ago" {
		t.Fatalf("relativeTime = %q", got)
	}
	if got := relativeTime(time.Time{}, now); got != "—" {
		t.Fatalf("relativeTime(zero) = %q", got)
	}
}

func TestPadRightAndPlural(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight overflow = %q", got)
	}
	if plural(1, "copy", "copies") != "copy" || plural(2, "copy", "copies") != "copies" {
		t.Fatal("plural mismatch")
	}
}

func TestVisibleWindow(t *testing.T) {
	cases := []struct {
		n, cursor, height int
		start, end        int
	}{
		{5, 0, 10, 0, 5},
		{20, 0, 5, 0, 5},
		{20, 10, 5, 8, 13},
		{20, 19, 5, 15, 20},
	}
	for _, c := range cases {
		start, end := visibleWindow(c.n, c.cursor, c.height)
		if start != c.start || end != c.end {
			t.Fatalf("visibleWindow(%d, %d, %d) = %d,%d want %d,%d",
				c.n, c.cursor, c.height, start, end, c.start, c.end)
		}
	}
}

func TestFormatChatData(t *testing.T) {
	arr := []any{map[string]any{"title": "Dune", "copies": float64(3)}, "plain"}
	got := formatChatData(arr)
	want := "Results (2 items):\n1.\n   Copies: 3\n   Title: Dune\n2. plain"
	if got != want {
		t.Fatalf("formatChatData(array) =\n%s\nwant\n%s", got, want)
	}

	obj := map[string]any{"overdue_count": float64(4), "fine": 2.5}
	if got := formatChatData(obj); got != "Fine: 2.5\nOverdue Count: 4" {
		t.Fatalf("formatChatData(object) = %q", got)
	}

	if got := formatChatData(nil); got != "" {
		t.Fatalf("formatChatData(nil) = %q", got)
	}
	if got := formatChatData([]any{}); got != "" {
		t.Fatalf("formatChatData(empty) = %q", got)
	}
}

func TestNextLevel(t *testing.T) {
	if got := nextLevel("INFO"); got != "WARN" {
		t.Fatalf("nextLevel(INFO) = %q", got)
	}
	if got := nextLevel("ERROR"); got != "DEBUG" {
		t.Fatalf("nextLevel(ERROR) = %q", got)
	}
	if got := nextLevel("TRACE"); got != "DEBUG" {
		t.Fatalf("nextLevel(TRACE) = %q", got)
	}
}
