package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestBorrowForm_Request(t *testing.T) {
	req, err := borrowForm{BookID: "4", UserID: "12", DueDate: "2024-02-01"}.request()
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.BookID != 4 || req.UserID != 12 || req.DueDate != "2024-02-01" {
		t.Fatalf("req = %+v", req)
	}
}

func TestBorrowForm_Validation(t *testing.T) {
	tests := []struct {
		name string
		form borrowForm
		want string
	}{
		{"missing book", borrowForm{UserID: "1", DueDate: "2024-02-01"}, "Book ID is required"},
		{"non-numeric member", borrowForm{BookID: "1", UserID: "ada", DueDate: "2024-02-01"}, "Member ID must be a whole number"},
		{"bad date", borrowForm{BookID: "1", UserID: "1", DueDate: "01/02/2024"}, "Due date must be a date (YYYY-MM-DD)"},
		{"zero id", borrowForm{BookID: "0", UserID: "1", DueDate: "2024-02-01"}, "Book ID must be a positive number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.request()
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := validationMessage(err); !strings.Contains(got, tt.want) {
				t.Fatalf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBookForm_Request(t *testing.T) {
	req, err := bookForm{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", PageCount: "412", TotalCopies: "3"}.request()
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.PageCount != 412 || req.TotalCopies != 3 {
		t.Fatalf("req = %+v", req)
	}

	_, err = bookForm{Title: "Dune", Author: "Frank Herbert", ISBN: "1", PageCount: "many"}.request()
	if got := validationMessage(err); got != "Pages must be a whole number" {
		t.Fatalf("message = %q", got)
	}

	_, err = bookForm{}.request()
	if got := validationMessage(err); got != "Title is required; Author is required; ISBN is required" {
		t.Fatalf("message = %q", got)
	}
}

func TestMemberForm_PasswordOnlyRequiredWhenCreating(t *testing.T) {
	form := memberForm{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Role: "ADMIN"}

	if _, err := form.request(true); err != errPasswordRequired {
		t.Fatalf("create without password: err = %v", err)
	}
	if _, err := form.request(false); err != nil {
		t.Fatalf("update without password: %v", err)
	}

	form.Email = "not-an-email"
	_, err := form.request(false)
	if got := validationMessage(err); got != "Email must be a valid email" {
		t.Fatalf("message = %q", got)
	}
}

func TestFormModal_ErrorKeepsDialogOpen(t *testing.T) {
	var submitted []string
	modal := newFormModal("New Borrowing", func(v []string) (tea.Cmd, error) {
		submitted = v
		_, err := borrowForm{BookID: v[0], UserID: v[1], DueDate: v[2]}.request()
		return nil, err
	},
		textField("Book ID", "", ""),
		textField("Member ID", "7", ""),
		textField("Due date", "2024-02-01", ""),
	)

	next, _, done := modal.Update(tea.KeyMsg{Type: tea.KeyEnter}, DefaultKeyMap())
	if done {
		t.Fatal("invalid form closed")
	}
	f := next.(*formModal)
	if f.err != "Book ID is required" {
		t.Fatalf("err = %q", f.err)
	}
	if len(submitted) != 3 || submitted[1] != "7" {
		t.Fatalf("submitted = %v", submitted)
	}

	_, _, done = f.Update(tea.KeyMsg{Type: tea.KeyEsc}, DefaultKeyMap())
	if !done {
		t.Fatal("esc should close the form")
	}
}

func TestFormModal_ChoiceFieldCycles(t *testing.T) {
	modal := newFormModal("Role", func([]string) (tea.Cmd, error) { return nil, nil },
		choiceField("Role", "", []string{"MEMBER", "LIBRARIAN", "ADMIN"}))

	if got := modal.values()[0]; got != "MEMBER" {
		t.Fatalf("initial choice = %q", got)
	}
	modal.Update(tea.KeyMsg{Type: tea.KeyRight}, DefaultKeyMap())
	if got := modal.values()[0]; got != "LIBRARIAN" {
		t.Fatalf("after right = %q", got)
	}
	modal.Update(tea.KeyMsg{Type: tea.KeyLeft}, DefaultKeyMap())
	modal.Update(tea.KeyMsg{Type: tea.KeyLeft}, DefaultKeyMap())
	if got := modal.values()[0]; got != "ADMIN" {
		t.Fatalf("wrap-around = %q", got)
	}
}

func TestBorrowFormModal_PrefillsDueDate(t *testing.T) {
	m := newTestModel(t, sampleBackend())
	f := m.borrowFormModal().(*formModal)
	want := testNow.Add(14 * 24 * time.Hour).Format("2006-01-02")
	if got := f.values()[2]; got != want {
		t.Fatalf("due date = %q, want %q", got, want)
	}
}
