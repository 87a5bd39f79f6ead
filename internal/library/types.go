package library

import (
	"math"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date format the backend accepts for due dates.
const DateLayout = "2006-01-02"

// BorrowRecord mirrors one lending transaction as returned by /borrows.
type BorrowRecord struct {
	ID         int64           `json:"id"`
	BookID     int64           `json:"bookId"`
	UserID     int64           `json:"userId"`
	BookTitle  string          `json:"bookTitle"`
	BorrowDate string          `json:"borrowDate"`
	DueDate    string          `json:"dueDate"`
	ReturnDate *string         `json:"returnDate"`
	Status     string          `json:"status"`
	FineAmount decimal.Decimal `json:"fineAmount"`
}

// Returned reports whether the backend has recorded a return date.
func (r BorrowRecord) Returned() bool {
	return r.ReturnDate != nil && strings.TrimSpace(*r.ReturnDate) != ""
}

// ParsedBorrowDate returns BorrowDate as local wall-clock time.
func (r BorrowRecord) ParsedBorrowDate() time.Time {
	return ParseTime(r.BorrowDate)
}

// ParsedDueDate returns DueDate as local wall-clock time.
func (r BorrowRecord) ParsedDueDate() time.Time {
	return ParseTime(r.DueDate)
}

// ParsedReturnDate returns the return date, or the zero time while outstanding.
func (r BorrowRecord) ParsedReturnDate() time.Time {
	if !r.Returned() {
		return time.Time{}
	}
	return ParseTime(*r.ReturnDate)
}

// BorrowRequest is the body of POST /borrows.
type BorrowRequest struct {
	BookID  int64  `json:"bookId"`
	UserID  int64  `json:"userId"`
	DueDate string `json:"dueDate"`
}

// NewBorrowRequest formats due as an ISO date.
func NewBorrowRequest(bookID, userID int64, due time.Time) BorrowRequest {
	return BorrowRequest{BookID: bookID, UserID: userID, DueDate: due.Format(DateLayout)}
}

// Book mirrors the /books payload.
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Description     string `json:"description"`
	Publisher       string `json:"publisher"`
	PageCount       int    `json:"pageCount"`
	Genres          string `json:"genres"`
	ISBN            string `json:"isbn"`
	Language        string `json:"language"`
	PublishedDate   string `json:"publishedDate"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}

// Category returns the first listed genre, or "General".
func (b Book) Category() string {
	first, _, _ := strings.Cut(b.Genres, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return "General"
}

// Available reports whether at least one copy can be lent.
func (b Book) Available() bool {
	return b.AvailableCopies > 0
}

// PublishYear returns the year of PublishedDate, or zero when unknown.
func (b Book) PublishYear() int {
	t := ParseTime(b.PublishedDate)
	if t.IsZero() {
		return 0
	}
	return t.Year()
}

// BookRequest is the body of POST /books and PUT /books/{id}.
type BookRequest struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	Description   string `json:"description"`
	Publisher     string `json:"publisher"`
	PageCount     int    `json:"pageCount" validate:"gte=0"`
	Genres        string `json:"genres"`
	ISBN          string `json:"isbn" validate:"required"`
	Language      string `json:"language"`
	PublishedDate string `json:"publishedDate" validate:"omitempty,datetime=2006-01-02"`
	TotalCopies   int    `json:"totalCopies" validate:"gte=0"`
}

// RequestFromBook copies the editable fields of b.
func RequestFromBook(b Book) BookRequest {
	return BookRequest{
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Publisher:     b.Publisher,
		PageCount:     b.PageCount,
		Genres:        b.Genres,
		ISBN:          b.ISBN,
		Language:      b.Language,
		PublishedDate: b.PublishedDate,
		TotalCopies:   b.TotalCopies,
	}
}

// Role is a member's access level.
type Role string

const (
	RoleMember    Role = "MEMBER"
	RoleLibrarian Role = "LIBRARIAN"
	RoleAdmin     Role = "ADMIN"
)

// Roles lists the roles in display order.
func Roles() []Role {
	return []Role{RoleMember, RoleLibrarian, RoleAdmin}
}

// Member mirrors the /users payload.
type Member struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        Role   `json:"role"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// FullName joins the first and last names.
func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// ParsedCreatedAt returns CreatedAt as local time.
func (m Member) ParsedCreatedAt() time.Time {
	return ParseTime(m.CreatedAt)
}

// MemberRequest is the body of POST /users and PUT /users/{id}.
type MemberRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password,omitempty"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Role        Role   `json:"role" validate:"required,oneof=ADMIN MEMBER LIBRARIAN"`
}

// RequestFromMember copies the editable fields of m. The password is never
// echoed back by the backend, so it stays empty.
func RequestFromMember(m Member) MemberRequest {
	return MemberRequest{
		Email:       m.Email,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		PhoneNumber: m.PhoneNumber,
		Role:        m.Role,
	}
}

// Statistics mirrors /dashboard/statistic.
type Statistics struct {
	TotalBooks    int `json:"total_Books"`
	ActiveMembers int `json:"active_Members"`
	BooksBorrowed int `json:"books_Borrowed"`
	OverdueBooks  int `json:"overdue_Books"`
}

// UtilizationRate is the rounded share of the catalog currently lent out.
func (s Statistics) UtilizationRate() int {
	if s.TotalBooks <= 0 {
		return 0
	}
	return int(math.Round(float64(s.BooksBorrowed) / float64(s.TotalBooks) * 100))
}

// OnTimeReturnRate is the rounded share of lent books that are not overdue.
func (s Statistics) OnTimeReturnRate() int {
	if s.BooksBorrowed <= 0 {
		return 100
	}
	return int(math.Round(float64(s.BooksBorrowed-s.OverdueBooks) / float64(s.BooksBorrowed) * 100))
}

// Activity mirrors one /dashboard/recent entry.
type Activity struct {
	BorrowID  int64  `json:"borrowID"`
	Status    string `json:"borrowStatus"`
	UserName  string `json:"userName"`
	BookTitle string `json:"bookTitle"`
	Time      string `json:"time"`
}

// ParsedTime returns the activity timestamp.
func (a Activity) ParsedTime() time.Time {
	return ParseTime(a.Time)
}

// PopularBook mirrors one /dashboard/popular entry.
type PopularBook struct {
	Title   string  `json:"title"`
	Borrows int     `json:"borrows"`
	Rating  float64 `json:"rating"`
}

// ChatReply is the assistant's answer to a query.
type ChatReply struct {
	Message string              `json:"message"`
	Data    jsoniter.RawMessage `json:"data"`
}

// ParseTime accepts the timestamp shapes the backend emits (RFC3339 with or
// without zone, or a bare ISO date) and returns local wall-clock time.
// Unparseable input yields the zero time.
func ParseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Local()
		}
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05", DateLayout} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DecodedData returns Data as generic JSON: []any, map[string]any or a
// scalar. Empty data, JSON null and the empty string yield nil.
func (r ChatReply) DecodedData() any {
	if len(r.Data) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(r.Data, &v); err != nil {
		return nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return v
}
