package borrowing

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/librarian/internal/library"
)

// Source names the server-side list a query reads when no keyword is set.
type Source int

const (
	SourceAll Source = iota
	SourceOverdue
	SourceStatus
)

// Query selects exactly one backend data source. A non-blank Keyword wins
// over Source; results of different sources are never merged.
type Query struct {
	Keyword string
	Source  Source
	Status  string // raw backend status, used with SourceStatus
}

// sourceCycle is the order the console steps through server sources.
var sourceCycle = []Query{
	{Source: SourceAll},
	{Source: SourceOverdue},
	{Source: SourceStatus, Status: "BORROWED"},
	{Source: SourceStatus, Status: "RETURNED"},
}

// NextSource returns q moved to the following server source. The keyword
// is cleared so the new source is actually fetched.
func (q Query) NextSource() Query {
	for i, c := range sourceCycle {
		if c.Source == q.Source && strings.EqualFold(c.Status, q.Status) {
			return sourceCycle[(i+1)%len(sourceCycle)]
		}
	}
	return sourceCycle[0]
}

// WithKeyword returns q searching for keyword.
func (q Query) WithKeyword(keyword string) Query {
	q.Keyword = strings.TrimSpace(keyword)
	return q
}

// Searching reports whether the keyword search is the active source.
func (q Query) Searching() bool {
	return strings.TrimSpace(q.Keyword) != ""
}

// String describes the active source for display and logs.
func (q Query) String() string {
	if q.Searching() {
		return fmt.Sprintf("search %q", strings.TrimSpace(q.Keyword))
	}
	switch q.Source {
	case SourceOverdue:
		return "overdue (server)"
	case SourceStatus:
		return "status " + strings.ToUpper(strings.TrimSpace(q.Status))
	default:
		return "all"
	}
}

func (q Query) fetch(ctx context.Context, gw library.BorrowGateway) ([]library.BorrowRecord, error) {
	if q.Searching() {
		return gw.SearchBorrows(ctx, strings.TrimSpace(q.Keyword))
	}
	switch q.Source {
	case SourceOverdue:
		return gw.ListOverdueBorrows(ctx)
	case SourceStatus:
		if status := strings.TrimSpace(q.Status); status != "" {
			return gw.ListBorrowsByStatus(ctx, strings.ToUpper(status))
		}
	}
	return gw.ListBorrows(ctx)
}
