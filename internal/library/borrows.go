package library

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// BorrowGateway is the borrow-record surface of the backend.
// It is implemented by *Client and can be replaced in tests.
type BorrowGateway interface {
	CreateBorrow(ctx context.Context, req BorrowRequest) (BorrowRecord, error)
	ReturnBorrow(ctx context.Context, id int64) (BorrowRecord, error)
	ListBorrows(ctx context.Context) ([]BorrowRecord, error)
	ListOverdueBorrows(ctx context.Context) ([]BorrowRecord, error)
	ListBorrowsByStatus(ctx context.Context, status string) ([]BorrowRecord, error)
	SearchBorrows(ctx context.Context, keyword string) ([]BorrowRecord, error)
	TotalFine(ctx context.Context) (decimal.Decimal, error)
}

// Ensure Client implements BorrowGateway at compile time.
var _ BorrowGateway = (*Client)(nil)

const borrowsPath = "/borrows"

// CreateBorrow lends a book to a member. Availability and membership are
// enforced by the backend; any rejection surfaces as a RequestError.
func (c *Client) CreateBorrow(ctx context.Context, req BorrowRequest) (BorrowRecord, error) {
	var rec BorrowRecord
	err := c.do(ctx, call{op: "borrows.create", method: http.MethodPost, path: borrowsPath, body: req, dest: &rec})
	if err != nil {
		return BorrowRecord{}, err
	}
	return rec, nil
}

// ReturnBorrow marks a record returned.
func (c *Client) ReturnBorrow(ctx context.Context, id int64) (BorrowRecord, error) {
	var rec BorrowRecord
	path := borrowsPath + "/return/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, call{op: "borrows.return", method: http.MethodPut, path: path, dest: &rec}); err != nil {
		return BorrowRecord{}, err
	}
	return rec, nil
}

// ListBorrows fetches every borrow record.
func (c *Client) ListBorrows(ctx context.Context) ([]BorrowRecord, error) {
	return c.listBorrows(ctx, "borrows.list", borrowsPath, nil)
}

// ListOverdueBorrows fetches the records the backend considers overdue.
func (c *Client) ListOverdueBorrows(ctx context.Context) ([]BorrowRecord, error) {
	return c.listBorrows(ctx, "borrows.overdue", borrowsPath+"/overdue", nil)
}

// ListBorrowsByStatus fetches records with the given raw status, e.g. "BORROWED".
func (c *Client) ListBorrowsByStatus(ctx context.Context, status string) ([]BorrowRecord, error) {
	path := borrowsPath + "/status/" + url.PathEscape(strings.TrimSpace(status))
	return c.listBorrows(ctx, "borrows.by_status", path, nil)
}

// SearchBorrows runs the backend keyword search.
func (c *Client) SearchBorrows(ctx context.Context, keyword string) ([]BorrowRecord, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	return c.listBorrows(ctx, "borrows.search", borrowsPath+"/search", q)
}

// ListUserBorrows fetches the borrow history of one member.
func (c *Client) ListUserBorrows(ctx context.Context, userID int64) ([]BorrowRecord, error) {
	path := borrowsPath + "/user/" + strconv.FormatInt(userID, 10)
	return c.listBorrows(ctx, "borrows.user", path, nil)
}

// TotalFine fetches the backend's outstanding fine total across all members.
func (c *Client) TotalFine(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := c.do(ctx, call{op: "borrows.total_fine", method: http.MethodGet, path: borrowsPath + "/totalFine", dest: &total}); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (c *Client) listBorrows(ctx context.Context, op, path string, q url.Values) ([]BorrowRecord, error) {
	var records []BorrowRecord
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: path, query: q, dest: &records}); err != nil {
		return nil, err
	}
	return records, nil
}
