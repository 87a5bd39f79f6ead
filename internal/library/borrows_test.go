package library

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBorrows = `[
  {"id":1,"bookId":10,"userId":100,"bookTitle":"Dune: Deluxe Edition","borrowDate":"2024-01-01","dueDate":"2024-01-15","returnDate":null,"status":"BORROWED","fineAmount":0},
  {"id":2,"bookId":11,"userId":101,"bookTitle":"Emma","borrowDate":"2024-01-02","dueDate":"2024-01-09","returnDate":"2024-01-08","status":"RETURNED","fineAmount":1.25}
]`

func TestCreateBorrow_PostsRequestBody(t *testing.T) {
	fb, c := newFakeBackend(t, map[string]any{
		"POST /borrows": `{"id":9,"bookId":3,"userId":4,"bookTitle":"Emma","borrowDate":"2024-01-01","dueDate":"2024-01-10","returnDate":null,"status":"BORROWED","fineAmount":0}`,
	})
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)

	rec, err := c.CreateBorrow(testContext(t), NewBorrowRequest(3, 4, due))
	require.NoError(t, err)
	assert.Equal(t, int64(9), rec.ID)
	assert.False(t, rec.Returned())

	req := fb.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.JSONEq(t, `{"bookId":3,"userId":4,"dueDate":"2024-01-10"}`, req.Body)
}

func TestReturnBorrow_UsesPutWithID(t *testing.T) {
	fb, c := newFakeBackend(t, map[string]any{
		"PUT /borrows/return/42": `{"id":42,"returnDate":"2024-02-01","status":"RETURNED"}`,
	})
	rec, err := c.ReturnBorrow(testContext(t), 42)
	require.NoError(t, err)
	assert.True(t, rec.Returned())
	assert.Empty(t, fb.last().Body)
}

func TestListBorrows_DecodesRecords(t *testing.T) {
	_, c := newFakeBackend(t, map[string]any{"GET /borrows": sampleBorrows})

	records, err := c.ListBorrows(testContext(t))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Dune: Deluxe Edition", records[0].BookTitle)
	assert.Nil(t, records[0].ReturnDate)
	assert.True(t, records[1].Returned())
	assert.True(t, records[1].FineAmount.Equal(decimal.RequireFromString("1.25")))
	assert.Equal(t, 15, records[0].ParsedDueDate().Day())
}

func TestBorrowQueries_Paths(t *testing.T) {
	fb, c := newFakeBackend(t, map[string]any{
		"GET /borrows/overdue":         `[]`,
		"GET /borrows/status/BORROWED": `[]`,
		"GET /borrows/search":          `[]`,
		"GET /borrows/user/7":          sampleBorrows,
	})
	ctx := testContext(t)

	_, err := c.ListOverdueBorrows(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/borrows/overdue", fb.last().Path)

	_, err = c.ListBorrowsByStatus(ctx, " BORROWED ")
	require.NoError(t, err)
	assert.Equal(t, "/borrows/status/BORROWED", fb.last().Path)

	_, err = c.SearchBorrows(ctx, "war & peace")
	require.NoError(t, err)
	assert.Equal(t, "war & peace", fb.last().Query.Get("keyword"))

	history, err := c.ListUserBorrows(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, 4, fb.count())
}

func TestTotalFine(t *testing.T) {
	_, c := newFakeBackend(t, map[string]any{"GET /borrows/totalFine": `12.5`})

	total, err := c.TotalFine(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "12.50", total.StringFixed(2))
}

func TestTotalFine_ErrorReturnsZero(t *testing.T) {
	_, c := newFakeBackend(t, map[string]any{"GET /borrows/totalFine": http.StatusInternalServerError})

	total, err := c.TotalFine(testContext(t))
	require.Error(t, err)
	assert.True(t, total.IsZero())
}
