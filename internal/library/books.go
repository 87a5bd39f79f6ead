package library

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const booksPath = "/books"

// ListBooks fetches the catalog.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, call{op: "books.list", method: http.MethodGet, path: booksPath, dest: &books}); err != nil {
		return nil, err
	}
	return books, nil
}

// SearchBooks runs the backend keyword search over titles, authors and so on.
// A blank keyword returns no books without contacting the backend.
func (c *Client) SearchBooks(ctx context.Context, keyword string) ([]Book, error) {
	if strings.TrimSpace(keyword) == "" {
		return []Book{}, nil
	}
	q := url.Values{}
	q.Set("keyword", keyword)
	var books []Book
	if err := c.do(ctx, call{op: "books.search", method: http.MethodGet, path: booksPath + "/search", query: q, dest: &books}); err != nil {
		return nil, err
	}
	return books, nil
}

// AddBook creates a catalog entry.
func (c *Client) AddBook(ctx context.Context, req BookRequest) (Book, error) {
	var book Book
	if err := c.do(ctx, call{op: "books.add", method: http.MethodPost, path: booksPath, body: req, dest: &book}); err != nil {
		return Book{}, err
	}
	return book, nil
}

// UpdateBook replaces the editable fields of a catalog entry.
func (c *Client) UpdateBook(ctx context.Context, id int64, req BookRequest) (Book, error) {
	var book Book
	path := booksPath + "/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, call{op: "books.update", method: http.MethodPut, path: path, body: req, dest: &book}); err != nil {
		return Book{}, err
	}
	return book, nil
}

// DeleteBook removes a catalog entry. The response body is ignored.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	path := booksPath + "/" + strconv.FormatInt(id, 10)
	return c.do(ctx, call{op: "books.delete", method: http.MethodDelete, path: path})
}

// AdjustBookCopies adds delta copies (negative removes) to a book.
func (c *Client) AdjustBookCopies(ctx context.Context, id int64, delta int) (Book, error) {
	q := url.Values{}
	q.Set("additionalCopies", strconv.Itoa(delta))
	path := booksPath + "/" + strconv.FormatInt(id, 10) + "/copies"
	var book Book
	if err := c.do(ctx, call{op: "books.copies", method: http.MethodPatch, path: path, query: q, dest: &book}); err != nil {
		return Book{}, err
	}
	return book, nil
}
