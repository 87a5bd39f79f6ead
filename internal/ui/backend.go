package ui

import (
	"context"

	"github.com/five82/librarian/internal/library"
)

// Backend is the part of the library API the console screens call directly.
// Borrow listing and mutations go through the borrowing view-model instead.
type Backend interface {
	ListBooks(ctx context.Context) ([]library.Book, error)
	SearchBooks(ctx context.Context, keyword string) ([]library.Book, error)
	AddBook(ctx context.Context, req library.BookRequest) (library.Book, error)
	UpdateBook(ctx context.Context, id int64, req library.BookRequest) (library.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	AdjustBookCopies(ctx context.Context, id int64, delta int) (library.Book, error)

	ListMembers(ctx context.Context) ([]library.Member, error)
	SearchMembers(ctx context.Context, name string) ([]library.Member, error)
	AddMember(ctx context.Context, req library.MemberRequest) (library.Member, error)
	UpdateMember(ctx context.Context, id int64, req library.MemberRequest) (library.Member, error)
	DeleteMember(ctx context.Context, id int64) error
	ListUserBorrows(ctx context.Context, userID int64) ([]library.BorrowRecord, error)

	ListOverdueBorrows(ctx context.Context) ([]library.BorrowRecord, error)

	FetchStatistics(ctx context.Context) (library.Statistics, error)
	FetchRecentActivity(ctx context.Context) ([]library.Activity, error)
	FetchPopularBooks(ctx context.Context) ([]library.PopularBook, error)
	SendChat(ctx context.Context, message string) (library.ChatReply, error)
}

var _ Backend = (*library.Client)(nil)
