package borrowing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/five82/librarian/internal/library"
	"github.com/five82/librarian/internal/state"
)

// ViewModel turns gateway results into display state for the borrowing view.
type ViewModel struct {
	gateway library.BorrowGateway
	store   *state.Store
	logger  *slog.Logger
	now     func() time.Time
}

// Option customises a ViewModel.
type Option func(*ViewModel)

// WithLogger sets the logger for refresh and mutation failures.
func WithLogger(l *slog.Logger) Option {
	return func(vm *ViewModel) {
		if l != nil {
			vm.logger = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(vm *ViewModel) {
		if now != nil {
			vm.now = now
		}
	}
}

// New builds a ViewModel over gateway. A nil store gets a fresh one.
func New(gateway library.BorrowGateway, store *state.Store, opts ...Option) *ViewModel {
	if store == nil {
		store = &state.Store{}
	}
	vm := &ViewModel{
		gateway: gateway,
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Now returns the view-model's clock reading.
func (vm *ViewModel) Now() time.Time {
	return vm.now()
}

// Refresh reloads the records for q and the total fine concurrently and
// replaces the snapshot wholesale. On a record failure the previous records
// stay in place and the error is returned. A total-fine failure only keeps
// the previous fine. If a newer refresh was begun meanwhile, the result is
// dropped and state.ErrStale is returned.
func (vm *ViewModel) Refresh(ctx context.Context, q Query) error {
	seq := vm.store.Begin()

	var (
		records []library.BorrowRecord
		fine    decimal.Decimal
		fineErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := q.fetch(gctx, vm.gateway)
		if err != nil {
			return err
		}
		records = recs
		return nil
	})
	g.Go(func() error {
		total, err := vm.gateway.TotalFine(gctx)
		if err != nil {
			fineErr = err
			return nil
		}
		fine = total
		return nil
	})

	if err := g.Wait(); err != nil {
		vm.logger.Warn("borrowing refresh failed",
			append([]any{"query", q.String(), "seq", seq}, errorAttrs(err)...)...)
		if failErr := vm.store.Fail(seq, err); failErr != nil {
			return failErr
		}
		return err
	}
	if fineErr != nil {
		vm.logger.Warn("total fine unavailable, keeping previous value", errorAttrs(fineErr)...)
	}

	err := vm.store.Commit(seq, state.Result{
		Records:   records,
		Query:     q.String(),
		TotalFine: fine,
		HasFine:   fineErr == nil,
	})
	if err != nil {
		vm.logger.Debug("discarded stale borrowing refresh", "query", q.String(), "seq", seq)
		return err
	}
	vm.logger.Debug("borrowing refreshed", "query", q.String(), "seq", seq, "records", len(records))
	return nil
}

// Create lends a book and then reloads q. When the create succeeds but the
// reload fails, the record comes back with a *RefreshError.
func (vm *ViewModel) Create(ctx context.Context, req library.BorrowRequest, q Query) (library.BorrowRecord, error) {
	rec, err := vm.gateway.CreateBorrow(ctx, req)
	if err != nil {
		vm.logger.Warn("create borrow failed",
			append([]any{"book_id", req.BookID, "user_id", req.UserID}, errorAttrs(err)...)...)
		return library.BorrowRecord{}, err
	}
	vm.logger.Info("borrow created", "borrow_id", rec.ID, "book_id", req.BookID, "user_id", req.UserID, "due", req.DueDate)
	return rec, vm.reload(ctx, q)
}

// Return marks record id returned and then reloads q. Reload failures are
// reported as in Create.
func (vm *ViewModel) Return(ctx context.Context, id int64, q Query) (library.BorrowRecord, error) {
	rec, err := vm.gateway.ReturnBorrow(ctx, id)
	if err != nil {
		vm.logger.Warn("return borrow failed", append([]any{"borrow_id", id}, errorAttrs(err)...)...)
		return library.BorrowRecord{}, err
	}
	vm.logger.Info("borrow returned", "borrow_id", id)
	return rec, vm.reload(ctx, q)
}

// RefreshError reports a mutation that reached the backend but whose
// follow-up refresh failed. The mutated record is returned alongside it.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "refresh after mutation: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() error { return e.Err }

// reload refreshes q after a mutation. A stale result is not a failure: a
// newer refresh owns the snapshot.
func (vm *ViewModel) reload(ctx context.Context, q Query) error {
	err := vm.Refresh(ctx, q)
	if err == nil || errors.Is(err, state.ErrStale) {
		return nil
	}
	return &RefreshError{Err: err}
}

// View is the display state of the borrowing screen for one render.
type View struct {
	Rows        []Row
	Summary     Summary
	TotalFine   decimal.Decimal
	HasFine     bool
	Query       string
	Loaded      bool
	LastError   error
	LastUpdated time.Time
	Offline     bool
}

// View derives the rows for tab from the latest snapshot. Statuses are
// recomputed against the clock on every call.
func (vm *ViewModel) View(tab Tab) View {
	snap := vm.store.Snapshot()
	now := vm.now()
	return View{
		Rows:        Rows(snap.Records, tab, now),
		Summary:     Summarize(snap.Records, now),
		TotalFine:   snap.TotalFine,
		HasFine:     snap.HasFine,
		Query:       snap.Query,
		Loaded:      snap.HasData,
		LastError:   snap.LastError,
		LastUpdated: snap.LastUpdated,
		Offline:     snap.IsOffline(),
	}
}

func errorAttrs(err error) []any {
	var reqErr *library.RequestError
	if errors.As(err, &reqErr) {
		return []any{"op", reqErr.Op, "status", reqErr.Status, "error", reqErr.Err}
	}
	return []any{"error", err}
}
